package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func AssertTrue(t testing.TB, condition bool, msgAndArgs ...any) {
	t.Helper()
	if !condition {
		t.Errorf("Expected condition to be true%s", formatMessage(msgAndArgs...))
	}
}

func AssertFalse(t testing.TB, condition bool, msgAndArgs ...any) {
	t.Helper()
	if condition {
		t.Errorf("Expected condition to be false%s", formatMessage(msgAndArgs...))
	}
}

func AssertEqual(t testing.TB, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf(
			"Not equal: \nexpected: %v\nactual  : %v%s",
			expected,
			actual,
			formatMessage(msgAndArgs...),
		)
	}
}

func AssertBytesEqual(t testing.TB, expected, actual []byte, msgAndArgs ...any) {
	t.Helper()
	if !bytes.Equal(expected, actual) {
		t.Errorf(
			"Byte slices not equal: \nexpected: %x\nactual  : %x%s",
			expected,
			actual,
			formatMessage(msgAndArgs...),
		)
	}
}

func AssertLen(t testing.TB, object any, length int, msgAndArgs ...any) {
	t.Helper()
	v := reflect.ValueOf(object)
	if v.Len() != length {
		t.Errorf(
			"Length not equal: \nexpected: %d\nactual  : %d%s",
			length,
			v.Len(),
			formatMessage(msgAndArgs...),
		)
	}
}

func AssertNoError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v%s", err, formatMessage(msgAndArgs...))
	}
}

func AssertError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected an error but got nil%s", formatMessage(msgAndArgs...))
	}
}

func AssertErrorIs(t testing.TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf(
			"Expected error to be %v but got %v%s",
			target,
			err,
			formatMessage(msgAndArgs...),
		)
	}
}

func AssertNil(t testing.TB, actual any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(actual) {
		t.Errorf("Expected value to be nil, but was: %#v%s", actual, formatMessage(msgAndArgs...))
	}
}

func AssertNotNil(t testing.TB, actual any, msgAndArgs ...any) {
	t.Helper()
	if isNil(actual) {
		t.Errorf("Expected value to be non-nil%s", formatMessage(msgAndArgs...))
	}
}

// AssertPanics runs fn and fails the test unless fn panics.
// Used for precondition violations that must fail loudly.
func AssertPanics(t testing.TB, fn func(), msgAndArgs ...any) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("Expected function to panic%s", formatMessage(msgAndArgs...))
		}
	}()
	fn()
}

// RequireNoError fails the test immediately when err is non-nil.
func RequireNoError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v%s", err, formatMessage(msgAndArgs...))
	}
}

// RequireError fails the test immediately when err is nil.
func RequireError(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected an error but got nil%s", formatMessage(msgAndArgs...))
	}
}

func formatMessage(msgAndArgs ...any) string {
	if len(msgAndArgs) == 0 || msgAndArgs[0] == nil {
		return ""
	}
	if len(msgAndArgs) == 1 {
		if msgStr, ok := msgAndArgs[0].(string); ok {
			return ": " + msgStr
		}
		return fmt.Sprintf(": %v", msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprintf(": %v", msgAndArgs)
}

// isNil reports whether value is nil, including typed nils inside interfaces.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
