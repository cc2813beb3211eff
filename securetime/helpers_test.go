package securetime

import (
	"time"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/types"
)

// fakeDrmContext implements the subset of engine.Context the bootstrapper
// touches; the remaining methods are inert.
type fakeDrmContext struct {
	statusErr    error
	challenge    []byte
	challengeErr error

	processedResponse []byte
	processErr        error

	antiRollbackSeed time.Time
	antiRollbackErr  error

	challengeCalls    int
	processCalls      int
	antiRollbackCalls int
}

var _ engine.Context = (*fakeDrmContext)(nil)

func (f *fakeDrmContext) SecureTimeStatus() (time.Time, engine.ClockType, error) {
	if f.statusErr != nil {
		return time.Time{}, engine.ClockTypeNone, f.statusErr
	}
	return time.Unix(1700000000, 0), engine.ClockTypeSecure, nil
}

func (f *fakeDrmContext) GenerateTimeChallenge() ([]byte, error) {
	f.challengeCalls++
	if f.challengeErr != nil {
		return nil, f.challengeErr
	}
	return f.challenge, nil
}

func (f *fakeDrmContext) ProcessTimeResponse(response []byte) error {
	f.processCalls++
	if f.processErr != nil {
		return f.processErr
	}
	f.processedResponse = append([]byte(nil), response...)
	return nil
}

func (f *fakeDrmContext) InitAntiRollbackClock(seed time.Time) error {
	f.antiRollbackCalls++
	if f.antiRollbackErr != nil {
		return f.antiRollbackErr
	}
	f.antiRollbackSeed = seed
	return nil
}

func (f *fakeDrmContext) CleanupStore() error                    { return nil }
func (f *fakeDrmContext) ResizeLicenseStore(uint32) error        { return nil }
func (f *fakeDrmContext) SetProperty(engine.Property, []byte) error { return nil }
func (f *fakeDrmContext) SetRevocationBuffer(uint32) error       { return nil }
func (f *fakeDrmContext) StoreRevocationPackage([]byte) error    { return nil }
func (f *fakeDrmContext) Close() error                           { return nil }

func (f *fakeDrmContext) SecureStopSessions([]byte) ([]types.SessionID, error) {
	return nil, engine.ErrNoMoreSessions
}

func (f *fakeDrmContext) SecureStopChallenge(types.SessionID, []byte) ([]byte, error) {
	return nil, nil
}

func (f *fakeDrmContext) ProcessSecureStopResponse(types.SessionID, []byte, []byte) ([]byte, error) {
	return nil, nil
}

// petitionReply scripts one Petition answer.
type petitionReply struct {
	status  int
	forward string
	err     error
}

// fakeTransport replays scripted petition answers and records challenge posts.
type fakeTransport struct {
	replies []petitionReply

	postResponse []byte
	postErr      error

	petitioned []string
	postedURL  string
	postedBody []byte
	postCalls  int
}

var _ Transport = (*fakeTransport)(nil)

func (f *fakeTransport) Petition(url string) (int, string, error) {
	f.petitioned = append(f.petitioned, url)
	if len(f.replies) == 0 {
		return 0, "", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.status, reply.forward, reply.err
}

func (f *fakeTransport) PostChallenge(url string, challenge []byte) ([]byte, error) {
	f.postCalls++
	f.postedURL = url
	f.postedBody = append([]byte(nil), challenge...)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return f.postResponse, nil
}

// fixedClock returns a constant time.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
