package securetime

import (
	"errors"
	"testing"
	"time"

	"github.com/jvbreda/drmcore/engine"
	tu "github.com/jvbreda/drmcore/testutil"
	"github.com/jvbreda/drmcore/types"
)

func newTestBootstrapper(t *testing.T, transport Transport, clock Clock) *Bootstrapper {
	t.Helper()
	b, err := NewBootstrapper(DefaultConfig(), transport, clock, nil)
	tu.RequireNoError(t, err)
	return b
}

func TestNewBootstrapper_ValidatesConfig(t *testing.T) {
	_, err := NewBootstrapper(Config{}, &fakeTransport{}, nil, nil)
	tu.AssertError(t, err)

	cfg := DefaultConfig()
	cfg.RequestTimeout = 0
	_, err = NewBootstrapper(cfg, &fakeTransport{}, nil, nil)
	tu.AssertError(t, err)
}

func TestEstablish_ClockAlreadySet(t *testing.T) {
	transport := &fakeTransport{}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{}

	state, err := b.Establish(drm)
	tu.AssertNoError(t, err)
	tu.AssertEqual(t, types.ClockSecure, state)

	// No protocol traffic when the clock is already valid.
	tu.AssertLen(t, transport.petitioned, 0)
	tu.AssertEqual(t, 0, drm.challengeCalls)
}

func TestEstablish_DirectPetition(t *testing.T) {
	transport := &fakeTransport{
		replies:      []petitionReply{{status: 200, forward: "http://time.example.com/challenge"}},
		postResponse: []byte("time-response"),
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{
		statusErr: engine.ErrClockNotSet,
		challenge: []byte("time-challenge"),
	}

	state, err := b.Establish(drm)
	tu.AssertNoError(t, err)
	tu.AssertEqual(t, types.ClockSecure, state)

	tu.AssertLen(t, transport.petitioned, 1)
	tu.AssertEqual(t, "http://time.example.com/challenge", transport.postedURL)
	tu.AssertBytesEqual(t, []byte("time-challenge"), transport.postedBody)
	tu.AssertBytesEqual(t, []byte("time-response"), drm.processedResponse)
}

func TestEstablish_OneRedirectHop(t *testing.T) {
	transport := &fakeTransport{
		replies: []petitionReply{
			{status: 302, forward: "http://regional.example.com/petition"},
			{status: 200, forward: "http://regional.example.com/challenge"},
		},
		postResponse: []byte("resp"),
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

	state, err := b.Establish(drm)
	tu.AssertNoError(t, err)
	tu.AssertEqual(t, types.ClockSecure, state)

	// Exactly one redirect hop: two petitions, then the POST.
	tu.AssertLen(t, transport.petitioned, 2)
	tu.AssertEqual(t, "http://regional.example.com/petition", transport.petitioned[1])
	tu.AssertEqual(t, "http://regional.example.com/challenge", transport.postedURL)
}

func TestEstablish_ProvisioningRequiredRunsProtocol(t *testing.T) {
	transport := &fakeTransport{
		replies:      []petitionReply{{status: 200, forward: "http://time.example.com/challenge"}},
		postResponse: []byte("resp"),
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrProvisioningRequired, challenge: []byte("c")}

	state, err := b.Establish(drm)
	tu.AssertNoError(t, err)
	tu.AssertEqual(t, types.ClockSecure, state)
	tu.AssertEqual(t, 1, drm.processCalls)
}

func TestEstablish_UnsupportedPetitionStatusFailsBeforePost(t *testing.T) {
	for _, status := range []int{204, 404, 500} {
		transport := &fakeTransport{replies: []petitionReply{{status: status}}}
		b := newTestBootstrapper(t, transport, nil)
		drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

		state, err := b.Establish(drm)
		tu.AssertErrorIs(t, err, ErrPetitionStatus, "status %d", status)
		tu.AssertEqual(t, types.ClockUnset, state)
		tu.AssertEqual(t, 0, transport.postCalls, "status %d must not reach the POST", status)
	}
}

func TestEstablish_SecondRedirectIsHardFailure(t *testing.T) {
	transport := &fakeTransport{
		replies: []petitionReply{
			{status: 302, forward: "http://a.example.com"},
			{status: 302, forward: "http://b.example.com"},
		},
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

	_, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrRedirectLimit)
	tu.AssertEqual(t, 0, transport.postCalls)
}

func TestEstablish_EmptyForwardURL(t *testing.T) {
	transport := &fakeTransport{replies: []petitionReply{{status: 302, forward: ""}}}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

	_, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrForwardURL)
}

func TestEstablish_PetitionTransportError(t *testing.T) {
	transport := &fakeTransport{
		replies: []petitionReply{{err: errors.New("connection refused")}},
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

	_, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrPetition)
}

func TestEstablish_ChallengeGenerationFails(t *testing.T) {
	transport := &fakeTransport{}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{
		statusErr:    engine.ErrClockNotSet,
		challengeErr: errors.New("tee busy"),
	}

	_, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrChallenge)
	tu.AssertLen(t, transport.petitioned, 0)
}

func TestEstablish_PostFailure(t *testing.T) {
	transport := &fakeTransport{
		replies: []petitionReply{{status: 200, forward: "http://time.example.com/challenge"}},
		postErr: errors.New("timeout"),
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSet, challenge: []byte("c")}

	_, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrChallengePost)
	tu.AssertEqual(t, 0, drm.processCalls)
}

func TestEstablish_EngineRejectsResponse(t *testing.T) {
	transport := &fakeTransport{
		replies:      []petitionReply{{status: 200, forward: "http://time.example.com/challenge"}},
		postResponse: []byte("garbage"),
	}
	b := newTestBootstrapper(t, transport, nil)
	drm := &fakeDrmContext{
		statusErr:  engine.ErrClockNotSet,
		challenge:  []byte("c"),
		processErr: errors.New("bad signature"),
	}

	state, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrResponse)
	tu.AssertEqual(t, types.ClockUnset, state)
}

func TestEstablish_AntiRollbackFallback(t *testing.T) {
	seed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	transport := &fakeTransport{}
	b := newTestBootstrapper(t, transport, fixedClock{t: seed})
	drm := &fakeDrmContext{statusErr: engine.ErrClockNotSupported}

	state, err := b.Establish(drm)
	tu.AssertNoError(t, err)
	tu.AssertEqual(t, types.ClockAntiRollback, state)
	tu.AssertEqual(t, seed, drm.antiRollbackSeed)

	// The fallback path never touches the network.
	tu.AssertLen(t, transport.petitioned, 0)
}

func TestEstablish_AntiRollbackInitFails(t *testing.T) {
	b := newTestBootstrapper(t, &fakeTransport{}, nil)
	drm := &fakeDrmContext{
		statusErr:       engine.ErrClockNotSupported,
		antiRollbackErr: errors.New("oem failure"),
	}

	state, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrAntiRollback)
	tu.AssertEqual(t, types.ClockUnset, state)
}

func TestEstablish_UnexpectedClockStatusIsFatal(t *testing.T) {
	b := newTestBootstrapper(t, &fakeTransport{}, nil)
	drm := &fakeDrmContext{statusErr: errors.New("certificate invalid")}

	state, err := b.Establish(drm)
	tu.AssertErrorIs(t, err, ErrClockQuery)
	tu.AssertEqual(t, types.ClockUnset, state)
}
