package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jvbreda/drmcore/engine"
	"github.com/jvbreda/drmcore/types"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// fakeEngine implements engine.Engine for tests. Behavior knobs live on the
// engine so tests can steer the next opened context; counters aggregate over
// all contexts it ever opened.
type fakeEngine struct {
	version            string
	supportsRevocation bool

	openErr error

	// Context behavior knobs.
	clockStatusErr error
	timeChallenge  []byte
	processTimeErr error
	antiRollbackErr error

	resizeErr  error
	setPropErr error

	setRevocationBufferErr error
	storeRevocationErr     error

	cleanupErr error

	sessions       []types.SessionID
	sessionsErr    error
	challenge      []byte
	challengeErr   error
	customData     []byte
	commitErr      error

	// Counters.
	openCalls         int
	statusCalls       int
	enumerateCalls    int
	challengeCalls    int
	commitCalls       int
	cleanupCalls      int
	antiRollbackCalls int

	// Last observed values.
	lastContext      *fakeContext
	lastMeteringCert []byte
	lastRevocation   []byte
	antiRollbackSeed time.Time
}

var _ engine.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		version:            "3.4.0.0000",
		supportsRevocation: true,
		timeChallenge:      []byte("time-challenge"),
		challenge:          []byte("secure-stop-challenge"),
	}
}

func (f *fakeEngine) Version() string          { return f.version }
func (f *fakeEngine) SupportsRevocation() bool { return f.supportsRevocation }

func (f *fakeEngine) Open(cfg engine.ContextConfig) (engine.Context, error) {
	f.openCalls++
	if f.openErr != nil {
		return nil, f.openErr
	}

	// The engine creates the store file on first use.
	if _, err := os.Stat(cfg.StorePath); os.IsNotExist(err) {
		if err := os.WriteFile(cfg.StorePath, []byte("opaque store blob"), 0o600); err != nil {
			return nil, err
		}
	}

	ctx := &fakeContext{eng: f, cfg: cfg}
	f.lastContext = ctx
	return ctx, nil
}

// fakeContext implements engine.Context against the owning fakeEngine's knobs.
type fakeContext struct {
	eng    *fakeEngine
	cfg    engine.ContextConfig
	closed bool

	resizedTo       uint32
	revocationBufferSize uint32
	properties      map[engine.Property][]byte
}

var _ engine.Context = (*fakeContext)(nil)

func (c *fakeContext) CleanupStore() error {
	c.eng.cleanupCalls++
	return c.eng.cleanupErr
}

func (c *fakeContext) ResizeLicenseStore(size uint32) error {
	if c.eng.resizeErr != nil {
		return c.eng.resizeErr
	}
	c.resizedTo = size
	return nil
}

func (c *fakeContext) SetProperty(prop engine.Property, value []byte) error {
	if c.eng.setPropErr != nil {
		return c.eng.setPropErr
	}
	if c.properties == nil {
		c.properties = make(map[engine.Property][]byte)
	}
	c.properties[prop] = append([]byte(nil), value...)
	return nil
}

func (c *fakeContext) SecureTimeStatus() (time.Time, engine.ClockType, error) {
	c.eng.statusCalls++
	if c.eng.clockStatusErr != nil {
		return time.Time{}, engine.ClockTypeNone, c.eng.clockStatusErr
	}
	return time.Unix(1700000000, 0), engine.ClockTypeSecure, nil
}

func (c *fakeContext) GenerateTimeChallenge() ([]byte, error) {
	return c.eng.timeChallenge, nil
}

func (c *fakeContext) ProcessTimeResponse(response []byte) error {
	return c.eng.processTimeErr
}

func (c *fakeContext) InitAntiRollbackClock(seed time.Time) error {
	c.eng.antiRollbackCalls++
	if c.eng.antiRollbackErr != nil {
		return c.eng.antiRollbackErr
	}
	c.eng.antiRollbackSeed = seed
	return nil
}

func (c *fakeContext) SetRevocationBuffer(size uint32) error {
	if c.eng.setRevocationBufferErr != nil {
		return c.eng.setRevocationBufferErr
	}
	c.revocationBufferSize = size
	return nil
}

func (c *fakeContext) StoreRevocationPackage(pkg []byte) error {
	if c.eng.storeRevocationErr != nil {
		return c.eng.storeRevocationErr
	}
	c.eng.lastRevocation = append([]byte(nil), pkg...)
	return nil
}

func (c *fakeContext) SecureStopSessions(meteringCert []byte) ([]types.SessionID, error) {
	c.eng.enumerateCalls++
	c.eng.lastMeteringCert = meteringCert
	if c.eng.sessionsErr != nil {
		return nil, c.eng.sessionsErr
	}
	if len(c.eng.sessions) == 0 {
		return nil, engine.ErrNoMoreSessions
	}
	return c.eng.sessions, nil
}

func (c *fakeContext) SecureStopChallenge(id types.SessionID, meteringCert []byte) ([]byte, error) {
	c.eng.challengeCalls++
	c.eng.lastMeteringCert = meteringCert
	if c.eng.challengeErr != nil {
		return nil, c.eng.challengeErr
	}
	return c.eng.challenge, nil
}

func (c *fakeContext) ProcessSecureStopResponse(id types.SessionID, meteringCert []byte, response []byte) ([]byte, error) {
	c.eng.commitCalls++
	c.eng.lastMeteringCert = meteringCert
	if c.eng.commitErr != nil {
		return nil, c.eng.commitErr
	}
	return c.eng.customData, nil
}

func (c *fakeContext) Close() error {
	c.closed = true
	return nil
}

// stubTransport satisfies securetime.Transport for tests that exercise the
// provisioning path.
type stubTransport struct {
	status   int
	forward  string
	response []byte

	petitioned []string
	postCalls  int
}

func (t *stubTransport) Petition(url string) (int, string, error) {
	t.petitioned = append(t.petitioned, url)
	return t.status, t.forward, nil
}

func (t *stubTransport) PostChallenge(url string, challenge []byte) ([]byte, error) {
	t.postCalls++
	return t.response, nil
}
