package system

import "github.com/jvbreda/drmcore/types"

// Session is an opaque handle to one media key session, bound to the engine
// context that was live when it was created. The caller owns the session and
// must destroy it exactly once through the system that created it.
type Session struct {
	id        types.SessionID
	owner     *System
	initData  []byte
	cdmData   []byte
	destroyed bool
}

// ID returns the session identifier.
func (sess *Session) ID() types.SessionID {
	return sess.id
}

// String renders the session for logs and debug output.
func (sess *Session) String() string {
	return "session:" + sess.id.String()
}

// CreateSession ensures a valid engine context and constructs a new session
// against it. If the store file backing the context was deleted externally,
// the context is rebuilt first; if that fails, the session request fails and
// the process keeps running.
func (s *System) CreateSession(initData, cdmData []byte) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureContextLocked(); err != nil {
		return nil, err
	}

	sess := &Session{
		id:       types.NewSessionID(),
		owner:    s,
		initData: append([]byte(nil), initData...),
		cdmData:  append([]byte(nil), cdmData...),
	}
	s.logger.Debugw("Session created", "session", sess.id)
	return sess, nil
}

// DestroySession releases a session created by this system. The handle must
// originate from this factory and must not have been destroyed before; both
// violations are programmer errors and fail loudly rather than corrupting
// shared state.
func (s *System) DestroySession(sess *Session) {
	if sess == nil || sess.owner != s {
		panic("drm: DestroySession called with a session not created by this system")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.destroyed {
		panic("drm: session destroyed twice")
	}
	sess.destroyed = true
	sess.initData = nil
	sess.cdmData = nil
	s.logger.Debugw("Session destroyed", "session", sess.id)
}
