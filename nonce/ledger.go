// Package nonce tracks outstanding secure-stop challenge identifiers.
//
// Each challenge records a nonce and each successful license commit removes
// one. The ledger is a FIFO: when it is full, the oldest nonce rolls off as a
// new challenge is generated. A client that generates more challenges than the
// ledger holds without committing responses will silently lose the oldest
// ones, which is why StoreSize is reported to clients as the maximum number of
// outstanding limited-duration-license sessions.
package nonce

import "github.com/jvbreda/drmcore/types"

// StoreSize is the capacity of the ledger and the client-visible limit on
// outstanding secure-stop challenges.
const StoreSize = 100

// Ledger is a fixed-capacity FIFO set of session identifiers.
// It is not safe for concurrent use; callers serialize access.
type Ledger struct {
	capacity int
	order    []types.SessionID
	present  map[types.SessionID]struct{}
}

// NewLedger creates a ledger with the given capacity.
// A capacity below 1 falls back to StoreSize.
func NewLedger(capacity int) *Ledger {
	if capacity < 1 {
		capacity = StoreSize
	}
	return &Ledger{
		capacity: capacity,
		order:    make([]types.SessionID, 0, capacity),
		present:  make(map[types.SessionID]struct{}, capacity),
	}
}

// Add records an outstanding nonce. Adding an identifier that is already
// present is a no-op and does not change its FIFO position. When the ledger is
// full, the oldest nonce is evicted to make room; eviction of the oldest (not
// rejection of the insert) is required behavior.
//
// Returns the evicted identifier and true when an eviction occurred.
func (l *Ledger) Add(id types.SessionID) (types.SessionID, bool) {
	if _, ok := l.present[id]; ok {
		return types.SessionID{}, false
	}

	var evicted types.SessionID
	var didEvict bool
	if len(l.order) == l.capacity {
		evicted = l.order[0]
		delete(l.present, evicted)
		copy(l.order, l.order[1:])
		l.order = l.order[:len(l.order)-1]
		didEvict = true
	}

	l.order = append(l.order, id)
	l.present[id] = struct{}{}
	return evicted, didEvict
}

// Remove deletes a nonce from the ledger.
// Returns false when the identifier is not present (never added, already
// committed, or evicted).
func (l *Ledger) Remove(id types.SessionID) bool {
	if _, ok := l.present[id]; !ok {
		return false
	}
	delete(l.present, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the identifier is currently outstanding.
func (l *Ledger) Has(id types.SessionID) bool {
	_, ok := l.present[id]
	return ok
}

// Len returns the number of outstanding nonces.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Capacity returns the maximum number of outstanding nonces.
func (l *Ledger) Capacity() int {
	return l.capacity
}
