package phonelock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Map serialises work per phone number. All mutation paths for a given phone
// must run under its lock; operations on different phones proceed concurrently.
// Entries are reference-counted and removed once the last holder unlocks, so
// the map does not grow with the set of phones ever seen.
type Map struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *Map {
	return &Map{locks: make(map[string]*entry)}
}

// Lock acquires the lock for phone, blocking until it is available.
func (m *Map) Lock(phone string) {
	m.mu.Lock()
	e, ok := m.locks[phone]
	if !ok {
		e = &entry{}
		m.locks[phone] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for phone. Must pair with a prior Lock call.
func (m *Map) Unlock(phone string) {
	m.mu.Lock()
	e := m.locks[phone]
	e.refs--
	if e.refs == 0 {
		delete(m.locks, phone)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}
