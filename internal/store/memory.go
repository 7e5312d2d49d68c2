package store

import (
	"sync"
)

const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// Every Set replaces the state wholesale; readers only ever observe complete
// states. Subscribers receive copies via buffered channels. Sends are
// non-blocking; if a subscriber's buffer is full, the update is dropped for
// that subscriber.
type MemoryStore struct {
	mu          sync.RWMutex
	state       State
	subscribers map[chan State]struct{}
	subMu       sync.RWMutex
}

// NewMemoryStore creates a [MemoryStore] holding [Initial] state for address.
func NewMemoryStore(address string) *MemoryStore {
	return &MemoryStore{
		state:       Initial(address),
		subscribers: make(map[chan State]struct{}),
	}
}

// Set stores a copy of state and notifies all subscribers.
func (m *MemoryStore) Set(state State) {
	state = state.Clone()

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.notifySubscribers(state)
}

// Get returns a copy of the current state.
func (m *MemoryStore) Get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Subscribe creates a new subscription and returns a channel for receiving updates.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan State {
	ch := make(chan State, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan State) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (m *MemoryStore) Subscribers() int {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	return len(m.subscribers)
}

// notifySubscribers sends the state to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(state State) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- state.Clone():
		default:
			// subscriber is slow, drop the update
		}
	}
}
