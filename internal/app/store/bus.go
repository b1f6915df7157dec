package store

import "sync"

// ChangeBus is an in-process notifier keyed by collection name. Writers
// publish after every successful mutation; subscribers receive a wakeup and
// re-read the collection, so delivery is last-write-wins and lossless
// coalescing is acceptable.
type ChangeBus struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

// NewChangeBus creates an empty ChangeBus.
func NewChangeBus() *ChangeBus {
	return &ChangeBus{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers interest in a collection. The returned channel carries a
// wakeup per publish (coalesced while the subscriber is busy). The cancel
// function must be called to release the subscription.
func (b *ChangeBus) Subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[int]chan struct{})
	}
	b.subs[collection][id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[collection]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(b.subs, collection)
			}
		}
	}

	return ch, cancel
}

// Publish wakes every subscriber of the collection. A subscriber with a
// pending wakeup is skipped; it will re-read anyway.
func (b *ChangeBus) Publish(collection string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
