package query

import "sync"

// ChannelSubscriber adapts cache invalidation to a blocking receive so an
// event loop can turn it into a message. Keys invalidated while the
// receiver is busy are coalesced into the next batch, never dropped.
type ChannelSubscriber struct {
	mu      sync.Mutex
	pending []Key
	seen    map[Key]bool

	ready chan struct{}
	done  chan struct{}
	once  sync.Once

	unsubscribe func()
}

// NewChannelSubscriber subscribes to c. Call Close to unsubscribe.
func NewChannelSubscriber(c *Cache) *ChannelSubscriber {
	s := &ChannelSubscriber{
		seen:  make(map[Key]bool),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	s.unsubscribe = c.Subscribe(s.OnInvalidate)
	return s
}

// OnInvalidate queues keys for the next call to Next. Never blocks.
func (s *ChannelSubscriber) OnInvalidate(keys []Key) {
	s.mu.Lock()
	for _, k := range keys {
		if !s.seen[k] {
			s.seen[k] = true
			s.pending = append(s.pending, k)
		}
	}
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default: // a wakeup is already queued and will carry these keys
	}
}

// Next blocks until keys are pending and returns all of them.
// Returns false once the subscriber is closed.
func (s *ChannelSubscriber) Next() ([]Key, bool) {
	for {
		select {
		case <-s.done:
			return nil, false
		case <-s.ready:
		}

		s.mu.Lock()
		keys := s.pending
		s.pending = nil
		s.seen = make(map[Key]bool)
		s.mu.Unlock()

		if len(keys) > 0 {
			return keys, true
		}
	}
}

// Close unsubscribes from the cache and releases any blocked Next
func (s *ChannelSubscriber) Close() {
	s.once.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}
