package usecase

import "sync"

// Stream delivers states from a single producer to a single consumer.
// Emit never blocks; states are queued and forwarded in order by a pump goroutine.
// Close closes the States channel promptly whether or not anyone is receiving;
// states not yet delivered are dropped and later Emits are no-ops.
type Stream[S any] struct {
	mu     sync.Mutex
	queue  []S
	closed bool
	wake   chan struct{}
	done   chan struct{}
	out    chan S
}

// NewStream starts a Stream.
func NewStream[S any]() *Stream[S] {
	s := &Stream[S]{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan S),
	}
	go s.pump()
	return s
}

// States returns the consumer side of the stream.
func (s *Stream[S]) States() <-chan S {
	return s.out
}

// Emit queues state. It reports false when the stream is already closed.
func (s *Stream[S]) Emit(state S) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, state)
	s.mu.Unlock()
	s.notify()
	return true
}

// Close stops accepting states. It is safe to call more than once.
func (s *Stream[S]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
	s.mu.Unlock()
}

// Closed reports whether Close has been called.
func (s *Stream[S]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream[S]) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream[S]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.mu.Unlock()
			select {
			case <-s.wake:
			case <-s.done:
			}
			s.mu.Lock()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		var zero S
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
