package chat

import "sync"

// Stream delivers an answer chunk by chunk, in generation order.
//
// Consume chunks by ranging over Chunks(); once the channel is closed,
// Err() reports whether the stream completed or failed mid-way. Chunks
// emitted before a failure remain valid partial output.
type Stream struct {
	chunks chan string

	mu  sync.Mutex
	err error

	done chan struct{}
}

const streamBuffer = 16

func newStream() *Stream {
	return &Stream{
		chunks: make(chan string, streamBuffer),
		done:   make(chan struct{}),
	}
}

// Chunks returns the channel of answer chunks. The channel is closed when
// the stream terminates, successfully or not.
func (s *Stream) Chunks() <-chan string {
	return s.chunks
}

// Err returns the terminal error of the stream, or nil on clean completion.
// Only meaningful after Chunks() is closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the stream terminates and returns its terminal error.
func (s *Stream) Wait() error {
	<-s.done
	return s.Err()
}

// Text drains the stream and returns the concatenated answer.
func (s *Stream) Text() (string, error) {
	var sb []byte
	for chunk := range s.chunks {
		sb = append(sb, chunk...)
	}
	return string(sb), s.Wait()
}

// finish terminates the stream. Called by the producer goroutine only.
func (s *Stream) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.chunks)
	close(s.done)
}
