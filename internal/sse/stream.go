package sse

// Stream is a lazy, finite, non-restartable sequence of text deltas.
// Consumers pull with Next/Current and may stop early; the producer closes
// the channel on sentinel or end-of-input.
type Stream struct {
	C    <-chan string
	errC <-chan error

	curr string
	err  error
}

// NewStream wraps producer channels in a pull-style stream.
func NewStream(c <-chan string, errC <-chan error) *Stream {
	return &Stream{C: c, errC: errC}
}

// Next advances the stream to the next delta.
// It returns false if there are no more deltas or an error occurred.
func (s *Stream) Next() bool {
	select {
	case delta, ok := <-s.C:
		if !ok {
			select {
			case err := <-s.errC:
				s.err = err
			default:
			}
			return false
		}
		s.curr = delta
		return true
	case err := <-s.errC:
		s.err = err
		return false
	}
}

// Current returns the delta produced by the last successful Next.
func (s *Stream) Current() string {
	return s.curr
}

// Err returns the terminal error, if any, once Next has returned false.
func (s *Stream) Err() error {
	return s.err
}
