package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is wrapped by every error caused by an unreachable upstream.
	ErrTransport = errors.New("upstream unreachable")
	// ErrSchema is wrapped when a response body does not decode into the expected shape.
	ErrSchema = errors.New("unexpected upstream response")
)

// StatusError is returned when an upstream answers with a non-2xx status code.
type StatusError struct {
	Upstream   string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code from %s: %d", e.Upstream, e.StatusCode)
}

// IsUpstreamFailure reports whether err came from talking to an upstream, as
// opposed to a bug or a cancelled context.
func IsUpstreamFailure(err error) bool {
	var se *StatusError
	return errors.As(err, &se) || errors.Is(err, ErrTransport) || errors.Is(err, ErrSchema)
}
