package queue

import "errors"

var (
	// ErrQueueFull is returned when a join would exceed maxPeople.
	ErrQueueFull = errors.New("queue is full")

	// ErrNotCreator is returned when someone other than the creator tries
	// to cancel a queue.
	ErrNotCreator = errors.New("only the creator can cancel the queue")
)

// ValidationError reports invalid creation input. The message is safe to
// surface to clients verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
