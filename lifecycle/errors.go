package lifecycle

import "errors"

var (
	// ErrNotFound: the referenced order or task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorizedActor: the actor lacks role or ownership over the record.
	ErrUnauthorizedActor = errors.New("actor not authorized for this transition")
	// ErrAlreadyClaimed: an accept attempt lost the race to another driver.
	ErrAlreadyClaimed = errors.New("task already claimed by another driver")
	// ErrActiveTaskExists: an order may carry at most one non-terminal task.
	ErrActiveTaskExists = errors.New("order already has an active delivery task")
)
