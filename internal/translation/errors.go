package translation

import "errors"

var (
	// ErrInvalidRequest marks submissions that fail validation.
	ErrInvalidRequest = errors.New("invalid translation request")
	// ErrStorage marks failures of the record store.
	ErrStorage = errors.New("translation storage failure")
	// ErrQueuePublish marks failures to enqueue accepted work.
	ErrQueuePublish = errors.New("translation queue publish failure")
	// ErrRecordNotFound is returned when no record matches the requested id.
	ErrRecordNotFound = errors.New("translation record not found")
	// ErrProvider marks upstream translation provider failures.
	ErrProvider = errors.New("translation provider failure")
	// ErrInvalidTransition is returned for disallowed record state changes.
	ErrInvalidTransition = errors.New("invalid translation state transition")
)
