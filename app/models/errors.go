package models

// ValidationError rejects an invalid state transition or bad input. It is
// surfaced to the admin as-is and must never be silently ignored.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IntegrityError blocks an operation that would break referential
// guarantees, such as hard-deleting a plan that still has orders.
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string {
	return e.Message
}
