package domain

// ValidationError represents a rejected input at a boundary (order
// submission, HTTP query parameters).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
