package compliance

// ConformanceError is returned when a document breaks a rule of the
// standard it is checked against. Error returns the rule message.
type ConformanceError struct {
	Code     string
	Message  string
	Location string
}

// NewConformanceError converts a violation into an error.
func NewConformanceError(v Violation) *ConformanceError {
	return &ConformanceError{Code: v.Code, Message: v.Description, Location: v.Location}
}

func (e *ConformanceError) Error() string { return e.Message }

// Is matches another *ConformanceError with the same code.
func (e *ConformanceError) Is(target error) bool {
	t, ok := target.(*ConformanceError)
	return ok && t.Code == e.Code
}
