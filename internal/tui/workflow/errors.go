package workflow

// ValidationError blocks a stage transition locally. It never reaches the
// network; the message is surfaced inline and the workflow stays put.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
