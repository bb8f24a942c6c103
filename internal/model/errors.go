package model

// ValidationError reports a field that violates an entity rule. The message
// is meant to be shown to the user as-is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
