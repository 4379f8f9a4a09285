package leadsync

// ValidationError reports a required input field that is missing or blank.
// It is raised before any network call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
