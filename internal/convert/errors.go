package convert

import "fmt"

// RecoverableError marks a failed attempt that a retry might fix: a
// transport error, an unparseable completion, a validation rejection.
type RecoverableError struct {
	QuestionID int
	Attempt    int
	Err        error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("conversion attempt %d for question %d: %v", e.Attempt, e.QuestionID, e.Err)
}

func (e *RecoverableError) Unwrap() error { return e.Err }

// InvariantError marks a precondition failure no retry can fix, such
// as a missing LLM client or an empty question.
type InvariantError struct {
	QuestionID int
	Reason     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("conversion for question %d: %s", e.QuestionID, e.Reason)
}
