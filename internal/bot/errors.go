package bot

import "fmt"

// ValidationError is malformed input for the pending prompt. The prompt stays active.
type ValidationError struct {
	Prompt Prompt
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s input: %s", e.Prompt, e.Reason)
}

// Code implements the handler summary error code.
func (e *ValidationError) Code() string { return "validation_failed" }

func invalid(p Prompt, reason string) *ValidationError {
	return &ValidationError{Prompt: p, Reason: reason}
}
