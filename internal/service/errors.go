package service

import "fmt"

// InputError rejects a request before the store or the embedder is touched.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func inputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
