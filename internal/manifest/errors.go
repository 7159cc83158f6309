package manifest

import "fmt"

// ValidationError reports one schema problem with a suggested fix.
type ValidationError struct {
	Field      string // dotted path, e.g. "pods.web.published-ports"
	Message    string // what's wrong
	Suggestion string // how to fix it
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates schema problems into a single fatal error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more validation errors)", e[0].Error(), len(e)-1)
}
