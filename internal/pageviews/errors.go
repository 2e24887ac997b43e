package pageviews

import "fmt"

// InputNotFoundError indicates an expected upstream artifact is missing.
// The orchestrator decides whether to retry the producing stage or alert.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}
