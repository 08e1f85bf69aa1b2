package templates

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no document backs a template name or path.
	ErrNotFound = errors.New("template not found")

	// ErrCorrupt is returned when a template file exists but is not a
	// readable presentation.
	ErrCorrupt = errors.New("template unreadable or corrupt")

	// ErrInvalidName is returned for names that cannot map to a file in the
	// template directory.
	ErrInvalidName = errors.New("invalid template name")
)

// Error carries the template name and the path that was tried.
type Error struct {
	Name string
	Path string
	// Suggestions holds known names close to Name, best first.
	Suggestions []string
	Err         error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "template %q", e.Name)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean %s?", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }
