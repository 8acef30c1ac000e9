package scan

import "fmt"

// ConfigurationError is returned when a root, an exclusion or a match pattern
// cannot be registered.
type ConfigurationError struct {
	// Path is the offending path or pattern.
	Path string
	// Reason describes what is wrong with it.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %q", e.Reason, e.Path)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
