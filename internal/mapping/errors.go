package mapping

import "fmt"

// ConfigError reports a malformed mapping document or template. Path names
// the offending location inside the template, when one is known.
type ConfigError struct {
	Path   Path
	Reason string
}

func (e *ConfigError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("invalid mapping: %s", e.Reason)
	}
	return fmt.Sprintf("invalid mapping at %s: %s", e.Path, e.Reason)
}

func configErrorf(path Path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path.Clone(), Reason: fmt.Sprintf(format, args...)}
}
