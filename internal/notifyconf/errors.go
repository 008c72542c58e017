package notifyconf

import (
	"fmt"
	"strings"
)

// ConfigError is a fatal problem with the notification configuration: a
// syntax error, an invalid value, an unresolved template variable or map
// lookup. It carries enough position context to be directly actionable.
type ConfigError struct {
	File    string
	Line    int
	Section string
	Key     string
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	if e.Section != "" {
		fmt.Fprintf(&b, "[%s] ", e.Section)
	}
	if e.Key != "" {
		b.WriteString(e.Key)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Errorf builds a ConfigError without position context. Callers that know
// the offending file, section or key should fill the fields instead.
func Errorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
