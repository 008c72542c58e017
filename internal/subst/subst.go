package subst

import (
	"fmt"
	"strings"
)

// Vars maps template variable names to their current values.
type Vars map[string]string

// Clone returns an independent copy of the variable mapping.
func (v Vars) Clone() Vars {
	cp := make(Vars, len(v))
	for name, value := range v {
		cp[name] = value
	}
	return cp
}

// Merge copies every entry of other into v, overriding existing names.
func (v Vars) Merge(other map[string]string) {
	for name, value := range other {
		v[name] = value
	}
}

// MissingVarError reports a template referencing a variable that is not bound.
type MissingVarError struct {
	Name string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("template variable %q is not defined", e.Name)
}

// SyntaxError reports a malformed placeholder in a template.
type SyntaxError struct {
	Template string
	Pos      int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed placeholder at offset %d in template %q", e.Pos, e.Template)
}

// Expand fills every %(name)s placeholder in template from vars. A template
// without placeholders is returned unchanged. Referencing an unbound variable
// is an error; there is no silent empty substitution.
func Expand(template string, vars Vars) (string, error) {
	if !strings.ContainsRune(template, '%') {
		return template, nil
	}

	var out strings.Builder
	out.Grow(len(template))

	for i := 0; i < len(template); {
		c := template[i]
		if c != '%' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(template) {
			return "", &SyntaxError{Template: template, Pos: i}
		}
		switch template[i+1] {
		case '%':
			out.WriteByte('%')
			i += 2
		case '(':
			end := strings.IndexByte(template[i+2:], ')')
			if end < 0 || i+2+end+1 >= len(template) || template[i+2+end+1] != 's' {
				return "", &SyntaxError{Template: template, Pos: i}
			}
			name := template[i+2 : i+2+end]
			if name == "" {
				return "", &SyntaxError{Template: template, Pos: i}
			}
			value, ok := vars[name]
			if !ok {
				return "", &MissingVarError{Name: name}
			}
			out.WriteString(value)
			i += 2 + end + 2
		default:
			return "", &SyntaxError{Template: template, Pos: i}
		}
	}
	return out.String(), nil
}

// References reports whether template contains at least one placeholder.
func References(template string) bool {
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '%' && template[i+1] == '(' {
			return true
		}
	}
	return false
}
