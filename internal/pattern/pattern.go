package pattern

import (
	"fmt"
	"regexp"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern is a compiled matching expression. The zero value and a Pattern
// compiled from the empty string both match everything.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile builds a Pattern from expr. The empty expression yields a
// match-all pattern. Capture group names are validated as identifiers since
// they become template variables.
func Compile(expr string) (*Pattern, error) {
	if expr == "" {
		return &Pattern{}, nil
	}
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	for _, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		if !identRe.MatchString(name) {
			return nil, fmt.Errorf("invalid pattern %q: capture name %q is not an identifier", expr, name)
		}
	}
	return &Pattern{expr: expr, re: re}, nil
}

// String returns the original expression.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Empty reports whether the pattern matches everything.
func (p *Pattern) Empty() bool {
	return p == nil || p.re == nil
}

// Match evaluates the pattern against subject from position zero. On success
// it returns the named captures; a capture group that did not participate in
// the match is bound to the empty string.
func (p *Pattern) Match(subject string) (map[string]string, bool) {
	if p.Empty() {
		return map[string]string{}, true
	}
	idx := p.re.FindStringSubmatchIndex(subject)
	if idx == nil {
		return nil, false
	}
	captures := map[string]string{}
	for i, name := range p.re.SubexpNames() {
		if name == "" {
			continue
		}
		if start := idx[2*i]; start >= 0 {
			captures[name] = subject[start:idx[2*i+1]]
		} else {
			captures[name] = ""
		}
	}
	return captures, true
}
