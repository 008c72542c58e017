package notifyconf

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and parses the configuration file at path, following any
// include_config directives. It returns the merged document or a ConfigError
// describing the first problem encountered.
func Load(path string) (*Document, error) {
	doc := newDocument()
	if err := parseFile(doc, path, map[string]bool{}); err != nil {
		return nil, err
	}
	return doc, nil
}

type parser struct {
	doc  *Document
	path string
	seen map[string]bool

	section *Section
	// reserved sections opened so far in this file; re-opening one inside
	// the same file is an error, merging across files is not.
	reserved map[string]bool

	pending    *Option
	pendingRaw []string
}

func parseFile(doc *Document, path string, seen map[string]bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if seen[abs] {
		return &ConfigError{File: path, Msg: "configuration file included more than once"}
	}
	seen[abs] = true

	f, err := os.Open(path)
	if err != nil {
		return &ConfigError{File: path, Msg: "cannot read configuration", Err: err}
	}
	defer f.Close()

	p := &parser{doc: doc, path: path, seen: seen, reserved: map[string]bool{}}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		if err := p.line(strings.TrimRight(scanner.Text(), "\r\n"), lineno); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &ConfigError{File: path, Msg: "cannot read configuration", Err: err}
	}
	return p.flush()
}

func (p *parser) line(raw string, lineno int) error {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		// Blank lines do not end a value; a continuation may still follow.
		return nil
	case strings.HasPrefix(raw, "#"):
		return nil
	case raw[0] == ' ' || raw[0] == '\t':
		// Continuation of the previous value.
		if p.pending == nil {
			return &ConfigError{File: p.path, Line: lineno, Msg: "continuation line without a preceding key"}
		}
		p.pendingRaw = append(p.pendingRaw, trimmed)
		return nil
	case raw[0] == '[':
		if err := p.flush(); err != nil {
			return err
		}
		return p.header(trimmed, lineno)
	default:
		if err := p.flush(); err != nil {
			return err
		}
		return p.option(raw, lineno)
	}
}

func (p *parser) header(trimmed string, lineno int) error {
	if !strings.HasSuffix(trimmed, "]") {
		return &ConfigError{File: p.path, Line: lineno, Msg: fmt.Sprintf("bad section header %q", trimmed)}
	}
	name := trimmed[1 : len(trimmed)-1]
	if name == "" || strings.ContainsAny(name, "[]") {
		return &ConfigError{File: p.path, Line: lineno, Msg: fmt.Sprintf("bad section header %q", trimmed)}
	}
	if Reserved(name) {
		if p.reserved[name] {
			return &ConfigError{File: p.path, Line: lineno, Section: name, Msg: "duplicate reserved section"}
		}
		p.reserved[name] = true
	}
	p.section = p.doc.section(name, p.path, lineno)
	return nil
}

func (p *parser) option(raw string, lineno int) error {
	sep := strings.IndexAny(raw, "=:")
	if sep < 0 {
		return &ConfigError{File: p.path, Line: lineno, Msg: fmt.Sprintf("expected key = value, got %q", strings.TrimSpace(raw))}
	}
	key := strings.TrimSpace(raw[:sep])
	if key == "" {
		return &ConfigError{File: p.path, Line: lineno, Msg: fmt.Sprintf("expected key = value, got %q", strings.TrimSpace(raw))}
	}
	key = strings.ReplaceAll(key, "-", "_")
	if p.section == nil {
		return &ConfigError{File: p.path, Line: lineno, Key: key, Msg: "key outside of any section"}
	}
	if strings.HasPrefix(key, "_") {
		return &ConfigError{File: p.path, Line: lineno, Section: p.section.Name, Key: key, Msg: "key names may not start with an underscore"}
	}
	p.pending = &Option{Key: key, File: p.path, Line: lineno}
	p.pendingRaw = []string{strings.TrimSpace(raw[sep+1:])}
	return nil
}

// flush completes the pending option, dispatching include_config directives
// instead of storing them.
func (p *parser) flush() error {
	if p.pending == nil {
		return nil
	}
	opt := *p.pending
	opt.Value = joinContinuations(p.pendingRaw)
	p.pending = nil
	p.pendingRaw = nil

	if p.section.Name == SectionGeneral && opt.Key == "include_config" {
		return p.include(opt)
	}
	p.section.set(opt)
	return nil
}

// include parses the listed files immediately, so keys appearing later in
// this file still override anything an included file defines.
func (p *parser) include(opt Option) error {
	base := filepath.Dir(p.path)
	for _, name := range strings.Fields(opt.Value) {
		target := name
		if !filepath.IsAbs(target) {
			target = filepath.Join(base, target)
		}
		if err := parseFile(p.doc, target, p.seen); err != nil {
			return err
		}
	}
	return nil
}

func joinContinuations(parts []string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
