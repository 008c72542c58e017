package notifyconf

// Reserved section names. Everything else is a group or a map table.
const (
	SectionGeneral  = "general"
	SectionDefaults = "defaults"
	SectionMaps     = "maps"
)

// Reserved reports whether name is one of the reserved section names.
func Reserved(name string) bool {
	switch name {
	case SectionGeneral, SectionDefaults, SectionMaps:
		return true
	}
	return false
}

// Option is one key/value pair together with the position of its winning
// occurrence.
type Option struct {
	Key   string
	Value string
	File  string
	Line  int
}

// Section is a named, ordered collection of options. Setting an existing key
// replaces its value but keeps its position in the declaration order.
type Section struct {
	Name string
	File string
	Line int

	opts  []Option
	index map[string]int
}

func newSection(name, file string, line int) *Section {
	return &Section{Name: name, File: file, Line: line, index: map[string]int{}}
}

func (s *Section) set(opt Option) {
	if i, ok := s.index[opt.Key]; ok {
		s.opts[i] = opt
		return
	}
	s.index[opt.Key] = len(s.opts)
	s.opts = append(s.opts, opt)
}

// Get returns the value for key and whether it is present.
func (s *Section) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.opts[i].Value, true
}

// Lookup returns the full option for key, including its source position.
func (s *Section) Lookup(key string) (Option, bool) {
	if s == nil {
		return Option{}, false
	}
	i, ok := s.index[key]
	if !ok {
		return Option{}, false
	}
	return s.opts[i], true
}

// Options returns the options in declaration order.
func (s *Section) Options() []Option {
	if s == nil {
		return nil
	}
	out := make([]Option, len(s.opts))
	copy(out, s.opts)
	return out
}

// Len returns the number of distinct keys in the section.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.opts)
}

// Document is the parsed configuration: an ordered sequence of uniquely
// named sections. Once built it is immutable and safe for concurrent reads.
type Document struct {
	sections []*Section
	index    map[string]int
}

func newDocument() *Document {
	return &Document{index: map[string]int{}}
}

func (d *Document) section(name, file string, line int) *Section {
	if i, ok := d.index[name]; ok {
		return d.sections[i]
	}
	s := newSection(name, file, line)
	d.index[name] = len(d.sections)
	d.sections = append(d.sections, s)
	return s
}

// Section returns the named section, if present.
func (d *Document) Section(name string) (*Section, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.sections[i], true
}

// Sections returns all sections in declaration order.
func (d *Document) Sections() []*Section {
	out := make([]*Section, len(d.sections))
	copy(out, d.sections)
	return out
}
