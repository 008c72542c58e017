package notifyconf

import (
	"strings"
)

// MapDecl records one [maps] declaration: the option that is redirected and
// the table section it is resolved through.
type MapDecl struct {
	Option string
	Table  string
	// position of the declaration, for error reporting
	File string
	Line int
}

// Config is the classified form of a Document: the reserved sections, the
// map tables, and the ordered list of notification groups. It is immutable
// after Classify and safe to share across concurrent resolutions.
type Config struct {
	Path     string
	General  *Section
	Defaults *Section
	MapDecls map[string]MapDecl
	tables   map[string]map[string]string
	Groups   []*Section
}

// Classify partitions the sections of doc. The reserved sections general,
// defaults and maps are pulled out, sections referenced from [maps] become
// lookup tables, and every remaining section is a notification group, in
// declaration order.
func Classify(doc *Document) (*Config, error) {
	cfg := &Config{
		MapDecls: map[string]MapDecl{},
		tables:   map[string]map[string]string{},
	}
	cfg.General, _ = doc.Section(SectionGeneral)
	cfg.Defaults, _ = doc.Section(SectionDefaults)

	tableSections := map[string]bool{}
	if maps, ok := doc.Section(SectionMaps); ok {
		for _, opt := range maps.Options() {
			table, err := parseMapSpec(opt)
			if err != nil {
				return nil, err
			}
			target, ok := doc.Section(table)
			if !ok {
				return nil, &ConfigError{
					File: opt.File, Line: opt.Line, Section: SectionMaps, Key: opt.Key,
					Msg: "map section [" + table + "] not found",
				}
			}
			entries := make(map[string]string, target.Len())
			for _, entry := range target.Options() {
				entries[entry.Key] = entry.Value
			}
			cfg.MapDecls[opt.Key] = MapDecl{Option: opt.Key, Table: table, File: opt.File, Line: opt.Line}
			cfg.tables[table] = entries
			tableSections[table] = true
		}
	}

	for _, section := range doc.Sections() {
		if Reserved(section.Name) || tableSections[section.Name] {
			continue
		}
		cfg.Groups = append(cfg.Groups, section)
	}
	return cfg, nil
}

// Table returns the named map table, if declared.
func (c *Config) Table(name string) (map[string]string, bool) {
	t, ok := c.tables[name]
	return t, ok
}

func parseMapSpec(opt Option) (string, error) {
	value := opt.Value
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		name := value[1 : len(value)-1]
		if name != "" && !strings.ContainsAny(name, "[]") && !Reserved(name) {
			return name, nil
		}
	}
	return "", &ConfigError{
		File: opt.File, Line: opt.Line, Section: SectionMaps, Key: opt.Key,
		Msg: "invalid mapping specification " + strings.TrimSpace(value) + " (expected [section])",
	}
}
