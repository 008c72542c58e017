package resolve

import (
	"log/slog"

	"svnherald/internal/logging"
	"svnherald/internal/notifyconf"
	"svnherald/internal/pattern"
	"svnherald/internal/settings"
)

// Resolver evaluates change events against a classified configuration. It is
// immutable after New and safe for concurrent use.
type Resolver struct {
	cfg      *notifyconf.Config
	general  *settings.General
	groups   []*compiledGroup
	defaults *groupDefaults
	logger   *slog.Logger
}

// compiledGroup is one notification group with its patterns compiled and its
// raw settings already merged with [defaults].
type compiledGroup struct {
	name     string
	fallback bool

	forRepos     *pattern.Pattern
	forPaths     *pattern.Pattern
	excludePaths *pattern.Pattern

	// raw holds the merged, canonically keyed, non-control options in a
	// stable order: defaults first, group additions after.
	raw []notifyconf.Option
}

// groupDefaults carries the [defaults] state shared by every group: the raw
// options to merge and the default patterns, which contribute captures even
// when a group overrides the pattern itself.
type groupDefaults struct {
	raw      []notifyconf.Option
	control  map[string]notifyconf.Option
	forRepos *pattern.Pattern
	forPaths *pattern.Pattern
}

// New builds a Resolver from cfg. All patterns are compiled and every option
// of every section is validated against the schema here, so a configuration
// error fails fast, before any event is processed.
func New(cfg *notifyconf.Config, logger *slog.Logger) (*Resolver, error) {
	r := &Resolver{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}

	general, err := coerceGeneral(cfg.General)
	if err != nil {
		return nil, err
	}
	r.general = general

	if err := validateMapDecls(cfg); err != nil {
		return nil, err
	}

	defaults, err := splitDefaults(cfg.Defaults)
	if err != nil {
		return nil, err
	}
	r.defaults = defaults

	for _, section := range cfg.Groups {
		g, err := compileGroup(section, defaults)
		if err != nil {
			return nil, err
		}
		r.groups = append(r.groups, g)
	}
	if len(r.groups) == 0 {
		// Without any group sections the defaults act as a single
		// catch-all group.
		g, err := compileGroup(nil, defaults)
		if err != nil {
			return nil, err
		}
		r.groups = append(r.groups, g)
	}

	if err := r.checkStatic(notifyconf.SectionDefaults, defaults.raw); err != nil {
		return nil, err
	}
	for _, g := range r.groups {
		if err := r.checkStatic(g.name, g.raw); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// checkStatic coerces every option whose final value cannot depend on the
// event: no template expansion, no map redirection. A type error in such a
// value is a configuration error and fails the load, not the event.
func (r *Resolver) checkStatic(section string, opts []notifyconf.Option) error {
	for _, opt := range opts {
		_, field, _ := settings.LookupGroupOption(opt.Key)
		if field.Subst {
			continue
		}
		if _, mapped := r.cfg.MapDecls[opt.Key]; mapped && field.Mappable {
			continue
		}
		if _, err := settings.Coerce(opt.Key, opt.Value, field.Kind, field.Allowed); err != nil {
			return &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: section, Key: opt.Key, Err: err,
			}
		}
	}
	return nil
}

// General returns the typed [general] settings.
func (r *Resolver) General() *settings.General { return r.general }

// GroupNames returns the configured group names in declaration order.
func (r *Resolver) GroupNames() []string {
	names := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		names = append(names, g.name)
	}
	return names
}

func coerceGeneral(section *notifyconf.Section) (*settings.General, error) {
	general := settings.NewGeneral()
	if section == nil {
		return general, nil
	}
	for _, opt := range section.Options() {
		canonical, field, ok := settings.LookupGeneralOption(opt.Key)
		if !ok {
			return nil, &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: notifyconf.SectionGeneral,
				Key: opt.Key, Msg: "unknown option",
			}
		}
		value, err := settings.Coerce(canonical, opt.Value, field.Kind, field.Allowed)
		if err != nil {
			return nil, &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: notifyconf.SectionGeneral,
				Key: canonical, Err: err,
			}
		}
		general.Apply(canonical, value)
	}
	return general, nil
}

// validateMapDecls checks that every [maps] declaration names an option that
// exists and supports map redirection.
func validateMapDecls(cfg *notifyconf.Config) error {
	for _, decl := range cfg.MapDecls {
		canonical, field, ok := settings.LookupGroupOption(decl.Option)
		if !ok {
			return &notifyconf.ConfigError{
				File: decl.File, Line: decl.Line, Section: notifyconf.SectionMaps,
				Key: decl.Option, Msg: "unknown option",
			}
		}
		if !field.Mappable || canonical != decl.Option {
			return &notifyconf.ConfigError{
				File: decl.File, Line: decl.Line, Section: notifyconf.SectionMaps,
				Key: decl.Option, Msg: "option does not support map redirection",
			}
		}
	}
	return nil
}

// splitDefaults validates [defaults] and separates control options from the
// mergeable settings.
func splitDefaults(section *notifyconf.Section) (*groupDefaults, error) {
	d := &groupDefaults{control: map[string]notifyconf.Option{}}
	if section == nil {
		return d, nil
	}
	for _, opt := range section.Options() {
		canonical, field, ok := settings.LookupGroupOption(opt.Key)
		if !ok {
			return nil, &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: section.Name,
				Key: opt.Key, Msg: "unknown option",
			}
		}
		opt.Key = canonical
		if field.Control {
			d.control[canonical] = opt
			continue
		}
		d.raw = append(d.raw, opt)
	}

	var err error
	if d.forRepos, err = compileControlPattern(section.Name, d.control, settings.OptForRepos); err != nil {
		return nil, err
	}
	if d.forPaths, err = compileControlPattern(section.Name, d.control, settings.OptForPaths); err != nil {
		return nil, err
	}
	// exclude_paths and fallback are validated here and inherited per group.
	if _, err = compileControlPattern(section.Name, d.control, settings.OptExcludePaths); err != nil {
		return nil, err
	}
	if _, err = controlBool(section.Name, d.control); err != nil {
		return nil, err
	}
	return d, nil
}

// compileGroup merges a group section over the defaults and compiles its
// patterns. A nil section builds the implicit defaults-only group.
func compileGroup(section *notifyconf.Section, defaults *groupDefaults) (*compiledGroup, error) {
	name := notifyconf.SectionDefaults
	if section != nil {
		name = section.Name
	}
	g := &compiledGroup{name: name}

	control := map[string]notifyconf.Option{}
	for key, opt := range defaults.control {
		control[key] = opt
	}

	merged := map[string]int{}
	for _, opt := range defaults.raw {
		merged[opt.Key] = len(g.raw)
		g.raw = append(g.raw, opt)
	}
	if section != nil {
		for _, opt := range section.Options() {
			canonical, field, ok := settings.LookupGroupOption(opt.Key)
			if !ok {
				return nil, &notifyconf.ConfigError{
					File: opt.File, Line: opt.Line, Section: name,
					Key: opt.Key, Msg: "unknown option",
				}
			}
			opt.Key = canonical
			if field.Control {
				control[canonical] = opt
				continue
			}
			if i, ok := merged[canonical]; ok {
				g.raw[i] = opt
				continue
			}
			merged[canonical] = len(g.raw)
			g.raw = append(g.raw, opt)
		}
	}

	var err error
	if g.forRepos, err = compileControlPattern(name, control, settings.OptForRepos); err != nil {
		return nil, err
	}
	if g.forPaths, err = compileControlPattern(name, control, settings.OptForPaths); err != nil {
		return nil, err
	}
	if g.excludePaths, err = compileControlPattern(name, control, settings.OptExcludePaths); err != nil {
		return nil, err
	}
	if g.fallback, err = controlBool(name, control); err != nil {
		return nil, err
	}
	return g, nil
}

func compileControlPattern(section string, control map[string]notifyconf.Option, key string) (*pattern.Pattern, error) {
	opt, ok := control[key]
	if !ok {
		return nil, nil
	}
	p, err := pattern.Compile(opt.Value)
	if err != nil {
		return nil, &notifyconf.ConfigError{
			File: opt.File, Line: opt.Line, Section: section, Key: key, Err: err,
		}
	}
	return p, nil
}

func controlBool(section string, control map[string]notifyconf.Option) (bool, error) {
	opt, ok := control[settings.OptFallback]
	if !ok {
		return false, nil
	}
	value, err := settings.Coerce(settings.OptFallback, opt.Value, settings.KindBool, nil)
	if err != nil {
		return false, &notifyconf.ConfigError{
			File: opt.File, Line: opt.Line, Section: section, Key: settings.OptFallback, Err: err,
		}
	}
	return value.Bool, nil
}
