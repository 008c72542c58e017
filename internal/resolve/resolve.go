package resolve

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"svnherald/internal/logging"
	"svnherald/internal/notifyconf"
	"svnherald/internal/pattern"
	"svnherald/internal/settings"
	"svnherald/internal/subst"
)

// ResolvedGroup is the per-group, per-event output: the claimed paths, the
// assembled variable mapping and the typed, expanded settings. It is built
// fresh for every resolution and never mutated afterwards.
type ResolvedGroup struct {
	Name     string
	RunID    string
	Fallback bool
	Settings *settings.Group
	Vars     subst.Vars
	// Changes are the affected paths this group claimed, in event order.
	Changes []PathChange
	// Nonmatching holds the paths the group did not claim when
	// show_nonmatching_paths is yes; it is nil for ignore and empty for no.
	Nonmatching []PathChange
}

// candidate tracks one group's match state while an event is evaluated.
type candidate struct {
	group     *compiledGroup
	reposCaps map[string]string
	// pathIdx are indexes into the event's change list the group was hit
	// by; pathCaps the corresponding for_paths captures.
	pathIdx  []int
	pathCaps []map[string]string
}

// Resolve evaluates one change event and returns the matching groups with
// their fully resolved configuration, in declaration order. Load-time
// problems are impossible here; a per-group failure (say, a template
// referencing a variable this event never captured) is logged and skips
// only that group.
func (r *Resolver) Resolve(ev *Event) ([]*ResolvedGroup, error) {
	if _, err := ParseMode(string(ev.Mode)); err != nil {
		return nil, err
	}
	runID := ev.ID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := r.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldRepos, ev.Repos),
	)

	candidates, claimed := r.gather(ev)

	var resolved []*ResolvedGroup
	for _, cand := range candidates {
		if len(cand.pathIdx) == 0 {
			continue
		}
		rg, err := r.materialize(ev, runID, cand)
		if err != nil {
			log.Error("group resolution failed, skipping group", logging.Args(
				logging.String(logging.FieldGroup, cand.group.name),
				logging.Error(err),
			)...)
			continue
		}
		resolved = append(resolved, rg)
	}

	for i, ch := range ev.Changes {
		if !claimed[i] {
			log.Warn("path matched no notification group", logging.Args(
				logging.String(logging.FieldPath, ch.Path),
			)...)
		}
	}
	return resolved, nil
}

// gather runs the repository and path gates for every group and applies the
// fallback semantics: ordinary groups claim every path they match, fallback
// groups then claim still-unclaimed paths in declaration order.
func (r *Resolver) gather(ev *Event) ([]*candidate, []bool) {
	claimed := make([]bool, len(ev.Changes))
	candidates := make([]*candidate, 0, len(r.groups))
	var fallbacks []*candidate

	for _, g := range r.groups {
		reposCaps, ok := matchPattern(g.forRepos, ev.Repos)
		if !ok {
			continue
		}
		cand := &candidate{group: g, reposCaps: reposCaps}
		for i, ch := range ev.Changes {
			if g.excludePaths != nil {
				if _, excluded := g.excludePaths.Match(ch.Path); excluded {
					continue
				}
			}
			caps, ok := matchPattern(g.forPaths, ch.Path)
			if !ok {
				continue
			}
			cand.pathIdx = append(cand.pathIdx, i)
			cand.pathCaps = append(cand.pathCaps, caps)
		}
		candidates = append(candidates, cand)
		if g.fallback {
			fallbacks = append(fallbacks, cand)
			continue
		}
		for _, i := range cand.pathIdx {
			claimed[i] = true
		}
	}

	for _, cand := range fallbacks {
		idx := cand.pathIdx[:0]
		caps := cand.pathCaps[:0]
		for n, i := range cand.pathIdx {
			if claimed[i] {
				continue
			}
			claimed[i] = true
			idx = append(idx, i)
			caps = append(caps, cand.pathCaps[n])
		}
		cand.pathIdx = idx
		cand.pathCaps = caps
	}
	return candidates, claimed
}

// matchPattern treats a nil pattern like an empty one: match everything.
func matchPattern(p *pattern.Pattern, subject string) (map[string]string, bool) {
	if p == nil {
		return map[string]string{}, true
	}
	return p.Match(subject)
}

// materialize builds the ResolvedGroup for a matched candidate: variable
// assembly, defaults-merged settings, expansion, map redirection, coercion.
func (r *Resolver) materialize(ev *Event, runID string, cand *candidate) (*ResolvedGroup, error) {
	g := cand.group

	vars := ev.builtins(g.name)
	// Defaults patterns contribute captures even when the group overrides
	// the pattern, at lowest precedence after the built-ins.
	if caps, ok := matchPattern(r.defaults.forRepos, ev.Repos); ok {
		vars.Merge(caps)
	}
	for _, i := range cand.pathIdx {
		if caps, ok := matchPattern(r.defaults.forPaths, ev.Changes[i].Path); ok {
			vars.Merge(caps)
		}
	}
	vars.Merge(cand.reposCaps)
	// On a capture-name collision across claimed paths the last claimed
	// path in event order wins.
	for _, caps := range cand.pathCaps {
		vars.Merge(caps)
	}

	group := settings.NewGroup(g.name)
	for _, opt := range g.raw {
		_, field, _ := settings.LookupGroupOption(opt.Key)
		value, err := r.resolveRaw(opt, field, vars)
		if err != nil {
			return nil, err
		}
		coerced, err := settings.Coerce(opt.Key, value, field.Kind, field.Allowed)
		if err != nil {
			return nil, &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: g.name, Key: opt.Key, Err: err,
			}
		}
		group.Apply(opt.Key, coerced)
	}

	rg := &ResolvedGroup{
		Name:     g.name,
		RunID:    runID,
		Fallback: g.fallback,
		Settings: group,
		Vars:     vars,
	}
	inGroup := make([]bool, len(ev.Changes))
	for _, i := range cand.pathIdx {
		inGroup[i] = true
	}
	for i, ch := range ev.Changes {
		if inGroup[i] {
			rg.Changes = append(rg.Changes, ch)
		}
	}
	switch group.ShowNonmatchingPaths {
	case settings.NonmatchingYes:
		rg.Nonmatching = []PathChange{}
		for i, ch := range ev.Changes {
			if !inGroup[i] {
				rg.Nonmatching = append(rg.Nonmatching, ch)
			}
		}
	case settings.NonmatchingIgnore:
		rg.Nonmatching = nil
	default:
		rg.Nonmatching = []PathChange{}
	}
	return rg, nil
}

// resolveRaw produces the final string value of one option: template
// expansion for subst options and [maps] redirection for mapped ones.
//
// A raw value that is exactly the bracket reference of the option's declared
// table redirects through the table keyed by the author variable; a missing
// entry is then an error. Any other value is looked up after expansion and
// falls back to itself when the table has no entry.
func (r *Resolver) resolveRaw(opt notifyconf.Option, field settings.Field, vars subst.Vars) (string, error) {
	decl, mapped := r.cfg.MapDecls[opt.Key]
	if mapped && field.Mappable && opt.Value == "["+decl.Table+"]" {
		table, _ := r.cfg.Table(decl.Table)
		key := vars["author"]
		value, ok := table[key]
		if !ok {
			return "", &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Section: decl.Table, Key: opt.Key,
				Msg: fmt.Sprintf("no entry for %q in map section [%s]", key, decl.Table),
			}
		}
		return value, nil
	}

	value := opt.Value
	if field.Subst {
		expanded, err := subst.Expand(value, vars)
		if err != nil {
			return "", &notifyconf.ConfigError{
				File: opt.File, Line: opt.Line, Key: opt.Key, Err: err,
			}
		}
		value = expanded
	}
	if mapped && field.Mappable {
		table, _ := r.cfg.Table(decl.Table)
		if redirected, ok := table[strings.TrimSpace(value)]; ok {
			value = redirected
		}
	}
	return value, nil
}
