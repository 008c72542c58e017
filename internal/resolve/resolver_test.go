package resolve

import (
	"errors"
	"fmt"
	"testing"

	"svnherald/internal/logging"
	"svnherald/internal/notifyconf"
	"svnherald/internal/settings"
	"svnherald/internal/testsupport"
)

func newResolver(t *testing.T, text string) *Resolver {
	t.Helper()
	doc, err := notifyconf.Load(testsupport.WriteNotifyConfig(t, text))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg, err := notifyconf.Classify(doc)
	if err != nil {
		t.Fatalf("classify config: %v", err)
	}
	r, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("build resolver: %v", err)
	}
	return r
}

func commitEvent(repos, author, revision string, paths ...string) *Event {
	ev := &Event{Repos: repos, Author: author, Revision: revision, Mode: ModeCommit}
	for _, p := range paths {
		ev.Changes = append(ev.Changes, PathChange{Path: p, Kind: settings.ChangeModify})
	}
	return ev
}

func groupNames(groups []*ResolvedGroup) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func paths(changes []PathChange) []string {
	out := make([]string, 0, len(changes))
	for _, ch := range changes {
		out = append(out, ch.Path)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolveFallbackClaimsOnlyUnclaimedPaths(t *testing.T) {
	r := newResolver(t, `
[defaults]
to_addr = dev@example.org

[foo]
for_paths = foo/.*
to_addr = foo@example.org

[bar]
for_paths = bar/.*
to_addr = bar@example.org

[admin]
fallback = yes
to_addr = admin@example.org
`)
	ev := commitEvent("main", "alice", "42",
		"foo/main.c", "bar/util.c", "misc/notes.txt")
	groups, err := r.Resolve(ev)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := groupNames(groups), []string{"foo", "bar", "admin"}; !equalStrings(got, want) {
		t.Fatalf("resolved groups = %v, want %v", got, want)
	}
	if got := paths(groups[0].Changes); !equalStrings(got, []string{"foo/main.c"}) {
		t.Errorf("foo claimed %v", got)
	}
	if got := paths(groups[1].Changes); !equalStrings(got, []string{"bar/util.c"}) {
		t.Errorf("bar claimed %v", got)
	}
	if got := paths(groups[2].Changes); !equalStrings(got, []string{"misc/notes.txt"}) {
		t.Errorf("admin claimed %v", got)
	}
	if !groups[2].Fallback {
		t.Errorf("admin should be marked as fallback")
	}
}

func TestResolveFallbackSilentWhenEverythingClaimed(t *testing.T) {
	r := newResolver(t, `
[all]
to_addr = dev@example.org

[admin]
fallback = yes
to_addr = admin@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "7", "src/a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := groupNames(groups), []string{"all"}; !equalStrings(got, want) {
		t.Fatalf("resolved groups = %v, want %v", got, want)
	}
}

func TestResolveForReposGateAndCaptures(t *testing.T) {
	r := newResolver(t, `
[public]
for_repos = (?P<dept>[^/]+)/public
to_addr = %(dept)s-commits@example.org
commit_subject_prefix = [%(dept)s]
`)
	groups, err := r.Resolve(commitEvent("eng/public", "alice", "9", "README"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("resolved %d groups, want 1", len(groups))
	}
	g := groups[0]
	if got := g.Vars["dept"]; got != "eng" {
		t.Errorf("dept capture = %q, want %q", got, "eng")
	}
	if got := g.Settings.ToAddr; !equalStrings(got, []string{"eng-commits@example.org"}) {
		t.Errorf("to_addr = %v", got)
	}
	if got := g.Settings.CommitSubjectPrefix; got != "[eng]" {
		t.Errorf("commit_subject_prefix = %q", got)
	}

	groups, err = r.Resolve(commitEvent("eng/private", "alice", "10", "README"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("private repository resolved %v, want none", groupNames(groups))
	}
}

func TestResolvePathCapturesLastClaimedWins(t *testing.T) {
	r := newResolver(t, `
[modules]
for_paths = (?P<module>[^/]+)/.*
to_addr = %(module)s@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "11", "core/a.c", "util/b.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("resolved %d groups, want 1", len(groups))
	}
	if got := groups[0].Vars["module"]; got != "util" {
		t.Errorf("module capture = %q, want last claimed path's %q", got, "util")
	}
}

func TestResolveExcludePaths(t *testing.T) {
	r := newResolver(t, `
[src]
for_paths = src/.*
exclude_paths = src/vendor/.*
to_addr = dev@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "12",
		"src/a.c", "src/vendor/dep.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("resolved %d groups, want 1", len(groups))
	}
	if got := paths(groups[0].Changes); !equalStrings(got, []string{"src/a.c"}) {
		t.Errorf("claimed %v, want vendor path excluded", got)
	}
}

func TestResolveDefaultsMergeKeyWise(t *testing.T) {
	r := newResolver(t, `
[defaults]
from_addr = noreply@example.org
to_addr = everyone@example.org

[docs]
for_paths = docs/.*
to_addr = docs@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "13", "docs/guide.txt"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	g := groups[0]
	if got := g.Settings.FromAddr; !equalStrings(got, []string{"noreply@example.org"}) {
		t.Errorf("from_addr not inherited from defaults: %v", got)
	}
	if got := g.Settings.ToAddr; !equalStrings(got, []string{"docs@example.org"}) {
		t.Errorf("to_addr not overridden by group: %v", got)
	}
}

func TestResolveDefaultsPatternContributesCaptures(t *testing.T) {
	// The defaults pattern binds its captures even for a group that
	// replaces for_repos with its own expression.
	r := newResolver(t, `
[defaults]
for_repos = (?P<base>[^/]+)/.*

[wide]
for_repos = .*
to_addr = %(base)s@example.org
`)
	groups, err := r.Resolve(commitEvent("corp/main", "alice", "14", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("resolved %d groups, want 1", len(groups))
	}
	if got := groups[0].Settings.ToAddr; !equalStrings(got, []string{"corp@example.org"}) {
		t.Errorf("to_addr = %v, want defaults capture bound", got)
	}
}

func TestResolveImplicitGroupWithoutSections(t *testing.T) {
	r := newResolver(t, `
[defaults]
to_addr = all@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "15", "a.c", "b.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := groupNames(groups), []string{notifyconf.SectionDefaults}; !equalStrings(got, want) {
		t.Fatalf("resolved groups = %v, want %v", got, want)
	}
	if got := paths(groups[0].Changes); !equalStrings(got, []string{"a.c", "b.c"}) {
		t.Errorf("implicit group claimed %v", got)
	}
}

func TestResolveMapRedirect(t *testing.T) {
	r := newResolver(t, `
[maps]
reply_to_addr = [authors]

[authors]
alice = alice@corp.example
bob = bob@corp.example

[src]
reply_to_addr = [authors]
to_addr = dev@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "16", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := groups[0].Settings.ReplyToAddr; got != "alice@corp.example" {
		t.Errorf("reply_to_addr = %q, want redirected address", got)
	}

	// An author missing from the table is a configuration error; the
	// group is skipped rather than silently misaddressed.
	groups, err = r.Resolve(commitEvent("main", "mallory", "17", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("resolved %v, want group skipped for unknown author", groupNames(groups))
	}
}

func TestResolveMapIdentityFallbackForPlainValues(t *testing.T) {
	r := newResolver(t, `
[maps]
reply_to_addr = [authors]

[authors]
alice = alice@corp.example

[src]
reply_to_addr = %(author)s
to_addr = dev@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "18", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := groups[0].Settings.ReplyToAddr; got != "alice@corp.example" {
		t.Errorf("reply_to_addr = %q, want table entry", got)
	}

	groups, err = r.Resolve(commitEvent("main", "mallory", "19", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := groups[0].Settings.ReplyToAddr; got != "mallory" {
		t.Errorf("reply_to_addr = %q, want identity fallback", got)
	}
}

func TestResolveMissingTemplateVariableSkipsOnlyThatGroup(t *testing.T) {
	r := newResolver(t, `
[broken]
to_addr = %(nosuchvar)s@example.org

[healthy]
to_addr = dev@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "20", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := groupNames(groups), []string{"healthy"}; !equalStrings(got, want) {
		t.Fatalf("resolved groups = %v, want %v", got, want)
	}
}

func TestResolveShowNonmatchingPaths(t *testing.T) {
	config := `
[src]
for_paths = src/.*
show_nonmatching_paths = %s
to_addr = dev@example.org
`
	ev := func() *Event { return commitEvent("main", "alice", "21", "src/a.c", "docs/b.txt") }

	groups, err := newResolver(t, fmt.Sprintf(config, "yes")).Resolve(ev())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := paths(groups[0].Nonmatching); !equalStrings(got, []string{"docs/b.txt"}) {
		t.Errorf("yes: nonmatching = %v", got)
	}

	groups, err = newResolver(t, fmt.Sprintf(config, "no")).Resolve(ev())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if groups[0].Nonmatching == nil || len(groups[0].Nonmatching) != 0 {
		t.Errorf("no: nonmatching = %v, want empty non-nil", groups[0].Nonmatching)
	}

	groups, err = newResolver(t, fmt.Sprintf(config, "ignore")).Resolve(ev())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if groups[0].Nonmatching != nil {
		t.Errorf("ignore: nonmatching = %v, want nil", groups[0].Nonmatching)
	}
}

func TestResolveRunID(t *testing.T) {
	r := newResolver(t, `
[all]
to_addr = dev@example.org
`)
	ev := commitEvent("main", "alice", "22", "a.c")
	groups, err := r.Resolve(ev)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if groups[0].RunID == "" {
		t.Errorf("run ID should be assigned when the event has none")
	}

	ev = commitEvent("main", "alice", "23", "a.c")
	ev.ID = "run-77"
	groups, err = r.Resolve(ev)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := groups[0].RunID; got != "run-77" {
		t.Errorf("run ID = %q, want the event's own", got)
	}
}

func TestResolveRejectsUnknownMode(t *testing.T) {
	r := newResolver(t, `
[all]
to_addr = dev@example.org
`)
	ev := commitEvent("main", "alice", "24", "a.c")
	ev.Mode = Mode("merge")
	if _, err := r.Resolve(ev); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestNewRejectsUnknownGroupOption(t *testing.T) {
	path := testsupport.WriteNotifyConfig(t, `
[src]
to_adr = dev@example.org
`)
	doc, err := notifyconf.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg, err := notifyconf.Classify(doc)
	if err != nil {
		t.Fatalf("classify config: %v", err)
	}
	_, err = New(cfg, logging.NewNop())
	var cerr *notifyconf.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
	if cerr.Key != "to_adr" {
		t.Errorf("error key = %q, want the misspelled option", cerr.Key)
	}
}

func TestNewRejectsBadStaticValue(t *testing.T) {
	path := testsupport.WriteNotifyConfig(t, `
[src]
to_addr = dev@example.org
max_subject_length = banana
`)
	doc, err := notifyconf.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg, err := notifyconf.Classify(doc)
	if err != nil {
		t.Fatalf("classify config: %v", err)
	}
	_, err = New(cfg, logging.NewNop())
	var cerr *notifyconf.ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
	if cerr.Key != "max_subject_length" {
		t.Errorf("error key = %q, want max_subject_length", cerr.Key)
	}
}

func TestGroupAliasesResolve(t *testing.T) {
	r := newResolver(t, `
[legacy]
ignore_if_other_matches = yes
reply_to = admin@example.org
to_addr = dev@example.org

[src]
to_addr = src@example.org
`)
	groups, err := r.Resolve(commitEvent("main", "alice", "25", "a.c"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// src claims the path; legacy is a fallback via its alias and stays
	// out of the result.
	if got, want := groupNames(groups), []string{"src"}; !equalStrings(got, want) {
		t.Fatalf("resolved groups = %v, want %v", got, want)
	}
}
