package resolve

import (
	"fmt"

	"svnherald/internal/settings"
	"svnherald/internal/subst"
)

// Mode is the kind of repository event being processed.
type Mode string

const (
	ModeCommit     Mode = "commit"
	ModePropchange Mode = "propchange"
	ModeLock       Mode = "lock"
	ModeUnlock     Mode = "unlock"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCommit, ModePropchange, ModeLock, ModeUnlock:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown event mode %q", s)
}

// PathChange is one affected path with the way it changed. Directory paths
// carry a trailing slash so patterns can distinguish them from files.
type PathChange struct {
	Path string
	Kind settings.ChangeKind
}

// Event is one repository change to resolve: its identity, the revision
// metadata, and the affected paths. Events are supplied fully assembled by
// the repository-access collaborator.
type Event struct {
	// ID correlates log records of one resolution run. Resolve assigns a
	// fresh one when empty.
	ID       string
	Repos    string
	Author   string
	Revision string
	Mode     Mode
	// Propname is the changed revision property for propchange events.
	Propname string
	// Action is the propchange action code (A/M/D), when known.
	Action  string
	Changes []PathChange
}

// builtins returns the built-in template variables of the event for a given
// group. Every name is always bound; absent values bind to the empty string
// except author, which falls back to "no_author" as notifications must
// always carry a sender identity.
func (e *Event) builtins(group string) subst.Vars {
	author := e.Author
	if author == "" {
		author = "no_author"
	}
	return subst.Vars{
		"author":   author,
		"group":    group,
		"repos":    e.Repos,
		"revision": e.Revision,
		"property": e.Propname,
		"action":   e.Action,
	}
}
