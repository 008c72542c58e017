package settings

import (
	"fmt"
	"sort"
	"strings"

	"svnherald/internal/pattern"
)

// ChangeKind names the way a path was affected by a repository change.
type ChangeKind string

const (
	ChangeAdd        ChangeKind = "add"
	ChangeModify     ChangeKind = "modify"
	ChangeDelete     ChangeKind = "delete"
	ChangeCopy       ChangeKind = "copy"
	ChangePropchange ChangeKind = "propchange"
	ChangeLock       ChangeKind = "lock"
	ChangeUnlock     ChangeKind = "unlock"
)

// ChangeKinds lists every valid change kind.
var ChangeKinds = []ChangeKind{
	ChangeAdd, ChangeModify, ChangeDelete, ChangeCopy,
	ChangePropchange, ChangeLock, ChangeUnlock,
}

// ParseChangeKind validates a change kind name.
func ParseChangeKind(s string) (ChangeKind, error) {
	kind := ChangeKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChangeKinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown change kind %q", s)
}

// ChangeSet is a set of change kinds, e.g. the value of generate_diffs.
type ChangeSet map[ChangeKind]struct{}

// Contains reports whether kind is in the set.
func (s ChangeSet) Contains(kind ChangeKind) bool {
	_, ok := s[kind]
	return ok
}

// Add inserts kind into the set.
func (s ChangeSet) Add(kind ChangeKind) { s[kind] = struct{}{} }

func (s ChangeSet) String() string {
	names := make([]string, 0, len(s))
	for kind := range s {
		names = append(names, string(kind))
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// ValueKind tags the typed representation an option coerces to.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindList
	KindRegex
	KindChoice
	KindChangeSet
	KindMailAction
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindList:
		return "list"
	case KindRegex:
		return "regex"
	case KindChoice:
		return "choice"
	case KindChangeSet:
		return "change-kind set"
	case KindMailAction:
		return "mail action"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is the tagged result of coercing a raw string. Only the field
// matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Str     string
	Bool    bool
	Int     int
	List    []string
	Pattern *pattern.Pattern
	Changes ChangeSet
	Action  *MailAction
}
