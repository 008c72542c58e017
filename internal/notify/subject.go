package notify

import (
	"path"
	"sort"
	"strings"

	"svnherald/internal/resolve"
	"svnherald/internal/subst"
)

// Built-in subject templates, used when the group configures none for the
// event's mode.
const (
	commitSubject     = "%(prefix)s r%(revision)s %(part)s - %(files/dirs)s"
	propchangeSubject = "%(prefix)s r%(revision)s - %(property)s"
	lockSubject       = "%(prefix)s %(files/dirs)s"
	unlockSubject     = "%(prefix)s %(files/dirs)s"
)

// shortLimit bounds the files form of %(files/dirs)s when no explicit
// max_subject_length is set.
const shortLimit = 255

// Subject builds the subject line for one resolved group. The template is
// the group's per-mode subject template or the built-in one. %(files/dirs)s
// is tried with the file list first and falls back to the directory list
// when the result runs long; %(files)s and %(dirs)s are always bound to the
// respective list. max_subject_length finally truncates with an ellipsis.
// part is an optional counter inserted as %(part)s when a delivery is split
// into several messages.
func Subject(ev *resolve.Event, group *resolve.ResolvedGroup, part string) (string, error) {
	s := group.Settings

	var template, prefix string
	switch ev.Mode {
	case resolve.ModeCommit:
		template, prefix = s.CommitSubjectTemplate, s.CommitSubjectPrefix
		if template == "" {
			template = commitSubject
		}
	case resolve.ModePropchange:
		template, prefix = s.PropchangeSubjectTemplate, s.PropchangeSubjectPrefix
		if template == "" {
			template = propchangeSubject
		}
	case resolve.ModeLock:
		template, prefix = s.LockSubjectTemplate, s.LockSubjectPrefix
		if template == "" {
			template = lockSubject
		}
	case resolve.ModeUnlock:
		template, prefix = s.UnlockSubjectTemplate, s.UnlockSubjectPrefix
		if template == "" {
			template = unlockSubject
		}
	}

	changes := make([]resolve.PathChange, 0, len(group.Changes)+len(group.Nonmatching))
	changes = append(changes, group.Changes...)
	changes = append(changes, group.Nonmatching...)

	vars := group.Vars.Clone()
	vars["prefix"] = prefix
	vars["part"] = part

	maxLength := s.MaxSubjectLength
	if maxLength < 0 {
		maxLength = 0
	}
	shortLength := maxLength
	if shortLength == 0 {
		shortLength = shortLimit
	}

	files := fileSummary(changes)
	dirs := dirSummary(changes)
	vars["files"] = files
	vars["dirs"] = dirs

	expand := func(pathSummary string) (string, error) {
		vars["files/dirs"] = pathSummary
		expanded, err := subst.Expand(template, vars)
		if err != nil {
			return "", err
		}
		return strings.Join(strings.Fields(expanded), " "), nil
	}

	subject, err := expand(files)
	if err != nil {
		return "", err
	}
	if len(subject) > shortLength {
		if subject, err = expand(dirs); err != nil {
			return "", err
		}
	}
	if maxLength > 0 && len(subject) > maxLength {
		cut := maxLength - 3
		if cut < 0 {
			cut = 0
		}
		subject = subject[:cut] + "..."
	}
	return subject, nil
}

// fileSummary lists the changed paths with their longest common directory
// factored out. Directory paths keep their trailing slash.
func fileSummary(changes []resolve.PathChange) string {
	seen := map[string]bool{}
	var paths []string
	for _, ch := range changes {
		if !seen[ch.Path] {
			seen[ch.Path] = true
			paths = append(paths, ch.Path)
		}
	}
	return pathString(commonPaths(paths))
}

// dirSummary lists the directories the changed paths live in, deduplicated,
// with the longest common directory factored out.
func dirSummary(changes []resolve.PathChange) string {
	seen := map[string]bool{}
	var dirs []string
	for _, ch := range changes {
		dir := ch.Path
		if !strings.HasSuffix(dir, "/") {
			dir = path.Dir(dir)
			if dir == "." {
				dir = ""
			}
			dir += "/"
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return pathString(commonPaths(dirs))
}

// commonPaths splits a path list into the longest common directory and the
// remainders. Single paths and lists containing the root keep no common
// part. A remainder left empty by the split reads "./".
func commonPaths(paths []string) (string, []string) {
	if len(paths) < 2 {
		return "", paths
	}
	for _, p := range paths {
		if p == "/" {
			return "", paths
		}
	}

	common := paths[0]
	for _, p := range paths[1:] {
		for !strings.HasPrefix(p, common) {
			common = common[:len(common)-1]
			if common == "" {
				return "", paths
			}
		}
	}
	if idx := strings.LastIndexByte(common, '/'); idx < 0 {
		return "", paths
	} else {
		common = common[:idx+1]
	}
	if common == "" {
		return "", paths
	}

	stripped := make([]string, len(paths))
	for i, p := range paths {
		rest := p[len(common):]
		if rest == "" {
			rest = "./"
		}
		stripped[i] = rest
	}
	return strings.TrimSuffix(common, "/"), stripped
}

func pathString(prefix string, paths []string) string {
	sort.Strings(paths)
	if prefix != "" {
		return "in /" + prefix + ": " + strings.Join(paths, " ")
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = "/" + p
	}
	return strings.Join(out, " ")
}
