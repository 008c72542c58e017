package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Primary modes of a mail action.
const (
	ActionTruncate = "truncate"
	ActionShowURLs = "showurls"
	ActionSplit    = "split"
)

// Additional scopes a mail action may apply to.
const (
	ScopeRevpropChanges = "revprop-changes"
	ScopeLocks          = "locks"
)

// MailAction is the structured form of long_mail_action / long_news_action:
// what to do when a notification would exceed a size threshold, e.g.
// "100000 split/truncate/5".
type MailAction struct {
	// Threshold is the size in bytes above which the action applies.
	Threshold int
	// Mode is the primary action: truncate, showurls or split.
	Mode string
	// Truncate is the optional secondary action for showurls and split.
	Truncate bool
	// Limit caps the number of split parts; zero means unlimited. Only
	// valid with the split mode.
	Limit int
	// Scope extends the action to revprop-changes and lock notifications.
	Scope []string
}

// ParseMailAction parses the "<threshold> <mode>[/truncate][/<limit>]
// [scope ...]" form.
func ParseMailAction(raw string) (*MailAction, error) {
	fields := strings.Fields(raw)
	if len(fields) < 2 {
		return nil, fmt.Errorf("cannot parse action %q: expected <threshold> <mode>", raw)
	}

	threshold, err := strconv.Atoi(fields[0])
	if err != nil || threshold < 0 {
		return nil, fmt.Errorf("cannot parse action %q: bad threshold %q", raw, fields[0])
	}
	action := &MailAction{Threshold: threshold}

	tokens := strings.Split(strings.ToLower(fields[1]), "/")
	action.Mode = tokens[0]
	tokens = tokens[1:]
	switch action.Mode {
	case ActionTruncate, ActionShowURLs, ActionSplit:
	default:
		return nil, fmt.Errorf("cannot parse action %q: unknown mode %q", raw, action.Mode)
	}

	if len(tokens) > 0 && tokens[0] == ActionTruncate {
		if action.Mode == ActionTruncate {
			return nil, fmt.Errorf("cannot parse action %q: truncate cannot modify itself", raw)
		}
		action.Truncate = true
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		if action.Mode != ActionSplit {
			return nil, fmt.Errorf("cannot parse action %q: part limit requires split mode", raw)
		}
		limit, err := strconv.Atoi(tokens[0])
		if err != nil || limit < 1 {
			return nil, fmt.Errorf("cannot parse action %q: bad part limit %q", raw, tokens[0])
		}
		action.Limit = limit
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		return nil, fmt.Errorf("cannot parse action %q: trailing %q", raw, strings.Join(tokens, "/"))
	}

	seen := map[string]bool{}
	for _, scope := range fields[2:] {
		scope = strings.ToLower(scope)
		if scope != ScopeRevpropChanges && scope != ScopeLocks {
			return nil, fmt.Errorf("cannot parse action %q: unknown scope %q", raw, scope)
		}
		if !seen[scope] {
			seen[scope] = true
			action.Scope = append(action.Scope, scope)
		}
	}
	return action, nil
}

func (a *MailAction) String() string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", a.Threshold, a.Mode)
	if a.Truncate {
		b.WriteString("/truncate")
	}
	if a.Limit > 0 {
		fmt.Fprintf(&b, "/%d", a.Limit)
	}
	for _, scope := range a.Scope {
		b.WriteByte(' ')
		b.WriteString(scope)
	}
	return b.String()
}
