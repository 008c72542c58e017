package settings_test

import (
	"testing"

	"svnherald/internal/settings"
)

func TestParseMailActionSplitTruncateLimit(t *testing.T) {
	action, err := settings.ParseMailAction("100000 split/truncate/5")
	if err != nil {
		t.Fatalf("ParseMailAction returned error: %v", err)
	}
	if action.Threshold != 100000 {
		t.Fatalf("unexpected threshold: %d", action.Threshold)
	}
	if action.Mode != settings.ActionSplit || !action.Truncate || action.Limit != 5 {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestParseMailActionSimpleTruncate(t *testing.T) {
	action, err := settings.ParseMailAction("4096 truncate")
	if err != nil {
		t.Fatalf("ParseMailAction returned error: %v", err)
	}
	if action.Mode != settings.ActionTruncate || action.Truncate || action.Limit != 0 {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestParseMailActionScopes(t *testing.T) {
	action, err := settings.ParseMailAction("200000 showurls/truncate revprop-changes locks")
	if err != nil {
		t.Fatalf("ParseMailAction returned error: %v", err)
	}
	if len(action.Scope) != 2 || action.Scope[0] != settings.ScopeRevpropChanges {
		t.Fatalf("unexpected scopes: %v", action.Scope)
	}
}

func TestParseMailActionRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"100000",
		"abc split",
		"100000 explode",
		"100000 truncate/truncate",
		"100000 truncate/5",
		"100000 split/truncate/5/6",
		"100000 split/truncate/zero",
		"100000 split everything",
	}
	for _, raw := range cases {
		if _, err := settings.ParseMailAction(raw); err == nil {
			t.Fatalf("ParseMailAction(%q) accepted malformed input", raw)
		}
	}
}

func TestMailActionString(t *testing.T) {
	action, err := settings.ParseMailAction("100000 split/truncate/5 locks")
	if err != nil {
		t.Fatalf("ParseMailAction returned error: %v", err)
	}
	if action.String() != "100000 split/truncate/5 locks" {
		t.Fatalf("unexpected round trip: %q", action.String())
	}
}
