package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"svnherald/internal/logging"
	"svnherald/internal/resolve"
	"svnherald/internal/settings"
)

type fakeNotifier struct {
	kind Kind
	runs []string
	err  error
}

func (f *fakeNotifier) Kind() Kind { return f.kind }

func (f *fakeNotifier) Run(_ context.Context, _ *resolve.Event, group *resolve.ResolvedGroup) error {
	f.runs = append(f.runs, group.Name)
	return f.err
}

func TestSelect(t *testing.T) {
	general := settings.NewGeneral()
	general.CIARPCServer = "http://cia.example/rpc"

	group := settings.NewGroup("dev")
	if kinds := Select(general, group); len(kinds) != 0 {
		t.Fatalf("empty group selected %v", kinds)
	}

	group.ToAddr = []string{"dev@example.org"}
	group.ToNewsgroup = []string{"local.commits"}
	group.CIAProjectName = "herald"
	kinds := Select(general, group)
	want := []Kind{KindMail, KindNews, KindRPC}
	if len(kinds) != len(want) {
		t.Fatalf("selected %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("selected %v, want %v", kinds, want)
		}
	}

	general.CIARPCServer = ""
	for _, kind := range Select(general, group) {
		if kind == KindRPC {
			t.Fatalf("rpc selected without a server configured")
		}
	}
}

func TestDispatchFansOutAndJoinsErrors(t *testing.T) {
	mail := &fakeNotifier{kind: KindMail, err: errors.New("smtp down")}
	news := &fakeNotifier{kind: KindNews}
	d := NewDispatcher(settings.NewGeneral(), logging.NewNop(), mail, news)

	groupA := testGroup("a")
	groupA.Settings.ToAddr = []string{"a@example.org"}
	groupA.Settings.ToNewsgroup = []string{"local.a"}
	groupB := testGroup("b")
	groupB.Settings.ToAddr = []string{"b@example.org"}

	ev := &resolve.Event{Mode: resolve.ModeCommit}
	err := d.Dispatch(context.Background(), ev, []*resolve.ResolvedGroup{groupA, groupB})
	if err == nil {
		t.Fatalf("expected joined delivery errors")
	}
	if !strings.Contains(err.Error(), "group a") || !strings.Contains(err.Error(), "group b") {
		t.Fatalf("error should cover both groups: %v", err)
	}
	// News delivery still ran despite the mail failures.
	if len(news.runs) != 1 || news.runs[0] != "a" {
		t.Fatalf("news runs = %v", news.runs)
	}
	if len(mail.runs) != 2 {
		t.Fatalf("mail runs = %v", mail.runs)
	}
}

func TestDispatchUnregisteredKindIsSkipped(t *testing.T) {
	d := NewDispatcher(settings.NewGeneral(), logging.NewNop())
	group := testGroup("a")
	group.Settings.ToAddr = []string{"a@example.org"}

	ev := &resolve.Event{Mode: resolve.ModeCommit}
	if err := d.Dispatch(context.Background(), ev, []*resolve.ResolvedGroup{group}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func TestDispatchDebugRoutesToStdout(t *testing.T) {
	var out strings.Builder
	mail := &fakeNotifier{kind: KindMail}
	d := NewDispatcher(settings.NewGeneral(), logging.NewNop(), mail, NewStdoutNotifier(&out))
	d.Debug = true

	group := testGroup("dev")
	group.Settings.ToAddr = []string{"dev@example.org"}
	group.Changes = []resolve.PathChange{change("foo/a.c")}

	ev := &resolve.Event{Mode: resolve.ModeCommit}
	if err := d.Dispatch(context.Background(), ev, []*resolve.ResolvedGroup{group}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(mail.runs) != 0 {
		t.Fatalf("debug mode still delivered mail: %v", mail.runs)
	}
	summary := out.String()
	for _, want := range []string{"Group:   dev", "r42 - /foo/a.c", "dev@example.org", "Modify", "foo/a.c"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}
