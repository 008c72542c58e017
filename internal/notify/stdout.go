package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"svnherald/internal/resolve"
)

// StdoutNotifier writes a human-readable delivery summary to a writer. It
// backs dry runs and the explain command.
type StdoutNotifier struct {
	out   io.Writer
	title cases.Caser
}

// NewStdoutNotifier writes summaries to out.
func NewStdoutNotifier(out io.Writer) *StdoutNotifier {
	return &StdoutNotifier{out: out, title: cases.Title(language.English)}
}

func (n *StdoutNotifier) Kind() Kind { return KindStdout }

func (n *StdoutNotifier) Run(ctx context.Context, ev *resolve.Event, group *resolve.ResolvedGroup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, err := Subject(ev, group, "")
	if err != nil {
		return fmt.Errorf("build subject: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Group:   %s\n", group.Name)
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	if to := group.Settings.ToAddr; len(to) > 0 {
		fmt.Fprintf(&b, "To:      %s\n", strings.Join(to, ", "))
	}
	if ng := group.Settings.ToNewsgroup; len(ng) > 0 {
		fmt.Fprintf(&b, "News:    %s\n", strings.Join(ng, ", "))
	}
	for _, ch := range group.Changes {
		fmt.Fprintf(&b, "  %-10s %s\n", n.title.String(string(ch.Kind)), ch.Path)
	}
	for _, ch := range group.Nonmatching {
		fmt.Fprintf(&b, "  %-10s %s (not in group)\n", n.title.String(string(ch.Kind)), ch.Path)
	}

	if _, err := io.WriteString(n.out, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
