package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"svnherald/internal/notify"
	"svnherald/internal/resolve"
	"svnherald/internal/settings"
)

// newExplainCommand builds a dry-run command: it resolves a synthetic event
// and renders which groups would be notified, through which backends, with
// which subject.
func newExplainCommand(ctx *commandContext) *cobra.Command {
	var author string
	var revision string

	cmd := &cobra.Command{
		Use:   "explain <repository> [path...]",
		Short: "Show which groups a change would notify, without delivering",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := ctx.loadResolver(args[0])
			if err != nil {
				return err
			}

			ev := &resolve.Event{
				Repos:    args[0],
				Author:   author,
				Revision: revision,
				Mode:     resolve.ModeCommit,
			}
			for _, p := range args[1:] {
				ev.Changes = append(ev.Changes, resolve.PathChange{
					Path: p, Kind: settings.ChangeModify,
				})
			}

			groups, err := resolver.Resolve(ev)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintf(out, "No group matches (configured groups: %s)\n",
					strings.Join(resolver.GroupNames(), ", "))
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				subject, err := notify.Subject(ev, group, "")
				if err != nil {
					subject = "(error: " + err.Error() + ")"
				}
				kinds := notify.Select(resolver.General(), group.Settings)
				kindNames := make([]string, len(kinds))
				for i, k := range kinds {
					kindNames[i] = string(k)
				}
				rows = append(rows, []string{
					group.Name,
					yesNo(group.Fallback),
					fmt.Sprintf("%d", len(group.Changes)),
					strings.Join(kindNames, ", "),
					strings.Join(group.Settings.ToAddr, ", "),
					subject,
				})
			}

			fmt.Fprintln(out, renderTable(out,
				[]string{"Group", "Fallback", "Paths", "Backends", "To", "Subject"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author for the synthetic event")
	cmd.Flags().StringVar(&revision, "revision", "0", "Revision for the synthetic event")
	return cmd
}
