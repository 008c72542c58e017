package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"svnherald/internal/notify"
	"svnherald/internal/resolve"
	"svnherald/internal/settings"
)

func newCommitCommand(ctx *commandContext) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "commit <repository> <revision>",
		Short: "Notify about a committed revision",
		Long: "Notify about a committed revision. The changed paths are read from\n" +
			"stdin, one per line, as \"<action> <path>\" with action A (added),\n" +
			"M or U (modified), D (deleted), C (copied) or P (property change).\n" +
			"Directory paths end with a slash.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := readChanges(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ev := &resolve.Event{
				Repos:    args[0],
				Revision: args[1],
				Author:   author,
				Mode:     resolve.ModeCommit,
				Changes:  changes,
			}
			return deliver(cmd, ctx, ev)
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Revision author")
	return cmd
}

func newPropchangeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propchange <repository> <revision> <author> <propname> [action]",
		Short: "Notify about a revision property change",
		Long: "Notify about a revision property change. The revision's changed\n" +
			"paths are read from stdin in the same \"<action> <path>\" form the\n" +
			"commit command uses; they decide which groups are notified.",
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := readChanges(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ev := &resolve.Event{
				Repos:    args[0],
				Revision: args[1],
				Author:   args[2],
				Propname: args[3],
				Mode:     resolve.ModePropchange,
				Changes:  changes,
			}
			if len(args) == 5 {
				ev.Action = args[4]
			}
			return deliver(cmd, ctx, ev)
		},
	}
	return cmd
}

func newLockCommand(ctx *commandContext) *cobra.Command {
	return newLockStyleCommand(ctx, "lock", resolve.ModeLock, settings.ChangeLock)
}

func newUnlockCommand(ctx *commandContext) *cobra.Command {
	return newLockStyleCommand(ctx, "unlock", resolve.ModeUnlock, settings.ChangeUnlock)
}

func newLockStyleCommand(ctx *commandContext, name string, mode resolve.Mode, kind settings.ChangeKind) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <repository> <author>",
		Short: "Notify about " + name + "ed paths, read from stdin one per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := readPaths(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ev := &resolve.Event{
				Repos:  args[0],
				Author: args[1],
				Mode:   mode,
			}
			for _, p := range paths {
				ev.Changes = append(ev.Changes, resolve.PathChange{Path: p, Kind: kind})
			}
			return deliver(cmd, ctx, ev)
		},
	}
}

func deliver(cmd *cobra.Command, ctx *commandContext, ev *resolve.Event) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	resolver, err := ctx.loadResolver(ev.Repos)
	if err != nil {
		return err
	}

	groups, err := resolver.Resolve(ev)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(resolver.General(), logger,
		notify.NewStdoutNotifier(cmd.OutOrStdout()))
	dispatcher.Debug = cfg.Delivery.Debug
	return dispatcher.Dispatch(cmd.Context(), ev, groups)
}

var changeActions = map[string]settings.ChangeKind{
	"A": settings.ChangeAdd,
	"M": settings.ChangeModify,
	"U": settings.ChangeModify,
	"D": settings.ChangeDelete,
	"C": settings.ChangeCopy,
	"P": settings.ChangePropchange,
}

func readChanges(in io.Reader) ([]resolve.PathChange, error) {
	var changes []resolve.PathChange
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		action, path, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("malformed change line %q (want \"<action> <path>\")", line)
		}
		kind, known := changeActions[strings.ToUpper(action)]
		if !known {
			return nil, fmt.Errorf("unknown change action %q in line %q", action, line)
		}
		changes = append(changes, resolve.PathChange{
			Path: strings.TrimSpace(path),
			Kind: kind,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read changed paths: %w", err)
	}
	return changes, nil
}

func readPaths(in io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return paths, nil
}
