package cmd

import (
	"errors"
	"fmt"

	"github.com/Digital-Shane/caption-tidy/internal/log"
	"github.com/Digital-Shane/caption-tidy/internal/theme"
	"github.com/spf13/cobra"
)

func newNamesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "names",
		Short: "Inspect and edit the series name registry",
	}
	cmd.AddCommand(
		newNamesListCmd(a),
		newNamesAddCmd(a),
		newNamesRemoveCmd(a),
		newNamesHistoryCmd(a),
		newNamesUndoCmd(a),
	)
	return cmd
}

func newNamesListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered series names in first-seen order",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		names := a.registry.Names()
		if len(names) == 0 {
			fmt.Fprintln(out, "No series names registered.")
			return nil
		}
		for i, name := range names {
			fmt.Fprintf(out, "%s %3d  %s\n", a.theme.Icon("name"), i+1, name)
		}
		return nil
	})
	return cmd
}

func newNamesAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Register series names",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		return eachName(cmd, a.theme, args, "learned", a.registry.Add)
	})
	return cmd
}

func newNamesRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>...",
		Aliases: []string{"rm", "del"},
		Short:   "Remove series names, matched case-insensitively",
		Args:    cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		return eachName(cmd, a.theme, args, "removed", a.registry.Remove)
	})
	return cmd
}

// eachName applies fn to every name, reporting each outcome.
func eachName(cmd *cobra.Command, t theme.Theme, names []string, icon string, fn func(string) error) error {
	out := cmd.OutOrStdout()
	var errs []error
	for _, name := range names {
		if err := fn(name); err != nil {
			fmt.Fprintf(out, "%s %s\n", t.Icon("error"), err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", t.Icon(icon), name)
	}
	return errors.Join(errs...)
}

func newNamesHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent registry change sessions",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		summaries, err := log.GetSessionSummaries()
		if err != nil {
			return fmt.Errorf("failed to read journal sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(summaries) == 0 {
			fmt.Fprintln(out, "No registry changes recorded.")
			return nil
		}
		if limit > 0 && len(summaries) > limit {
			summaries = summaries[:limit]
		}
		for _, s := range summaries {
			meta := s.Session.Metadata
			fmt.Fprintf(out, "%s %s - %s (%d changes)\n", s.Icon, commandLine(meta.CommandArgs), s.RelativeTime, meta.TotalOps)
			for _, op := range s.Session.Operations {
				status := a.theme.Icon("success")
				if !op.Success {
					status = a.theme.Icon("error")
				}
				fmt.Fprintf(out, "    %s %-6s %s\n", status, op.Type, op.Name)
			}
		}
		return nil
	})
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to show (0 for all)")
	return cmd
}

func newNamesUndoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Reverse the registry changes of the most recent session",
		Long: `Reverse the registry changes recorded by the most recent session that
changed anything. Learned and added names are removed; removed names are
restored. The undo is itself journaled and can be undone.`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		session, _, err := log.FindLatestSession()
		if err != nil {
			return err
		}

		successful, failed, errs := log.UndoSession(session, a.registry)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Undid %s: %d reverted, %d failed\n",
			a.theme.Icon("success"), commandLine(session.Metadata.CommandArgs), successful, failed)
		return errors.Join(errs...)
	})
	return cmd
}

func commandLine(args []string) string {
	if len(args) == 0 {
		return "unknown"
	}
	line := args[0]
	for _, arg := range args[1:] {
		line += " " + theme.Truncate(arg, 40)
	}
	return line
}
