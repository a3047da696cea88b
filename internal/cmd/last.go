package cmd

import (
	"fmt"
	"strconv"

	"github.com/Digital-Shane/caption-tidy/internal/core"
	"github.com/Digital-Shane/caption-tidy/internal/theme"
	"github.com/spf13/cobra"
)

func newLastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "last [filename]",
		Short: "Explain how the last parse, or the parse of filename, was derived",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		var (
			trace core.Trace
			ok    bool
		)
		if len(args) == 1 {
			trace, ok = a.traces.Get(args[0])
		} else {
			trace, ok = a.traces.Last()
		}
		if !ok {
			return fmt.Errorf("no parse trace recorded")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, a.theme.Heading(a.theme.Icon("trace")+" "+trace.Raw))
		fmt.Fprint(out, a.theme.KeyValue(traceRows(trace), valueWidth))
		return nil
	})
	return cmd
}

func traceRows(t core.Trace) []theme.Row {
	rows := []theme.Row{
		{Label: "Base", Value: t.Base},
		{Label: "Detection view", Value: t.Detection},
		{Label: "Title view", Value: t.TitleView},
		{Label: "Quality token", Value: orNone(t.QualityToken)},
		{Label: "Quality", Value: withDefaulted(t.Quality, t.QualityDefaulted)},
		{Label: "Episode token", Value: orNone(t.EpisodeToken)},
		{Label: "Strategy", Value: orNone(t.Strategy)},
		{Label: "Season", Value: withDefaulted(strconv.Itoa(t.Season), t.EpisodeDefaulted)},
		{Label: "Episode", Value: withDefaulted(strconv.Itoa(t.Episode), t.EpisodeDefaulted)},
		{Label: "Candidate", Value: candidateValue(t)},
		{Label: "Title", Value: t.Title},
		{Label: "Parsed at", Value: t.At.Format("2006-01-02 15:04:05")},
	}
	if t.Err != "" {
		rows = append(rows, theme.Row{Label: "Error", Value: t.Err})
	}
	return rows
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func withDefaulted(s string, defaulted bool) string {
	if defaulted {
		return s + " (default)"
	}
	return s
}

func candidateValue(t core.Trace) string {
	if t.FromBase {
		return t.Candidate + " (from base name)"
	}
	return t.Candidate
}
