package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/caption-tidy/internal/core"
	"github.com/Digital-Shane/caption-tidy/internal/theme"
	"github.com/spf13/cobra"
)

// valueWidth bounds how wide a value column may grow before truncation.
const valueWidth = 60

type parseFlags struct {
	json    bool
	workers int
}

// parseOutput is the JSON shape of one parsed filename.
type parseOutput struct {
	File    string `json:"file"`
	Title   string `json:"title,omitempty"`
	Season  string `json:"season,omitempty"`
	Episode string `json:"episode,omitempty"`
	Quality string `json:"quality,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var f parseFlags
	cmd := &cobra.Command{
		Use:   "parse [filename...]",
		Short: "Derive title, season, episode and quality from filenames",
		Long: `Parse one or more release filenames. With no arguments, filenames are read
from standard input, one per line.

Every successfully parsed title is canonicalized against the registry and
learned when it is new.`,
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		raws, err := filenames(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		workers := f.workers
		if workers <= 0 {
			workers = a.cfg.WorkerCount
		}

		results, err := a.pipeline.ParseBatch(cmd.Context(), raws, workers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f.json {
			err = writeJSON(out, results)
		} else {
			writeResults(out, a.theme, results)
		}
		if err != nil {
			return err
		}
		return batchError(results)
	})
	cmd.Flags().BoolVar(&f.json, "json", false, "Print results as JSON")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Number of filenames parsed in parallel (default from config)")
	return cmd
}

// filenames returns args, or the non-blank lines of in when args is empty.
func filenames(in io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var raws []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			raws = append(raws, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filenames: %w", err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("no filenames given")
	}
	return raws, nil
}

func writeJSON(w io.Writer, results []core.BatchResult) error {
	out := make([]parseOutput, len(results))
	for i, r := range results {
		out[i] = parseOutput{File: r.Raw}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].Title = r.Result.Title
		out[i].Season = r.Result.Season
		out[i].Episode = r.Result.Episode
		out[i].Quality = r.Result.Quality.String()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func writeResults(w io.Writer, t theme.Theme, results []core.BatchResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, t.Heading(theme.Truncate(r.Raw, valueWidth)))
		if r.Err != nil {
			fmt.Fprintf(w, "%s %s\n", t.Badge(false, "FAILED"), r.Err)
			continue
		}
		fmt.Fprint(w, t.KeyValue(resultRows(t, r.Result), valueWidth))
	}
}

func resultRows(t theme.Theme, r core.Result) []theme.Row {
	return []theme.Row{
		{Label: t.Icon("title") + " Title", Value: r.Title},
		{Label: t.Icon("season") + " Season", Value: r.Season},
		{Label: t.Icon("episode") + " Episode", Value: r.Episode},
		{Label: t.Icon("quality") + " Quality", Value: r.Quality.String()},
	}
}

// batchError summarizes failed filenames so the process exits non-zero.
func batchError(results []core.BatchResult) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d filenames could not be parsed", failed, len(results))
}
