package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Digital-Shane/caption-tidy/internal/caption"
	"github.com/spf13/cobra"
)

func newCaptionCmd(a *app) *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "caption <filename>...",
		Short: "Render upload captions for filenames",
		Long: fmt.Sprintf(`Parse each filename and render its caption from the configured template.
Captions are separated by a blank line.

Template variables: {%s}`, strings.Join(caption.Variables(), "}, {")),
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		tmpl := a.cfg.CaptionTemplate
		if cmd.Flags().Changed("template") {
			if err := caption.Validate(template); err != nil {
				return err
			}
			tmpl = template
		}

		out := cmd.OutOrStdout()
		var errs []error
		for i, raw := range args {
			res, err := a.pipeline.Parse(raw)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, caption.Render(tmpl, res))
		}
		return errors.Join(errs...)
	})
	cmd.Flags().StringVarP(&template, "template", "t", "", "Caption template (default from config)")
	return cmd
}
