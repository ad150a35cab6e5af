package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/render"
)

func newAnalyzeCmd() *cobra.Command {
	var path, intent string
	var timeout string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis and print the report",
		Long:  "Ask the analysis service for the impact of a change and print the rendered report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(flagFmt); err != nil {
				return err
			}

			d, err := parseTimeout(timeout)
			if err != nil {
				return err
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(logrus.ErrorLevel)

			coord := coordinator.New(newAnalyzer(flagURL, flagKey, d), render.NewView(), log)

			r, err := coord.Trigger(cmd.Context(), path, intent)
			if err != nil {
				return fmt.Errorf("%s failure: %w", coordinator.KindOf(err), err)
			}

			return writeRendering(cmd.OutOrStdout(), r, flagFmt)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Codebase path to analyze")
	cmd.Flags().StringVar(&intent, "intent", "", "Description of the intended change")
	cmd.Flags().StringVar(&flagFmt, "format", "table", "Output format: json|table|html")
	cmd.Flags().StringVar(&timeout, "timeout", "0s", "Analysis request timeout (0 waits indefinitely)")

	return cmd
}

func validateFormat(f string) error {
	switch f {
	case "json", "table", "html":
		return nil
	default:
		return fmt.Errorf("unknown format %q: want json, table or html", f)
	}
}

func writeRendering(w io.Writer, r *render.Rendering, format string) error {
	switch format {
	case "json":
		return formatJSON(w, r)
	case "html":
		_, err := fmt.Fprintln(w, string(r.ListHTML))
		return err
	default:
		return formatImpacts(w, r)
	}
}
