package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/scenario"
)

var errExpectations = errors.New("expectations failed")

func newReplayCmd(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay scripted drags",
		Long: `Replay each scenario through a drag session and check the
expectations written next to its steps. Exits non-zero when any
expectation fails.

Examples:
  dragdom replay internal/scenario/testdata/*.yaml
  dragdom replay clamp.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			var reports []scenario.Report

			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				report, err := scenario.Run(cmd.Context(), sc, logger)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if !report.Passed() {
					failed++
				}
				if report.Name == "" {
					report.Name = path
				}
				reports = append(reports, report)
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printReport(out, r)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w in %d of %d scenarios", errExpectations, failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reports as JSON")
	return cmd
}

func printReport(w io.Writer, r scenario.Report) {
	lines := []string{styleTitle.Render(r.Name)}
	for _, st := range r.Steps {
		mark := styleOK.Render("ok  ")
		if len(st.Failures) > 0 {
			mark = styleFail.Render("FAIL")
		}

		var kinds []string
		for _, ev := range st.Outcome.Events {
			kinds = append(kinds, string(ev.Kind))
		}
		lines = append(lines, fmt.Sprintf("%s %2d %-8s %v", mark, st.Index, st.Action, kinds))
		for _, f := range st.Failures {
			lines = append(lines, styleFail.Render("        "+f))
		}
	}
	if r.LastBounds != nil {
		lines = append(lines, row("last edges", fmt.Sprint(crossedEdges(r.LastBounds))))
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}
