package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/scenario"
	"github.com/dragdom/dragdom/internal/scene"
	"github.com/dragdom/dragdom/internal/snapshot"
)

func newRenderCmd(root *rootFlags) *cobra.Command {
	var (
		output string
		opts   snapshot.Options
	)

	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Draw the end state of a scenario as PNG",
		Long: `Replay a scenario and draw its boundary and element as they stand
after the last step. Corners outside the boundary are red; the constrained
position from the last edge check is drawn dashed.

Examples:
  dragdom render clamp.yaml -o clamp.png
  dragdom render clamp.yaml -o clamp.png --width 1024 --height 768`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			report, err := scenario.Run(cmd.Context(), sc, logger)
			if err != nil {
				return err
			}

			final, err := scene.New(report.Final.Nodes...)
			if err != nil {
				return err
			}
			frame, err := final.Frame(sc.Element, sc.Boundary)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := snapshot.Render(f, frame, report.LastBounds, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			logger.Info("wrote snapshot", "path", output, "scenario", report.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "dragdom.png", "Output PNG path")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Canvas width in pixels (default 640)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Canvas height in pixels (default 480)")
	cmd.Flags().StringVar(&opts.Background, "background", "", "Background color as hex (default #ffffff)")
	return cmd
}
