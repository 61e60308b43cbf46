package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/logging"
	"github.com/dragdom/dragdom/internal/playground"
)

func newPlayCmd() *cobra.Command {
	opts := drag.DefaultOptions()
	opts.ConstrainByBounds = true

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drag an element with the mouse in the terminal",
		Long: `Open a full-screen playground with a boundary and a card. Drag the
card with the left mouse button.

Controls:
  c        - Toggle constraining to the boundary
  r        - Reset the card
  [ ]      - Rotate the boundary
  q/Esc    - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("play needs an interactive terminal")
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()

			// Anything logged would scribble over the screen.
			app, err := playground.New(screen, opts, logging.Discard())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&opts.ConstrainByBounds, "constrain", true, "Start with constraining on")
	cmd.Flags().BoolVar(&opts.RequireMouseOverBounds, "require-mouse-over-bounds", false, "Only move while the pointer is inside the boundary")
	return cmd
}
