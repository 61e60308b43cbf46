// dragdom checks, replays and serves constrained drags of rotated elements.
//
// Usage:
//
//	dragdom serve                    - HTTP API and websocket drag sessions
//	dragdom check [flags]            - One bounds check from the command line
//	dragdom replay <scenario.yaml>   - Replay scripted drags and check expectations
//	dragdom render <scenario.yaml>   - Replay a scenario and draw the result as PNG
//	dragdom play                     - Drag with the mouse in the terminal
//	dragdom token <subject>          - Mint a bearer token for the server
//
// Global flags:
//
//	--log-level <level>   - debug, info, warn or error
//	--log-format <fmt>    - text, json or logfmt
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	logLevel  string
	logFormat string
}

// logger builds the CLI logger. Output goes to stderr so stdout stays
// clean for results.
func (f *rootFlags) logger() (*slog.Logger, error) {
	return logging.New(os.Stderr, f.logLevel, f.logFormat)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "dragdom",
		Short: "Constrained dragging of rotated elements",
		Long: `dragdom keeps dragged elements inside rotated boundaries.

Available commands:
  serve    - Run the HTTP API and websocket drag sessions
  check    - Evaluate one candidate position against a boundary
  replay   - Replay scripted drags and verify expectations
  render   - Draw the end state of a scenario as PNG
  play     - Drag an element with the mouse in the terminal
  token    - Mint a bearer token for the server

Examples:
  dragdom check --element 50,50 --boundary 100,50,200,100 --candidate 200,50 --constrain
  dragdom replay scenarios/clamp-right.yaml
  dragdom render scenarios/clamp-right.yaml -o clamp.png
  dragdom serve`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (serve defaults to DRAGDOM_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text, json, logfmt (serve defaults to DRAGDOM_LOG_FORMAT)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newReplayCmd(flags))
	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newPlayCmd())
	root.AddCommand(newTokenCmd())
	return root
}
