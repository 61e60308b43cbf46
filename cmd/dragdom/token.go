package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dragdom/dragdom/internal/auth"
	"github.com/dragdom/dragdom/internal/config"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the server",
		Long: `Sign a token for subject with DRAGDOM_JWT_SECRET. Pass it as
"Authorization: Bearer <token>" or, for the websocket, as ?token=.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			lifetime := cfg.TokenTTL
			if ttl > 0 {
				lifetime = ttl
			}

			token, err := auth.NewService(cfg.JWTSecret, lifetime).IssueToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime such as 1h (default DRAGDOM_TOKEN_TTL)")
	return cmd
}
