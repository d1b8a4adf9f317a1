package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "visadesk/internal/jwt_token"
	"visadesk/internal/platform/config"
)

var tokenFlags struct {
	agent string
	ttl   time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an agent",
	Long: `Signs an agent token with VISADESK_JWT_SIGNING_KEY. The agent name becomes
the assigned agent on applications the token's holder creates.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}
		if !cfg.AuthEnabled() {
			return errors.New("VISADESK_JWT_SIGNING_KEY is not set")
		}
		token, err := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer).IssueAgentToken(tokenFlags.agent, tokenFlags.ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenFlags.agent, "agent", "", "Agent name (required)")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("agent")
}
