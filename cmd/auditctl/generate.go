package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/bootstrap"
	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/shared/config"
)

func newGenerateCmd(loadConfig func() config.Config) *cobra.Command {
	var (
		provider string
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "generate <audit.json>",
		Short: "Request recommendations for an audit from a generative provider",
		Long:  `Reads an audit context (the "auditData" payload) and prints the validated, enriched and prioritized recommendations.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var auditCtx audit.Context
			if err := readJSON(args[0], &auditCtx); err != nil {
				return err
			}
			cfg := loadConfig()
			svc := &recommendations.Service{
				Clients:         bootstrap.ClientFactory(cfg),
				DefaultProvider: cfg.LLMProvider,
				Retry: recommendations.RetryPolicy{
					MaxRetries:   cfg.MaxRetries,
					InitialDelay: cfg.InitialDelay,
				},
				Timeout: cfg.GenerationTimeout,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			result, err := svc.Generate(ctx, provider, auditCtx)
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			if result.Fallback {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: provider response was not structured; returning a fallback recommendation")
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "anthropic, openai or gemini (defaults to LLM_PROVIDER)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall deadline, 0 for the configured one")
	return cmd
}
