package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-comment-probe/internal/app"
	"github.com/samvad-hq/samvad-comment-probe/internal/config"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Issue the GET and the POST together",
		Long:  "Issue GET /comments/{id} and POST /comments without waiting on each other, logging each parsed response.",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}
}

func runAll(cmd *cobra.Command, _ []string) error {
	return withProbe(cmd, nil, func(ctx context.Context, p *app.Probe, cfg *config.Config) error {
		return p.Run(ctx, app.DefaultOperations(cfg)...)
	})
}
