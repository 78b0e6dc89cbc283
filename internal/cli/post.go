package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-comment-probe/internal/app"
	"github.com/samvad-hq/samvad-comment-probe/internal/config"
	"github.com/samvad-hq/samvad-comment-probe/internal/probe"
)

var (
	flagPostID int
	flagName   string
	flagEmail  string
	flagBody   string
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a comment",
		Long:  "POST /comments with the configured draft (DRAFT_* variables), optionally overridden by flags.",
		Args:  cobra.NoArgs,
		RunE:  runPost,
	}
	cmd.Flags().IntVar(&flagPostID, "post-id", 0, "postID field")
	cmd.Flags().StringVar(&flagName, "name", "", "name field")
	cmd.Flags().StringVar(&flagEmail, "email", "", "email field")
	cmd.Flags().StringVar(&flagBody, "body", "", "body field")
	return cmd
}

func runPost(cmd *cobra.Command, _ []string) error {
	mutate := func(cfg *config.Config) error {
		applyDraftFlags(cmd, cfg)
		return nil
	}
	return withProbe(cmd, mutate, func(ctx context.Context, p *app.Probe, cfg *config.Config) error {
		return p.Run(ctx, probe.CreateComment{Draft: cfg.Draft()})
	})
}

// applyDraftFlags copies explicitly set flags onto the config draft.
func applyDraftFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("post-id") {
		cfg.DraftPostID = flagPostID
	}
	if flags.Changed("name") {
		cfg.DraftName = flagName
	}
	if flags.Changed("email") {
		cfg.DraftEmail = flagEmail
	}
	if flags.Changed("body") {
		cfg.DraftBody = flagBody
	}
}
