package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-comment-probe/internal/app"
	"github.com/samvad-hq/samvad-comment-probe/internal/config"
	"github.com/samvad-hq/samvad-comment-probe/internal/probe"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Fetch a single comment",
		Long:  "Fetch GET /comments/{id} (default COMMENT_ID) and log the parsed response.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	mutate := func(cfg *config.Config) error {
		if len(args) == 0 {
			return nil
		}
		id, err := parseCommentID(args[0])
		if err != nil {
			return err
		}
		cfg.CommentID = id
		return nil
	}

	return withProbe(cmd, mutate, func(ctx context.Context, p *app.Probe, cfg *config.Config) error {
		return p.Run(ctx, probe.GetComment{ID: cfg.CommentID})
	})
}

func parseCommentID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid comment ID: %s", raw)
	}
	return id, nil
}
