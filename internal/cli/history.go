package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-comment-probe/internal/app"
	"github.com/samvad-hq/samvad-comment-probe/internal/config"
	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print archived exchanges",
		Long:  "Print exchanges kept in the bbolt archive (STORAGE_TYPE=bbolt) as JSON, oldest first.",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, _ []string) error {
	return withProbe(cmd, nil, func(_ context.Context, p *app.Probe, _ *config.Config) error {
		exchanges, err := p.History()
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), exchanges)
	})
}

// printJSON writes exchanges as indented JSON. An empty history prints [].
func printJSON(w io.Writer, exchanges []domain.Exchange) error {
	if exchanges == nil {
		exchanges = []domain.Exchange{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exchanges)
}
