package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// NewLeaderboardCmd prints the top entries of the configured score store.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top high scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := fetchLeaderboard(cmd.Context(), *configPath, limit)
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", app.DefaultLeaderboardLimit, "number of entries to print")
	return cmd
}

func fetchLeaderboard(ctx context.Context, configPath string, limit int) ([]domain.LeaderboardEntry, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer b.close()

	store, err := b.scoreStore(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewLeaderboardService(store, cfg.Leaderboard.Limit).FetchTop(ctx, limit)
}

func printLeaderboard(out io.Writer, entries []domain.LeaderboardEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tEMAIL\tHIGH SCORE")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.UserEmail, e.HighScore)
	}
	return w.Flush()
}
