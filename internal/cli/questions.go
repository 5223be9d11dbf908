package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	redisstore "trivia-quiz-service/internal/infra/redis"
)

// NewQuestionsCmd groups question bank maintenance commands.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank",
	}
	cmd.AddCommand(newQuestionsValidateCmd())
	cmd.AddCommand(newQuestionsImportCmd(configPath))
	return cmd
}

func newQuestionsValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a YAML question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := memory.ReadQuestionsFile(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions ok\n", file, len(questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML question bank")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newQuestionsImportCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the postgres question bank with a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return importQuestions(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML question bank")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func importQuestions(ctx context.Context, configPath, file string) error {
	questions, err := memory.ReadQuestionsFile(file)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	var cache bankCache
	if b.redis != nil {
		cache = redisstore.NewQuestionCache(b.redis, nil, 0)
	}
	if err := replaceBank(ctx, postgres.NewQuestionLoader(b.pool), cache, questions); err != nil {
		return err
	}
	log.Info().Str("file", file).Int("questions", len(questions)).Msg("question bank imported")
	return nil
}

type bankStore interface {
	ReplaceQuestions(ctx context.Context, questions []domain.Question) error
}

type bankCache interface {
	Invalidate(ctx context.Context) error
}

// replaceBank stores questions and drops any cached copy of the old bank.
func replaceBank(ctx context.Context, store bankStore, cache bankCache, questions []domain.Question) error {
	if err := store.ReplaceQuestions(ctx, questions); err != nil {
		return err
	}
	if cache == nil {
		return nil
	}
	if err := cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate cached question bank: %w", err)
	}
	return nil
}
