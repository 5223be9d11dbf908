package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/mongo"
	"trivia-quiz-service/internal/infra/postgres"
	redisstore "trivia-quiz-service/internal/infra/redis"
)

// backends holds the connections opened for the configured stores.
type backends struct {
	cfg   config.Config
	redis *redis.Client
	pool  *pgxpool.Pool
	db    *bun.DB
	mongo *mongodriver.Client
}

func needs(cfg config.Config, backend string) bool {
	return cfg.Auth.Backend == backend || cfg.Leaderboard.Backend == backend || cfg.Sessions.Backend == backend
}

// openBackends connects to every store the config refers to. Postgres is also
// opened when it only serves the question bank.
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	// Checked before dialing anything so a bad config leaves nothing open.
	if err := checkBackends(cfg); err != nil {
		return nil, err
	}
	b := &backends{cfg: cfg}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.redis.Ping(ctx).Err(); err != nil {
			b.close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	if cfg.Postgres.URL != "" {
		b.db = postgres.OpenDB(cfg.Postgres.URL)
		if err := postgres.Migrate(ctx, b.db); err != nil {
			b.close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		b.pool = pool
	}

	if cfg.Mongo.URI != "" {
		client, err := mongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			b.close()
			return nil, err
		}
		b.mongo = client
	}
	return b, nil
}

func checkBackends(cfg config.Config) error {
	switch {
	case cfg.Redis.Addr == "" && needs(cfg, config.BackendRedis):
		return fmt.Errorf("redis backend selected but redis.addr is empty")
	case cfg.Postgres.URL == "" && needs(cfg, config.BackendPostgres):
		return fmt.Errorf("postgres backend selected but postgres.url is empty")
	case cfg.Mongo.URI == "" && needs(cfg, config.BackendMongo):
		return fmt.Errorf("mongo backend selected but mongo.uri is empty")
	}
	return nil
}

func (b *backends) close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
	if b.mongo != nil {
		mongo.Disconnect(b.mongo)
	}
}

func (b *backends) mongoDB() *mongodriver.Database {
	return b.mongo.Database(b.cfg.Mongo.Database)
}

func (b *backends) identityGateway() (app.IdentityGateway, error) {
	switch b.cfg.Auth.Backend {
	case config.BackendMemory:
		log.Warn().Msg("accounts are kept in memory and vanish on restart")
		return memory.NewIdentityGateway(), nil
	case config.BackendPostgres:
		return postgres.NewIdentityGateway(b.db), nil
	case config.BackendMongo:
		return mongo.NewIdentityGateway(b.mongoDB()), nil
	}
	return nil, fmt.Errorf("unsupported auth backend %q", b.cfg.Auth.Backend)
}

func (b *backends) scoreStore(ctx context.Context) (app.ScoreStore, error) {
	switch b.cfg.Leaderboard.Backend {
	case config.BackendMemory:
		return memory.NewScoreStore(), nil
	case config.BackendRedis:
		return redisstore.NewScoreStore(b.redis), nil
	case config.BackendPostgres:
		return postgres.NewScoreStore(b.db), nil
	case config.BackendMongo:
		store := mongo.NewScoreStore(b.mongoDB())
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported leaderboard backend %q", b.cfg.Leaderboard.Backend)
}

func (b *backends) sessionRepository() (app.SessionRepository, error) {
	switch b.cfg.Sessions.Backend {
	case config.BackendMemory:
		return memory.NewSessionStore(), nil
	case config.BackendRedis:
		return redisstore.NewSessionStore(b.redis, config.TTLDuration(b.cfg.Redis.TTL, 10*time.Minute)), nil
	}
	return nil, fmt.Errorf("unsupported sessions backend %q", b.cfg.Sessions.Backend)
}

// questionSource prefers an explicit YAML file, then postgres (cached in redis
// when available), then the built-in bank.
func (b *backends) questionSource() app.QuestionSource {
	if b.cfg.Quiz.QuestionsFile != "" {
		return memory.NewFileQuestionSource(b.cfg.Quiz.QuestionsFile)
	}
	if b.pool == nil {
		return memory.DefaultQuestionSource()
	}
	var source app.QuestionSource = postgres.NewQuestionLoader(b.pool)
	if b.redis != nil {
		source = redisstore.NewQuestionCache(b.redis, source, config.TTLDuration(b.cfg.Quiz.CacheTTL, 10*time.Minute))
	}
	return source
}

// quizService assembles the use cases over the configured stores.
func (b *backends) quizService(ctx context.Context) (*app.QuizService, error) {
	gateway, err := b.identityGateway()
	if err != nil {
		return nil, err
	}
	scores, err := b.scoreStore(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := b.sessionRepository()
	if err != nil {
		return nil, err
	}
	service := app.NewQuizService(
		sessions,
		b.questionSource(),
		app.NewAuthService(gateway, b.cfg.Auth.VerifyPassword),
		app.NewLeaderboardService(scores, b.cfg.Leaderboard.Limit),
	)
	return service, nil
}
