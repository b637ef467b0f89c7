package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizplanet/quiz-planet/internal/config"
	"github.com/quizplanet/quiz-planet/internal/db/repository"
	"github.com/quizplanet/quiz-planet/internal/game"
	"github.com/quizplanet/quiz-planet/internal/leaderboard"
	"github.com/quizplanet/quiz-planet/internal/logging"
	"github.com/quizplanet/quiz-planet/internal/question"
	"github.com/quizplanet/quiz-planet/internal/question/external"
	"github.com/quizplanet/quiz-planet/internal/server"
	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	lbBroadcaster  *leaderboard.Broadcaster
	snapshotWorker *leaderboard.SnapshotWorker
	bgCancels      []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN()+" pool_max_conns=10")
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// Question pack pipeline: curated pool first, OpenTDB tops up shortfalls.
	questionCache := question.NewCache(redisClient, cfg.Game.QuestionCacheTTL)
	opentdbClient := external.NewOpenTDBClient(cfg.OpenTDB.BaseURL, &http.Client{Timeout: cfg.OpenTDB.HTTPTimeout})
	questionSvc := question.NewService(questionRepo, questionCache, opentdbClient)

	leaderboardSvc := leaderboard.NewService(redisClient, logger, leaderboard.ServiceOptions{
		TopN:             cfg.Leaderboard.TopN,
		PubSubChannel:    cfg.Leaderboard.PubSubChannel,
		SnapshotTopLimit: cfg.Leaderboard.SnapshotTopN,
	})

	stateMgr := game.NewStateManager(redisClient, cfg.Game.StateTTL, logger)
	gameSvc := game.NewService(stateMgr, questionSvc, leaderboardSvc, resultRepo, cfg.Game.QuestionsPerPlayer, logger)
	gameHandlers := game.NewHTTPHandlers(gameSvc, logger)

	wsHub := ws.NewHub(logger)
	lbBroadcaster := leaderboard.NewBroadcaster(redisClient, wsHub, cfg.Leaderboard.PubSubChannel, logger)
	lbHTTPHandler := leaderboard.NewHTTPHandler(leaderboardSvc, resultRepo, logger)
	lbWSHandler := leaderboard.NewWSHandler(leaderboardSvc, wsHub, logger)

	var snapshotWorker *leaderboard.SnapshotWorker
	if interval := cfg.Leaderboard.SnapshotInterval; interval > 0 {
		snapshotWorker = leaderboard.NewSnapshotWorker(leaderboardSvc, resultRepo, interval, logger)
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, gameHandlers, lbHTTPHandler.HandleGet, lbWSHandler.HandleWebSocket)

	return &Application{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		http:           apiServer,
		lbBroadcaster:  lbBroadcaster,
		snapshotWorker: snapshotWorker,
		bgCancels:      make([]context.CancelFunc, 0, 2),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	if a.lbBroadcaster != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.lbBroadcaster.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("leaderboard broadcaster stopped")
			}
		}()
	}

	if a.snapshotWorker != nil {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func() {
			if err := a.snapshotWorker.Run(bgCtx); err != nil && err != context.Canceled {
				a.logger.Warn().Err(err).Msg("leaderboard snapshot worker stopped")
			}
		}()
	}
}
