package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizplanet/quiz-planet/internal/config"
	"github.com/quizplanet/quiz-planet/internal/game"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires base routes (health, metrics) plus the game and
// leaderboard APIs.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, gameHandlers *game.HTTPHandlers, leaderboardHandler http.HandlerFunc, leaderboardWS http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := loggingContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Game endpoints
	if gameHandlers != nil {
		mux.HandleFunc("POST /v1/games", gameHandlers.StartGame)
		mux.HandleFunc("GET /v1/names/availability", gameHandlers.NameAvailability)
		mux.HandleFunc("GET /v1/players/{name}/question", gameHandlers.CurrentQuestion)
		mux.HandleFunc("POST /v1/players/{name}/answers", gameHandlers.SubmitAnswer)
		mux.HandleFunc("GET /v1/players/{name}/score", gameHandlers.PlayerScore)
		mux.HandleFunc("GET /v1/players/{name}/finished", gameHandlers.PlayerFinished)
		mux.HandleFunc("DELETE /v1/players/{name}", gameHandlers.AbandonGame)
		mux.HandleFunc("GET /v1/categories", gameHandlers.Categories)
	}

	if leaderboardHandler != nil {
		mux.HandleFunc("GET /v1/leaderboard", leaderboardHandler)
	}

	if leaderboardWS != nil {
		mux.HandleFunc("/ws/leaderboard", leaderboardWS)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}

func loggingContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

type ctxLoggerKey struct{}
