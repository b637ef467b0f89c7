package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quiz-planet"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres    Postgres
	Redis       Redis
	Game        Game
	Leaderboard Leaderboard
	OpenTDB     OpenTDB
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// DSN renders the keyword/value connection string understood by both pgx
// and the stdlib driver.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache and state store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Game groups gameplay defaults. Every player answers the same fixed number
// of questions; the session is over once both players exhaust theirs.
type Game struct {
	QuestionsPerPlayer int           `env:"QUESTIONS_PER_PLAYER" envDefault:"20"`
	OptionsPerQuestion int           `env:"OPTIONS_PER_QUESTION" envDefault:"4"`
	StateTTL           time.Duration `env:"GAME_STATE_TTL" envDefault:"2h"`
	QuestionCacheTTL   time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"5m"`
}

// Leaderboard governs snapshotting and broadcast behavior.
type Leaderboard struct {
	TopN             int           `env:"LEADERBOARD_TOP" envDefault:"10"`
	SnapshotInterval time.Duration `env:"LEADERBOARD_SNAPSHOT_INTERVAL" envDefault:"5m"`
	SnapshotTopN     int           `env:"LEADERBOARD_SNAPSHOT_TOP" envDefault:"50"`
	PubSubChannel    string        `env:"LEADERBOARD_PUBSUB_CHANNEL" envDefault:"lb:updates"`
}

// OpenTDB configures the external question fallback provider.
type OpenTDB struct {
	BaseURL     string        `env:"OPENTDB_BASE_URL"`
	HTTPTimeout time.Duration `env:"OPENTDB_HTTP_TIMEOUT" envDefault:"5s"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadPostgres parses only the database section, for tools that migrate or
// inspect the schema without the rest of the stack configured.
func LoadPostgres(ctx context.Context) (*Postgres, error) {
	cfg := &Postgres{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return cfg, nil
}
