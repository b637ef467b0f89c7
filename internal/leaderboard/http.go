package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

// SnapshotReader serves the persisted fallback when Redis is empty or down.
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) ([]byte, error)
}

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc       *Service
	snapshots SnapshotReader
	logger    zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, snapshots SnapshotReader, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:       svc,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the current high-score board.
// Route: GET /v1/leaderboard?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx := r.Context()
	var (
		top    []ws.LeaderboardEntry
		source = "redis"
	)

	if h.svc != nil {
		if entries, err := h.svc.Top(ctx, limit); err == nil {
			top = toWSEntries(entries)
		} else {
			h.logger.Warn().Err(err).Msg("redis leaderboard fetch failed")
		}
	}

	if len(top) == 0 {
		source = "snapshot"
		top = h.snapshotFallback(ctx, limit)
	}

	resp := map[string]interface{}{
		"top":         top,
		"source":      source,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, resp)
}

func (h *HTTPHandler) snapshotFallback(ctx context.Context, limit int) []ws.LeaderboardEntry {
	if h.snapshots == nil {
		return nil
	}
	raw, err := h.snapshots.LatestSnapshot(ctx)
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot fetch failed")
		return nil
	}
	if raw == nil {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		h.logger.Warn().Err(err).Msg("snapshot payload decode failed")
		return nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return toWSEntries(entries)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
