package leaderboard

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/quizplanet/quiz-planet/internal/server"
	ws "github.com/quizplanet/quiz-planet/pkg/http/ws"
)

// WSHandler upgrades clients onto the live leaderboard feed.
type WSHandler struct {
	svc    *Service
	hub    *ws.Hub
	logger zerolog.Logger
}

// NewWSHandler constructs the WebSocket handler for leaderboard pushes.
func NewWSHandler(svc *Service, hub *ws.Hub, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		svc:    svc,
		hub:    hub,
		logger: logger.With().Str("component", "leaderboard_ws").Logger(),
	}
}

// HandleWebSocket upgrades the HTTP connection and streams leaderboard updates.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	id := h.hub.Register(wsConn)

	go wsConn.WritePump()

	// Push the current standings so the client renders without waiting for
	// the next update.
	h.sendInitialTop(r, wsConn)

	wsConn.ReadPump(func(msg ws.Message) error {
		if msg.Type == ws.TypePing {
			return wsConn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		}
		return nil
	})

	h.hub.Unregister(id)
}

func (h *WSHandler) sendInitialTop(r *http.Request, conn *ws.Connection) {
	entries, err := h.svc.Top(r.Context(), 0)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to load initial leaderboard")
		return
	}
	if len(entries) == 0 {
		return
	}

	payload, err := json.Marshal(ws.LeaderboardUpdatePayload{Top: toWSEntries(entries)})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to marshal initial leaderboard")
		return
	}
	if err := conn.Send(ws.Message{Type: ws.TypeLeaderboardUpdate, Payload: payload}); err != nil {
		h.logger.Warn().Err(err).Msg("failed to send initial leaderboard")
	}
}
