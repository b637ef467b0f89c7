package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Server -> Client
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeError             = "error"

	// Bidirectional
	TypePing = "ping"
	TypePong = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

type LeaderboardUpdatePayload struct {
	Top []LeaderboardEntry `json:"top"`
}

type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Games int    `json:"games"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
