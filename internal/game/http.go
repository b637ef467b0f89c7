package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/quizplanet/quiz-planet/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for game operations.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for game endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "game_http").Logger(),
	}
}

// StartGame handles POST /v1/games
func (h *HTTPHandlers) StartGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Name == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "name is required", "name")
		return
	}

	game, err := h.service.StartNewGame(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeUsernameTaken, ErrUsernameTaken.Error())
			return
		}
		h.logger.Error().Err(err).Str("name", req.Name).Msg("failed to start game")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStartFailed, "Failed to start game")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"game_id":        game.GameID.String(),
		"name":           game.Name,
		"question_count": len(game.Questions),
		"started_at":     game.StartedAt,
	})
}

// NameAvailability handles GET /v1/names/availability?name=
func (h *HTTPHandlers) NameAvailability(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "name is required", "name")
		return
	}

	available, err := h.service.CheckUsernameAvailable(r.Context(), name)
	if err != nil {
		h.logger.Error().Err(err).Str("name", name).Msg("failed to check name availability")
		httperrors.RespondInternalError(w, "Failed to check name availability")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      name,
		"available": available,
	})
}

// CurrentQuestion handles GET /v1/players/{name}/question
func (h *HTTPHandlers) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	q, err := h.service.CurrentQuestion(r.Context(), name)
	if err != nil {
		h.respondGameError(w, name, err, "failed to fetch question")
		return
	}

	h.respondJSON(w, http.StatusOK, q)
}

// SubmitAnswer handles POST /v1/players/{name}/answers
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req struct {
		OptionIndex *int `json:"option_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.OptionIndex == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "option_index is required", "option_index")
		return
	}

	result, err := h.service.AnswerQuestion(r.Context(), name, *req.OptionIndex)
	if err != nil {
		if errors.Is(err, ErrInvalidOption) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "option_index out of range", "option_index")
			return
		}
		h.respondGameError(w, name, err, "failed to process answer")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// PlayerScore handles GET /v1/players/{name}/score
func (h *HTTPHandlers) PlayerScore(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	score, err := h.service.Score(r.Context(), name)
	if err != nil {
		h.respondGameError(w, name, err, "failed to fetch score")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":  name,
		"score": score,
	})
}

// PlayerFinished handles GET /v1/players/{name}/finished
func (h *HTTPHandlers) PlayerFinished(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	finished, err := h.service.Finished(r.Context(), name)
	if err != nil {
		h.respondGameError(w, name, err, "failed to fetch completion status")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":     name,
		"finished": finished,
	})
}

// AbandonGame handles DELETE /v1/players/{name}
func (h *HTTPHandlers) AbandonGame(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.service.AbandonGame(r.Context(), name); err != nil {
		h.logger.Error().Err(err).Str("name", name).Msg("failed to abandon game")
		httperrors.RespondInternalError(w, "Failed to abandon game")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      name,
		"abandoned": true,
	})
}

// Categories handles GET /v1/categories
func (h *HTTPHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch categories")
		httperrors.RespondInternalError(w, "Failed to fetch categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

func (h *HTTPHandlers) respondGameError(w http.ResponseWriter, name string, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrGameNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeGameNotFound, "No active game for player")
	case errors.Is(err, ErrGameFinished):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeGameFinished, "Game already finished")
	default:
		h.logger.Error().Err(err).Str("name", name).Msg(logMsg)
		httperrors.RespondInternalError(w, "Internal error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Int("status", status).Msg("failed to encode response")
	}
}
