package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/referee-assignment/internal/domain"
)

// CreateGame handles game creation
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	game, err := h.service.CreateGame(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    game,
	})
}

// ListGames returns all games
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.service.ListGames(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, games)
}

// GetGame returns a game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	game, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, game)
}

// DeleteGame deletes a game without live assignments
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.service.DeleteGame(r.Context(), gameID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "deleted"})
}

// lifecycleRequest carries an externally triggered game transition
type lifecycleRequest struct {
	Action string `json:"action"`
}

// ApplyLifecycle starts, completes, or cancels a game
func (h *Handler) ApplyLifecycle(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	var req lifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	game, err := h.service.ApplyLifecycle(r.Context(), gameID, req.Action)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, game)
}

// ListGamePositions returns a game's positions
func (h *Handler) ListGamePositions(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	positions, err := h.service.ListGamePositions(r.Context(), gameID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, positions)
}

// ListGameAssignments returns all assignments on a game
func (h *Handler) ListGameAssignments(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	assignments, err := h.service.ListGameAssignments(r.Context(), gameID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, assignments)
}
