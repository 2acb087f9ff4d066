package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/referee-assignment/internal/domain"
)

// CreateReferee handles referee registration
func (h *Handler) CreateReferee(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRefereeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	referee, err := h.service.CreateReferee(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    referee,
	})
}

// GetReferee returns a referee by ID
func (h *Handler) GetReferee(w http.ResponseWriter, r *http.Request) {
	refereeID := chi.URLParam(r, "refereeID")
	if refereeID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	referee, err := h.service.GetReferee(r.Context(), refereeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, referee)
}

// DeleteReferee deletes a referee without live assignments
func (h *Handler) DeleteReferee(w http.ResponseWriter, r *http.Request) {
	refereeID := chi.URLParam(r, "refereeID")
	if refereeID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.service.DeleteReferee(r.Context(), refereeID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "deleted"})
}

// GetSchedule returns a referee's upcoming assignments
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	refereeID := chi.URLParam(r, "refereeID")
	if refereeID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	entries, err := h.service.GetSchedule(r.Context(), refereeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, entries)
}

// availabilityRequest carries a full replacement of a referee's windows
type availabilityRequest struct {
	Windows []domain.AvailabilityWindow `json:"windows"`
}

// SetAvailability replaces a referee's availability windows
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	refereeID := chi.URLParam(r, "refereeID")
	if refereeID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.service.SetAvailability(r.Context(), refereeID, req.Windows); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]interface{}{
		"status":  "updated",
		"windows": len(req.Windows),
	})
}

// ListAvailability returns a referee's availability windows
func (h *Handler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	refereeID := chi.URLParam(r, "refereeID")
	if refereeID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	windows, err := h.service.ListAvailability(r.Context(), refereeID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, windows)
}
