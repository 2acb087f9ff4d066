package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/referee-assignment/internal/domain"
)

// CreateAssignment assigns a referee to a position on a game
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.service.CreateAssignment(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"assignment":  result.Assignment,
			"game_status": result.GameStatus,
		},
		Warnings: result.Warnings,
	})
}

// GetAssignment returns an assignment by ID
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if assignmentID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	a, err := h.service.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, a)
}

// statusRequest carries a single assignment status transition
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateAssignmentStatus applies a status transition to an assignment
func (h *Handler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if assignmentID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	a, err := h.service.UpdateAssignmentStatus(r.Context(), assignmentID, req.Status)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, a)
}

// RemoveAssignment hard-deletes an assignment
func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")
	if assignmentID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.service.RemoveAssignment(r.Context(), assignmentID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "removed"})
}

// BulkUpdateAssignments applies status changes to many assignments with
// partial-success semantics
func (h *Handler) BulkUpdateAssignments(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.service.BulkUpdateAssignments(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success:  true,
		Data:     result,
		Warnings: result.Warnings,
	})
}

// BulkRemoveAssignments removes many assignments with partial-success
// semantics
func (h *Handler) BulkRemoveAssignments(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	result, err := h.service.BulkRemoveAssignments(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success:  true,
		Data:     result,
		Warnings: result.Warnings,
	})
}
