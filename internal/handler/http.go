package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/referee-assignment/internal/authz"
	"github.com/referee-assignment/internal/domain"
	"github.com/referee-assignment/internal/service"
	"github.com/referee-assignment/internal/wage"
	"github.com/referee-assignment/internal/websocket"
)

// Handler provides HTTP handlers for the assignment API
type Handler struct {
	service *service.Service
	hub     *websocket.Hub
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *service.Service, hub *websocket.Hub, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		logger:  logger,
	}
}

// APIResponse represents a standard API response. Code carries the stable
// reason code on conflicts; Warnings carry non-blocking advisories.
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Code     string      `json:"code,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)
	r.Use(principalMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// WebSocket endpoint
	r.Get("/ws", h.HandleWebSocket)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Post("/", h.CreateGame)
			r.Get("/", h.ListGames)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", h.GetGame)
				r.Delete("/", h.DeleteGame)
				r.Post("/lifecycle", h.ApplyLifecycle)
				r.Get("/positions", h.ListGamePositions)
				r.Get("/assignments", h.ListGameAssignments)
			})
		})

		r.Route("/referees", func(r chi.Router) {
			r.Post("/", h.CreateReferee)

			r.Route("/{refereeID}", func(r chi.Router) {
				r.Get("/", h.GetReferee)
				r.Delete("/", h.DeleteReferee)
				r.Get("/schedule", h.GetSchedule)
				r.Put("/availability", h.SetAvailability)
				r.Get("/availability", h.ListAvailability)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Post("/bulk-update", h.BulkUpdateAssignments)
			r.Post("/bulk-remove", h.BulkRemoveAssignments)

			r.Route("/{assignmentID}", func(r chi.Router) {
				r.Get("/", h.GetAssignment)
				r.Delete("/", h.RemoveAssignment)
				r.Patch("/status", h.UpdateAssignmentStatus)
			})
		})
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID, X-User-ID, X-Org-ID, X-Region-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// principalMiddleware extracts caller identity headers into the request
// context for authorization downstream
func principalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := authz.Principal{
			UserID:   r.Header.Get("X-User-ID"),
			OrgID:    r.Header.Get("X-Org-ID"),
			RegionID: r.Header.Get("X-Region-ID"),
		}
		next.ServeHTTP(w, r.WithContext(authz.WithPrincipal(r.Context(), principal)))
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// writeDomainError maps a service error to its HTTP status. Conflicts and
// invalid transitions carry their stable reason code in the body.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		h.writeError(w, http.StatusBadRequest, err)
	case err == domain.ErrUnauthorized:
		h.writeError(w, http.StatusForbidden, err)
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsConflictError(err):
		h.writeJSON(w, http.StatusConflict, APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    domain.ErrorCode(err),
		})
	case domain.ErrorCode(err) == domain.CodeInvalidTransition:
		h.writeJSON(w, http.StatusConflict, APIResponse{
			Success: false,
			Error:   err.Error(),
			Code:    domain.CodeInvalidTransition,
		})
	case errors.Is(err, domain.ErrLiveAssignments):
		h.writeError(w, http.StatusConflict, err)
	case wage.IsComputationError(err):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}
