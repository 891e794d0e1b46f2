package api

import (
	"alcyxob/workout-journey/internal/domain"
	"alcyxob/workout-journey/internal/service" // Import service package
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive" // For converting ID string
)

// SessionHandler holds the session service dependency plus the
// configured subject id. The app tracks a single subject, so the
// handlers supply that id on every core call instead of reading it
// from an auth token.
type SessionHandler struct {
	sessionService service.SessionService
	subjectID      string
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, subjectID string) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		subjectID:      subjectID,
	}
}

// --- Request/Response Structs ---

type LogSessionRequest struct {
	Minutes *int       `json:"minutes" binding:"omitempty,min=0"`
	Notes   string     `json:"notes"`
	Date    *time.Time `json:"date"`
}

type LogSessionResponse struct {
	Session    domain.Session        `json:"session"`
	NewUnlocks []domain.RewardUnlock `json:"newUnlocks"`
}

type DeleteSessionResponse struct {
	Message string         `json:"message"`
	Session domain.Session `json:"session"`
}

// --- Handler Methods ---

// LogSession handles POST /api/sessions.
func (h *SessionHandler) LogSession(c *gin.Context) {
	var req LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, newUnlocks, err := h.sessionService.LogSession(c.Request.Context(), h.subjectID, req.Minutes, req.Notes, req.Date)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create session.")
		}
		return
	}

	c.JSON(http.StatusCreated, LogSessionResponse{
		Session:    *session,
		NewUnlocks: newUnlocks,
	})
}

// GetMetrics handles GET /api/sessions. The response carries the whole
// dashboard: sessions and unlocks newest first, the current program
// day, and the trailing-week session count.
func (h *SessionHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.sessionService.GetMetrics(c.Request.Context(), h.subjectID, time.Now())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve dashboard metrics.")
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// Setup handles GET /api/setup: materializes the subject record so the
// client can run against a fresh database.
func (h *SessionHandler) Setup(c *gin.Context) {
	user, err := h.sessionService.SetupSubject(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to set up subject record.")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteSession handles DELETE /api/sessions/:id (administrative
// override; not part of the reward core).
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session id.")
		return
	}

	session, err := h.sessionService.DeleteSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			abortWithError(c, http.StatusNotFound, "Session not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete session.")
		}
		return
	}

	c.JSON(http.StatusOK, DeleteSessionResponse{
		Message: "Session deleted successfully",
		Session: *session,
	})
}
