package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sessionapp "tienda/internal/application/session"
	"tienda/internal/application/session/dto"
	"tienda/internal/shared/errors"
	"tienda/internal/shared/logger"
	"tienda/internal/shared/utils"
)

// SessionHandler exposes the session lifecycle operations over HTTP.
type SessionHandler struct {
	service *sessionapp.Service
	logger  logger.Interface
}

func NewSessionHandler(service *sessionapp.Service, logger logger.Interface) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

// CreateSession registers a new session for the authenticated user.
// POST /sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create session", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body"))
		return
	}

	userID := c.GetString("user_id")
	if userID != "" {
		req.UserID = userID
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	// Validate after the fallback fills so header-derived values count
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Session created successfully")
}

// ListSessions returns the authenticated user's sessions.
// GET /sessions?include_inactive=true&current_session_id=sess_xxx
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var req dto.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid query parameters"))
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}
	if req.CurrentSessionID == "" {
		req.CurrentSessionID = c.GetString("session_id")
	}

	sessions, err := h.service.ListUserSessions(c.Request.Context(), userID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"sessions": sessions, "count": len(sessions)})
}

// GetSession returns one session including terminal ones.
// GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("id")

	result, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ValidateSession reports whether a session is currently usable.
// GET /sessions/:id/validate
func (h *SessionHandler) ValidateSession(c *gin.Context) {
	sessionID := c.Param("id")

	result, valid, err := h.service.ValidateSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"valid": valid, "session": result})
}

// UpdateActivity records an activity heartbeat on a session.
// POST /sessions/:id/activity
func (h *SessionHandler) UpdateActivity(c *gin.Context) {
	sessionID := c.Param("id")

	var req dto.UpdateActivityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body"))
			return
		}
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}

	result, err := h.service.UpdateActivity(c.Request.Context(), sessionID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Activity updated", result)
}

// InvalidateSession revokes one session.
// POST /sessions/:id/invalidate
func (h *SessionHandler) InvalidateSession(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body"))
			return
		}
	}

	if err := h.service.InvalidateSession(c.Request.Context(), sessionID, req.Reason); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Session invalidated", nil)
}

// InvalidateAllSessions revokes all of the user's sessions, optionally
// keeping the current one.
// POST /sessions/invalidate_all
func (h *SessionHandler) InvalidateAllSessions(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req struct {
		ExceptSessionID string `json:"except_session_id"`
		Reason          string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body"))
			return
		}
	}

	revoked, err := h.service.InvalidateAllSessions(c.Request.Context(), userID, req.ExceptSessionID, req.Reason)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sessions invalidated", gin.H{"revoked": revoked})
}

// TrustDevice marks a session's device as trusted.
// POST /sessions/:id/trust
func (h *SessionHandler) TrustDevice(c *gin.Context) {
	sessionID := c.Param("id")

	result, err := h.service.TrustDevice(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device trusted", result)
}

// SyncSessions reconciles the user's sessions with the identity provider.
// POST /sessions/sync
func (h *SessionHandler) SyncSessions(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	result, err := h.service.SyncSessions(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Sessions synchronized", result)
}

// CleanupSessions triggers an on-demand cleanup sweep.
// POST /sessions/cleanup
func (h *SessionHandler) CleanupSessions(c *gin.Context) {
	result, err := h.service.CleanupSessions(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Cleanup finished", result)
}

// GetCurrentSession returns the caller's own session.
// GET /me/session
func (h *SessionHandler) GetCurrentSession(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("session required"))
		return
	}

	result, err := h.service.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	result.IsCurrent = true

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetStats returns aggregate session counters.
// GET /sessions/stats
func (h *SessionHandler) GetStats(c *gin.Context) {
	result, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
