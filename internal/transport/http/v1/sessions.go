package v1

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tripwise/gateway/internal/domain"
)

// StartSessionRequest is the request to create a session.
type StartSessionRequest struct {
	OwnerID string `json:"owner_id"`
}

// StartSession creates a new session.
// POST /start_session
func (h *Handler) StartSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.OwnerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "owner_id is required"})
	}

	session, err := h.gateway.StartSession(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": session.SessionID,
		"owner_id":   session.OwnerID,
	})
}

// SendMessageRequest is the request to send a message to a session.
type SendMessageRequest struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	Message   string `json:"message"`
	PhotoData string `json:"photo_data,omitempty"`
}

// SendMessage runs one conversational turn.
// POST /send_message
func (h *Handler) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	if req.OwnerID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "owner_id is required"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	var image []byte
	if req.PhotoData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.PhotoData)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "photo_data is not valid base64"})
		}
		image = decoded
	}

	envelope, err := h.gateway.SendMessage(ctx, req.SessionID, req.OwnerID, req.Message, image)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	// Handler-boundary failures keep the conversation alive (the
	// apology turn is recorded) but surface as a dependency error.
	if !envelope.Success {
		return c.JSON(http.StatusServiceUnavailable, envelope)
	}
	return c.JSON(http.StatusOK, envelope)
}

// GetSessionTurns returns the session's turn history.
// GET /v1/sessions/:session_id/turns
func (h *Handler) GetSessionTurns(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	turns, err := h.gateway.Turns(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"turns": turns,
	})
}
