package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatline/server/internal/domain"
)

// Chat answers a question within an optional existing session.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	answer, sessionID, err := h.service.HandleChat(c.Request().Context(), req.Question, req.SessionID)
	if err != nil {
		return jsonError(c, err)
	}

	return c.JSON(http.StatusOK, domain.ChatResponse{Answer: answer, SessionID: sessionID})
}
