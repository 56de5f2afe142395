package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// sessionSummary is the wire form of a session in listings.
type sessionSummary struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// messageView is the wire form of a message.
type messageView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ListSessions lists sessions, most recently updated first.
// GET /sessions?limit=N&offset=M
func (h *Handler) ListSessions(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	sessions, err := h.service.ListSessions(c.Request().Context(), limit, offset)
	if err != nil {
		return jsonError(c, err)
	}

	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary{
			SessionID: s.ID,
			Title:     s.Title,
			CreatedAt: s.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: s.UpdatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetSessionMessages retrieves messages for a session in chronological order.
// GET /sessions/:session_id/messages?limit=N
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := queryInt(c, "limit", 50)

	messages, err := h.service.SessionMessages(c.Request().Context(), sessionID, limit)
	if err != nil {
		return jsonError(c, err)
	}

	out := make([]messageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageView{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteSession removes a session and its messages. Always succeeds,
// regardless of prior existence.
// DELETE /sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	if _, err := h.service.DeleteSession(c.Request().Context(), sessionID); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(c echo.Context, name string, defaultVal int) int {
	if v := c.QueryParam(name); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return defaultVal
}
