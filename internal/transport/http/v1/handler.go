// Package v1 provides the HTTP surface of the service.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DahliaNoir71/chatbot-horror-movies/config"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/auth"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/chat"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/ratelimit"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/session"
)

// Handler handles HTTP requests.
type Handler struct {
	chat     *chat.Service
	sessions *session.Manager
	issuer   *auth.Issuer
	limiter  *ratelimit.Limiter
	config   *config.Config
}

// NewHandler creates a new handler.
func NewHandler(chatSvc *chat.Service, sessions *session.Manager, issuer *auth.Issuer, limiter *ratelimit.Limiter, cfg *config.Config) *Handler {
	return &Handler{
		chat:     chatSvc,
		sessions: sessions,
		issuer:   issuer,
		limiter:  limiter,
		config:   cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/auth/token", h.IssueToken)

	e.POST("/v1/chat", h.Chat, h.bearerAuth, h.rateLimit)
	e.POST("/v1/chat/stream", h.ChatStream, h.bearerAuth, h.rateLimit)

	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages, h.bearerAuth)
	e.DELETE("/v1/sessions/:session_id", h.ResetSession, h.bearerAuth)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
