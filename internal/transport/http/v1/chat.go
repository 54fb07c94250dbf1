package v1

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Chat handles a synchronous exchange.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.E(domain.KindInvalidArgument, "invalid request body"))
	}
	userID, _ := c.Get("user_id").(string)

	result, err := h.chat.Handle(c.Request().Context(), req.SessionID, userID, req.Message)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ChatStream handles a streaming exchange over SSE. Pre-stream failures
// (validation, bad session) still get a proper status code; once the stream
// is open every outcome is delivered as an in-band event.
// POST /v1/chat/stream
func (h *Handler) ChatStream(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, domain.E(domain.KindInvalidArgument, "invalid request body"))
	}
	userID, _ := c.Get("user_id").(string)

	ctx := c.Request().Context()
	events, err := h.chat.HandleStream(ctx, req.SessionID, userID, req.Message)
	if err != nil {
		return writeError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	for ev := range events {
		if err := writeSSE(res, ev); err != nil {
			log.Printf("WARN: client dropped mid-stream: %v", err)
			return nil
		}
		if ev.Terminal() {
			break
		}
	}
	return nil
}

// writeSSE writes one event in SSE framing and flushes it to the client.
func writeSSE(res *echo.Response, ev domain.StreamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
