package handlers

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/go-todo/auth"
	"github.com/taskpulse/go-todo/stream"
	"github.com/valyala/fasthttp"
)

// StreamHandler serves the live-update SSE endpoint. The token travels
// as a query parameter because EventSource cannot set request headers.
type StreamHandler struct {
	db       *sql.DB
	sessions *auth.SessionRegistry
	hub      *stream.Hub
}

func NewStreamHandler(db *sql.DB, sessions *auth.SessionRegistry, hub *stream.Hub) *StreamHandler {
	return &StreamHandler{db: db, sessions: sessions, hub: hub}
}

// Stream godoc
// @Summary Subscribe to live todo updates (SSE)
// @Produce text/event-stream
// @Param token query string true "bearer token"
// @Success 200
// @Router /stream [get]
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing token"})
	}

	// Same validation gate as header-authenticated requests.
	claims, err := h.sessions.Validate(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrNoSession),
			errors.Is(err, auth.ErrSessionExpired):
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("stream validation error: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
		}
	}
	userID := claims.UserID

	// Snapshot before the connection is hijacked; a fresh channel must
	// start from the full collection, not just deltas.
	todos, err := fetchTodos(c.Context(), h.db, userID)
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	client := h.hub.Subscribe(userID)
	notify := c.Context().Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.hub.Unsubscribe(userID, client)

		snapshot, err := stream.NewEvent(stream.EventList, todos)
		if err != nil {
			log.Printf("failed to encode snapshot: %v", err)
			return
		}
		fmt.Fprint(w, stream.FormatSSE(snapshot))
		if err := w.Flush(); err != nil {
			return
		}

		keepAlive := time.NewTicker(15 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case ev := <-client.Events():
				if _, err := fmt.Fprint(w, stream.FormatSSE(ev)); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				fmt.Fprint(w, ":keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-notify:
				return
			}
		}
	}))

	return nil
}
