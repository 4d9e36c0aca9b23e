package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fleetflow/support-engine/internal/events"
)

// streamBuffer bounds the per-client event queue. A client that cannot
// keep up loses events rather than backing up the publisher.
const streamBuffer = 64

const keepAliveInterval = 15 * time.Second

// EventsHandler streams domain events to clients over server-sent events.
type EventsHandler struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEventsHandler constructs handler.
func NewEventsHandler(dispatcher events.Dispatcher, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{dispatcher: dispatcher, logger: logger}
}

// Stream GET /support/events. Each event goes out as an SSE frame with
// the domain event type as the SSE event name and the full event as the
// data payload.
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	queue := make(chan events.Event, streamBuffer)
	sub := h.dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		select {
		case queue <- event:
		default:
			// slow client; drop rather than block the publisher
		}
		return nil
	})

	logger := h.logger
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Cancel()

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event := <-queue:
				payload, err := json.Marshal(event)
				if err != nil {
					logger.Error("marshal stream event", zap.Error(err))
					continue
				}
				if _, err := w.WriteString("event: " + string(event.Type) + "\ndata: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				// comment frame; flush failure means the client is gone
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
