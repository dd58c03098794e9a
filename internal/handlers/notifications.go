package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/generations"
	"example.com/ai-trip-planner/backend/internal/notifications"
)

type NotificationHandler struct {
	Hub      *notifications.Hub
	Registry *generations.Registry
}

// NewNotificationHandler создает SSE-обработчик событий генерации.
func NewNotificationHandler(hub *notifications.Hub, registry *generations.Registry) *NotificationHandler {
	return &NotificationHandler{Hub: hub, Registry: registry}
}

// Stream открывает SSE-поток одной генерации и закрывает его после итогового события.
func (h *NotificationHandler) Stream(c echo.Context) error {
	generation, ok := lookupGeneration(c, h.Registry)
	if !ok {
		return notFound(c, "generation not found")
	}

	ch, unsubscribe := h.Hub.Subscribe(generation.ID)
	defer unsubscribe()

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return nil
	}

	_ = writeSSE(c, notifications.Event{
		Type: notifications.EventConnected,
		Data: map[string]string{"generation_id": generation.ID.String()},
	})
	flusher.Flush()

	// Генерация могла завершиться до подписки.
	if current, ok := h.Registry.Get(generation.ID); ok && current.Terminal() {
		_ = writeSSE(c, generations.EventFor(current))
		flusher.Flush()
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()

			if event.Type == notifications.EventGenerationCompleted || event.Type == notifications.EventGenerationFailed {
				return nil
			}
		}
	}
}

func writeSSE(c echo.Context, event notifications.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := c.Response().Write([]byte("event: " + event.Type + "\n")); err != nil {
		return err
	}
	if _, err := c.Response().Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}

	return nil
}
