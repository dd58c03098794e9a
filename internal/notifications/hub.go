package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventConnected           = "connected"
	EventGenerationCompleted = "generation_completed"
	EventGenerationFailed    = "generation_failed"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub раздает события подписчикам одной генерации.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает на события генерации и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(generationID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[generationID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[generationID] = subs
	}
	subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[generationID]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, generationID)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам генерации и возвращает число доставок.
// Медленный подписчик с заполненным буфером событие пропускает.
func (h *Hub) Publish(generationID uuid.UUID, event Event) int {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[generationID]
	if !ok {
		return 0
	}

	delivered := 0
	for ch := range subs {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers возвращает число активных подписок на генерацию.
func (h *Hub) Subscribers(generationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[generationID])
}
