package generations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/planner"
)

// DefaultRetention задает, сколько хранится завершенная генерация.
const DefaultRetention = time.Hour

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Generation содержит снимок состояния фоновой генерации.
type Generation struct {
	ID          uuid.UUID
	Status      Status
	Destination string
	ItineraryID string
	Error       string
	CreatedAt   time.Time
	FinishedAt  time.Time
}

// Terminal сообщает, завершилась ли генерация.
func (g Generation) Terminal() bool {
	return g.Status == StatusCompleted || g.Status == StatusFailed
}

// Saver сохраняет готовый маршрут.
type Saver interface {
	Append(ctx context.Context, itinerary models.Itinerary) error
}

type Registry struct {
	generator planner.Generator
	saver     Saver
	hub       *notifications.Hub
	logger    *slog.Logger
	timeout   time.Duration
	retention time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	items map[uuid.UUID]*Generation
	wg    sync.WaitGroup
}

// NewRegistry создает реестр фоновых генераций.
func NewRegistry(generator planner.Generator, saver Saver, hub *notifications.Hub, logger *slog.Logger, timeout time.Duration) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		generator: generator,
		saver:     saver,
		hub:       hub,
		logger:    logger,
		timeout:   timeout,
		retention: DefaultRetention,
		now:       time.Now,
		items:     make(map[uuid.UUID]*Generation),
	}
}

// SetRetention меняет срок хранения завершенных генераций.
func (r *Registry) SetRetention(retention time.Duration) {
	r.mu.Lock()
	r.retention = retention
	r.mu.Unlock()
}

// Start запускает генерацию, не дожидаясь результата.
// Запрос должен быть уже проверен planner.ValidateTrip.
func (r *Registry) Start(ctx context.Context, request models.TripRequest) Generation {
	generation := &Generation{
		ID:          uuid.New(),
		Status:      StatusPending,
		Destination: request.Destination,
		CreatedAt:   r.now().UTC(),
	}

	r.mu.Lock()
	r.pruneLocked(generation.CreatedAt)
	r.items[generation.ID] = generation
	snapshot := *generation
	r.mu.Unlock()

	pending := r.generator.Generate(ctx, request)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.complete(generation.ID, pending)
	}()

	return snapshot
}

// Get возвращает состояние генерации.
func (r *Registry) Get(id uuid.UUID) (Generation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	generation, ok := r.items[id]
	if !ok {
		return Generation{}, false
	}
	return *generation, true
}

// Prune удаляет завершенные генерации старше срока хранения и возвращает их число.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pruneLocked(r.now().UTC())
}

func (r *Registry) pruneLocked(now time.Time) int {
	removed := 0
	for id, generation := range r.items {
		if generation.Terminal() && now.Sub(generation.FinishedAt) > r.retention {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// Wait блокируется до завершения всех запущенных генераций.
func (r *Registry) Wait() {
	r.wg.Wait()
}

func (r *Registry) complete(id uuid.UUID, pending *planner.Pending) {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	itinerary, err := pending.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = planner.ErrGenerationTimeout
	}
	if err == nil {
		if saveErr := r.saver.Append(context.Background(), itinerary); saveErr != nil {
			err = fmt.Errorf("save itinerary: %w", saveErr)
		}
	}

	r.mu.Lock()
	generation := r.items[id]
	generation.FinishedAt = r.now().UTC()
	if err != nil {
		generation.Status = StatusFailed
		generation.Error = planner.ErrGenerationFailed.Error()
	} else {
		generation.Status = StatusCompleted
		generation.ItineraryID = itinerary.ID
	}
	snapshot := *generation
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("background generation failed",
			slog.String("generation_id", id.String()),
			slog.String("error", err.Error()),
		)
	} else {
		r.logger.Info("background generation completed",
			slog.String("generation_id", id.String()),
			slog.String("itinerary_id", itinerary.ID),
		)
	}

	if r.hub != nil {
		r.hub.Publish(id, EventFor(snapshot))
	}
}

// EventFor строит SSE-событие для завершенной генерации.
func EventFor(generation Generation) notifications.Event {
	data := map[string]interface{}{
		"generation_id": generation.ID.String(),
		"status":        string(generation.Status),
	}

	if generation.Status == StatusFailed {
		data["error"] = generation.Error
		return notifications.Event{Type: notifications.EventGenerationFailed, Data: data}
	}

	data["itinerary_id"] = generation.ItineraryID
	return notifications.Event{Type: notifications.EventGenerationCompleted, Data: data}
}
