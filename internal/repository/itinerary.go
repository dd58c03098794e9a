package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"example.com/ai-trip-planner/backend/internal/catalog"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/storage"
)

// ItinerariesKey является единственным ключом, под которым лежит список маршрутов.
const ItinerariesKey = "itineraries"

const (
	StatusAll      = "all"
	StatusUpcoming = "upcoming"
	StatusPast     = "past"
)

type ItineraryRepository struct {
	store   storage.Store
	samples []models.Itinerary
	mu      sync.Mutex
}

type SearchFilter struct {
	Query  string
	Status string
}

// NewItineraryRepository создает репозиторий маршрутов поверх key-value хранилища.
func NewItineraryRepository(store storage.Store) *ItineraryRepository {
	return &ItineraryRepository{
		store:   store,
		samples: catalog.SampleItineraries(),
	}
}

// ListSaved возвращает сохраненные маршруты в порядке добавления.
func (r *ItineraryRepository) ListSaved(ctx context.Context) ([]models.Itinerary, error) {
	payload, ok, err := r.store.Get(ctx, ItinerariesKey)
	if err != nil {
		return nil, fmt.Errorf("read itineraries: %w", err)
	}
	if !ok || len(payload) == 0 {
		return []models.Itinerary{}, nil
	}

	var itineraries []models.Itinerary
	if err := json.Unmarshal(payload, &itineraries); err != nil {
		return nil, fmt.Errorf("decode itineraries: %w", err)
	}
	if itineraries == nil {
		itineraries = []models.Itinerary{}
	}
	return itineraries, nil
}

// List возвращает сохраненные маршруты, а за ними демонстрационные.
func (r *ItineraryRepository) List(ctx context.Context) ([]models.Itinerary, error) {
	saved, err := r.ListSaved(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Itinerary, 0, len(saved)+len(r.samples))
	out = append(out, saved...)
	for _, sample := range r.samples {
		out = append(out, sample.Clone())
	}
	return out, nil
}

// Append добавляет маршрут в конец списка.
func (r *ItineraryRepository) Append(ctx context.Context, itinerary models.Itinerary) error {
	if strings.TrimSpace(itinerary.ID) == "" {
		return ErrInvalid
	}
	if r.isSample(itinerary.ID) {
		return ErrConflict
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.ListSaved(ctx)
	if err != nil {
		return err
	}

	for _, existing := range saved {
		if existing.ID == itinerary.ID {
			return ErrConflict
		}
	}

	return r.write(ctx, append(saved, itinerary))
}

// GetByID ищет маршрут линейным проходом по сохраненным и демонстрационным.
func (r *ItineraryRepository) GetByID(ctx context.Context, id string) (models.Itinerary, error) {
	all, err := r.List(ctx)
	if err != nil {
		return models.Itinerary{}, err
	}

	for _, itinerary := range all {
		if itinerary.ID == id {
			return itinerary, nil
		}
	}

	return models.Itinerary{}, ErrNotFound
}

// Delete удаляет сохраненный маршрут. Демонстрационные удалить нельзя.
func (r *ItineraryRepository) Delete(ctx context.Context, id string) error {
	if r.isSample(id) {
		return ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved, err := r.ListSaved(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Itinerary, 0, len(saved))
	for _, itinerary := range saved {
		if itinerary.ID != id {
			kept = append(kept, itinerary)
		}
	}

	if len(kept) == len(saved) {
		return ErrNotFound
	}

	return r.write(ctx, kept)
}

// Search фильтрует маршруты по подстроке направления и статусу поездки.
func (r *ItineraryRepository) Search(ctx context.Context, filter SearchFilter, now time.Time) ([]models.Itinerary, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = StatusAll
	}
	if status != StatusAll && status != StatusUpcoming && status != StatusPast {
		return nil, ErrInvalid
	}

	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]models.Itinerary, 0, len(all))
	for _, itinerary := range all {
		if query != "" && !strings.Contains(strings.ToLower(itinerary.Destination), query) {
			continue
		}
		if status != StatusAll && TripStatus(itinerary, now) != status {
			continue
		}
		out = append(out, itinerary)
	}

	return out, nil
}

// IsSample сообщает, является ли маршрут демонстрационным.
func (r *ItineraryRepository) IsSample(id string) bool {
	return r.isSample(id)
}

// TripStatus относит маршрут к предстоящим или прошедшим по дате окончания.
func TripStatus(itinerary models.Itinerary, now time.Time) string {
	end, err := time.Parse(time.RFC3339, itinerary.EndDate)
	if err != nil {
		return StatusUpcoming
	}

	year, month, day := now.UTC().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if end.Before(today) {
		return StatusPast
	}
	return StatusUpcoming
}

func (r *ItineraryRepository) isSample(id string) bool {
	for _, sample := range r.samples {
		if sample.ID == id {
			return true
		}
	}
	return false
}

func (r *ItineraryRepository) write(ctx context.Context, itineraries []models.Itinerary) error {
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return fmt.Errorf("encode itineraries: %w", err)
	}

	if err := r.store.Set(ctx, ItinerariesKey, payload); err != nil {
		return fmt.Errorf("write itineraries: %w", err)
	}
	return nil
}
