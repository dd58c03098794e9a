package planner

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"example.com/ai-trip-planner/backend/internal/catalog"
	"example.com/ai-trip-planner/backend/internal/models"
)

const (
	DefaultDelay = 3 * time.Second

	weatherForecast = "Sunny, 72°F"
	reservationNote = "Reservation recommended"

	dayDateLayout = "Monday, January 2, 2006"
	isoLayout     = "2006-01-02T15:04:05.000Z07:00"
)

var placeholderPattern = regexp.MustCompile(`\[(.*?)\]`)

// Generator строит маршрут асинхронно. Реализация с реальным бэкендом
// подставляется сюда же без изменения вызывающего кода.
type Generator interface {
	Generate(ctx context.Context, request models.TripRequest) *Pending
}

type TemplateGenerator struct {
	delay  time.Duration
	newID  func() string
	logger *slog.Logger
}

// NewTemplateGenerator создает генератор на шаблонах с имитацией задержки.
func NewTemplateGenerator(delay time.Duration, logger *slog.Logger) *TemplateGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if delay < 0 {
		delay = 0
	}

	return &TemplateGenerator{
		delay:  delay,
		newID:  NewItineraryID,
		logger: logger,
	}
}

// NewItineraryID возвращает новый идентификатор маршрута.
func NewItineraryID() string {
	return "itin-" + uuid.NewString()
}

// Generate запускает генерацию на копии запроса и сразу возвращает Pending.
// Отменить начатую работу нельзя: контекст вызывающего влияет только на Wait.
func (g *TemplateGenerator) Generate(ctx context.Context, request models.TripRequest) *Pending {
	pending := newPending()
	input := request.Clone()
	id := g.newID()

	g.logger.InfoContext(ctx, "itinerary generation started",
		slog.String("itinerary_id", id),
		slog.String("destination", input.Destination),
	)

	go func() {
		started := time.Now()
		if g.delay > 0 {
			time.Sleep(g.delay)
		}

		itinerary, err := safeBuild(input, id)
		if err != nil {
			g.logger.Error("itinerary generation failed",
				slog.String("itinerary_id", id),
				slog.String("error", err.Error()),
			)
		} else {
			g.logger.Info("itinerary generated",
				slog.String("itinerary_id", id),
				slog.Int("total_days", itinerary.TotalDays),
				slog.Int64("total_cost", itinerary.TotalCost),
				slog.Duration("elapsed", time.Since(started)),
			)
		}
		pending.resolve(itinerary, err)
	}()

	return pending
}

func safeBuild(request models.TripRequest, id string) (itinerary models.Itinerary, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			itinerary = models.Itinerary{}
			err = fmt.Errorf("%w: %v", ErrGenerationFailed, recovered)
		}
	}()

	return Build(request, id), nil
}

// Build строит маршрут синхронно и детерминированно.
// Запрос должен пройти ValidateTrip: без выбранных предпочтений функция паникует.
func Build(request models.TripRequest, id string) models.Itinerary {
	start := calendarDate(request.StartDate)
	end := calendarDate(request.EndDate)
	totalDays := TotalDays(start, end)

	profile, _ := catalog.Lookup(request.Destination)
	selected := request.SelectedPreferences()

	days := make([]models.ItineraryDay, 0, max(totalDays, 0))
	var totalCost int64

	for i := 0; i < totalDays; i++ {
		dayActivities := make([]models.Activity, 0, slotCount)
		for s := slotMorning; s < slotCount; s++ {
			rule := slotRules[s]
			category := ParseCategory(selected[(i+rule.offset)%len(selected)])
			tmpl := rule.template(category, s)
			value := rule.vocabulary(category)(profile, i)

			activity := models.Activity{
				Time:     rule.time,
				Activity: placeholderPattern.ReplaceAllLiteralString(tmpl.Activity, value),
				Location: rule.location(category, profile, i),
				Cost:     tmpl.Cost * int64(request.Travelers),
			}
			if i == 0 && s == slotMorning {
				activity.WeatherForecast = weatherForecast
			}
			if i == 0 && s == slotEvening {
				activity.Notes = reservationNote
			}

			totalCost += activity.Cost
			dayActivities = append(dayActivities, activity)
		}

		days = append(days, models.ItineraryDay{
			Day:        i + 1,
			Date:       start.AddDate(0, 0, i).Format(dayDateLayout),
			Activities: dayActivities,
		})
	}

	return models.Itinerary{
		ID:          id,
		Destination: request.Destination,
		StartDate:   start.Format(isoLayout),
		EndDate:     end.Format(isoLayout),
		TotalDays:   totalDays,
		Budget:      request.Budget,
		Travelers:   request.Travelers,
		TotalCost:   totalCost,
		Days:        days,
	}
}

// TotalDays возвращает число дней поездки включительно.
func TotalDays(start, end time.Time) int {
	days := (calendarDate(end).Unix() - calendarDate(start).Unix()) / secondsPerDay
	return int(days) + 1
}

const secondsPerDay = 24 * 60 * 60

func calendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
