package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/planner"
	"example.com/ai-trip-planner/backend/internal/repository"
)

const (
	dateLayout       = "2006-01-02"
	defaultTravelers = 1
	maxTripDays      = 365

	msgItineraryNotFound = "itinerary not found"
)

var (
	errInvalidPayload   = errors.New("invalid payload")
	errValidationFailed = errors.New("validation failed")
	errInvalidStartDate = errors.New("invalid start_date format")
	errInvalidEndDate   = errors.New("invalid end_date format")
	errTripTooLong      = fmt.Errorf("trip must not exceed %d days", maxTripDays)
)

type ItineraryHandler struct {
	Itineraries *repository.ItineraryRepository
	Generator   planner.Generator
	WaitTimeout time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewItineraryHandler создает обработчик маршрутов.
func NewItineraryHandler(itineraries *repository.ItineraryRepository, generator planner.Generator, waitTimeout time.Duration, logger *slog.Logger) *ItineraryHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ItineraryHandler{
		Itineraries: itineraries,
		Generator:   generator,
		WaitTimeout: waitTimeout,
		Logger:      logger,
		Now:         time.Now,
	}
}

type TripRequestBody struct {
	Destination string              `json:"destination" validate:"max=200"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Budget      float64             `json:"budget" validate:"gte=0"`
	Travelers   int                 `json:"travelers" validate:"gte=0,lte=100"`
	Preferences []models.Preference `json:"preferences"`
}

type BudgetUtilization struct {
	UtilizationPercent float64 `json:"utilization_percent"`
	OverBudget         bool    `json:"over_budget"`
	BudgetDifference   float64 `json:"budget_difference"`
}

type ItineraryResponse struct {
	models.Itinerary
	BudgetUtilization
	Status   string `json:"status"`
	IsSample bool   `json:"is_sample"`
}

type ItinerarySummary struct {
	ID          string  `json:"id"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalDays   int     `json:"total_days"`
	Budget      float64 `json:"budget"`
	Travelers   int     `json:"travelers"`
	TotalCost   int64   `json:"total_cost"`
	Status      string  `json:"status"`
	IsSample    bool    `json:"is_sample"`
}

// Create проверяет запрос, генерирует маршрут, ждет результат и сохраняет его.
func (h *ItineraryHandler) Create(c echo.Context) error {
	request, err := bindTripRequest(c)
	if err != nil {
		h.Logger.DebugContext(c.Request().Context(), "trip request rejected", slog.String("error", err.Error()))
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	if h.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.WaitTimeout)
		defer cancel()
	}

	itinerary, err := h.Generator.Generate(ctx, request).Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = planner.ErrGenerationTimeout
		}
		h.Logger.ErrorContext(c.Request().Context(), "itinerary generation failed",
			slog.String("destination", request.Destination),
			slog.String("error", err.Error()),
		)
		return generationFailed(c)
	}

	if err := h.Itineraries.Append(c.Request().Context(), itinerary); err != nil {
		h.Logger.ErrorContext(c.Request().Context(), "failed to save itinerary",
			slog.String("itinerary_id", itinerary.ID),
			slog.String("error", err.Error()),
		)
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, h.toItineraryResponse(itinerary))
}

// List возвращает сохраненные и демонстрационные маршруты с фильтрами q и status.
func (h *ItineraryHandler) List(c echo.Context) error {
	filter := repository.SearchFilter{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	}

	itineraries, err := h.Itineraries.Search(c.Request().Context(), filter, h.Now())
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid status")
		}
		return serverError(c)
	}

	response := make([]ItinerarySummary, 0, len(itineraries))
	for _, itinerary := range itineraries {
		response = append(response, h.toItinerarySummary(itinerary))
	}

	return c.JSON(http.StatusOK, map[string][]ItinerarySummary{"itineraries": response})
}

// Get возвращает маршрут с расчетом использования бюджета.
func (h *ItineraryHandler) Get(c echo.Context) error {
	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, msgItineraryNotFound)
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, h.toItineraryResponse(itinerary))
}

// Delete удаляет сохраненный маршрут.
func (h *ItineraryHandler) Delete(c echo.Context) error {
	err := h.Itineraries.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReadOnly):
			return forbidden(c, "sample itineraries cannot be deleted")
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, msgItineraryNotFound)
		default:
			return serverError(c)
		}
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ItineraryHandler) toItineraryResponse(itinerary models.Itinerary) ItineraryResponse {
	if itinerary.Days == nil {
		itinerary.Days = []models.ItineraryDay{}
	}

	return ItineraryResponse{
		Itinerary:         itinerary,
		BudgetUtilization: budgetUtilization(itinerary.Budget, itinerary.TotalCost),
		Status:            repository.TripStatus(itinerary, h.Now()),
		IsSample:          h.Itineraries.IsSample(itinerary.ID),
	}
}

func (h *ItineraryHandler) toItinerarySummary(itinerary models.Itinerary) ItinerarySummary {
	return ItinerarySummary{
		ID:          itinerary.ID,
		Destination: itinerary.Destination,
		StartDate:   itinerary.StartDate,
		EndDate:     itinerary.EndDate,
		TotalDays:   itinerary.TotalDays,
		Budget:      itinerary.Budget,
		Travelers:   itinerary.Travelers,
		TotalCost:   itinerary.TotalCost,
		Status:      repository.TripStatus(itinerary, h.Now()),
		IsSample:    h.Itineraries.IsSample(itinerary.ID),
	}
}

// bindTripRequest разбирает тело запроса и проверяет предусловия генерации.
func bindTripRequest(c echo.Context) (models.TripRequest, error) {
	var req TripRequestBody
	if err := c.Bind(&req); err != nil {
		return models.TripRequest{}, errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return models.TripRequest{}, errValidationFailed
	}

	request, err := req.toTripRequest()
	if err != nil {
		return models.TripRequest{}, err
	}

	if err := planner.ValidateTrip(request); err != nil {
		return models.TripRequest{}, err
	}
	if planner.TotalDays(request.StartDate, request.EndDate) > maxTripDays {
		return models.TripRequest{}, errTripTooLong
	}

	return request, nil
}

func (b TripRequestBody) toTripRequest() (models.TripRequest, error) {
	startDate, err := parseTripDate(b.StartDate)
	if err != nil {
		return models.TripRequest{}, errInvalidStartDate
	}

	endDate, err := parseTripDate(b.EndDate)
	if err != nil {
		return models.TripRequest{}, errInvalidEndDate
	}

	travelers := b.Travelers
	if travelers == 0 {
		travelers = defaultTravelers
	}

	return models.TripRequest{
		Destination: strings.TrimSpace(b.Destination),
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      b.Budget,
		Travelers:   travelers,
		Preferences: b.Preferences,
	}, nil
}

// parseTripDate принимает YYYY-MM-DD или RFC3339. Пустая строка дает нулевое время.
func parseTripDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}

	if parsed, err := time.Parse(dateLayout, trimmed); err == nil {
		return parsed, nil
	}

	return time.Parse(time.RFC3339, trimmed)
}

func budgetUtilization(budget float64, totalCost int64) BudgetUtilization {
	cost := float64(totalCost)

	var percent float64
	if budget > 0 {
		percent = math.Round(cost/budget*10000) / 100
	}

	return BudgetUtilization{
		UtilizationPercent: percent,
		OverBudget:         cost > budget,
		BudgetDifference:   math.Abs(budget - cost),
	}
}
