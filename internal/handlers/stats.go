package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/repository"
)

type StatsHandler struct {
	Stats *repository.StatsRepository
	Now   func() time.Time
}

// NewStatsHandler создает обработчик статистики.
func NewStatsHandler(stats *repository.StatsRepository) *StatsHandler {
	return &StatsHandler{Stats: stats, Now: time.Now}
}

type OverviewResponse struct {
	TotalItineraries int     `json:"total_itineraries"`
	UpcomingTrips    int     `json:"upcoming_trips"`
	PastTrips        int     `json:"past_trips"`
	OverBudgetTrips  int     `json:"over_budget_trips"`
	TotalBudget      float64 `json:"total_budget"`
	TotalCost        int64   `json:"total_cost"`
	Remaining        float64 `json:"remaining"`
}

type TimeOfDayResponse struct {
	ItineraryID string          `json:"itinerary_id"`
	Slots       []TimeOfDayItem `json:"slots"`
}

type TimeOfDayItem struct {
	Time       string `json:"time"`
	Activities int    `json:"activities"`
	Cost       int64  `json:"cost"`
}

type MonthlyComparisonResponse struct {
	Months []MonthlyComparisonItem `json:"months"`
}

type MonthlyComparisonItem struct {
	Month  string  `json:"month"`
	Trips  int     `json:"trips"`
	Budget float64 `json:"budget"`
	Cost   int64   `json:"cost"`
}

// Overview возвращает сводную статистику по маршрутам.
func (h *StatsHandler) Overview(c echo.Context) error {
	stats, err := h.Stats.Overview(c.Request().Context(), h.Now())
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalItineraries: stats.TotalItineraries,
		UpcomingTrips:    stats.UpcomingTrips,
		PastTrips:        stats.PastTrips,
		OverBudgetTrips:  stats.OverBudgetTrips,
		TotalBudget:      stats.TotalBudget,
		TotalCost:        stats.TotalCost,
		Remaining:        stats.TotalBudget - float64(stats.TotalCost),
	})
}

// SpendingByTimeOfDay возвращает стоимость маршрута по времени суток.
func (h *StatsHandler) SpendingByTimeOfDay(c echo.Context) error {
	itineraryID := strings.TrimSpace(c.QueryParam("itinerary_id"))
	if itineraryID == "" {
		return badRequest(c, "itinerary_id is required")
	}

	items, err := h.Stats.SpendingByTimeOfDay(c.Request().Context(), itineraryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, msgItineraryNotFound)
		}
		return serverError(c)
	}

	slots := make([]TimeOfDayItem, 0, len(items))
	for _, item := range items {
		slots = append(slots, TimeOfDayItem{
			Time:       item.Time,
			Activities: item.Activities,
			Cost:       item.Cost,
		})
	}

	return c.JSON(http.StatusOK, TimeOfDayResponse{ItineraryID: itineraryID, Slots: slots})
}

// MonthlyComparison возвращает сравнение по месяцам начала поездки.
func (h *StatsHandler) MonthlyComparison(c echo.Context) error {
	months := 6
	if raw := c.QueryParam("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid months")
		}
		if parsed > 24 {
			parsed = 24
		}
		months = parsed
	}

	items, err := h.Stats.MonthlyComparison(c.Request().Context(), months)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid months")
		}
		return serverError(c)
	}

	response := make([]MonthlyComparisonItem, 0, len(items))
	for _, item := range items {
		response = append(response, MonthlyComparisonItem{
			Month:  item.Month.Format("2006-01"),
			Trips:  item.Trips,
			Budget: item.Budget,
			Cost:   item.Cost,
		})
	}

	return c.JSON(http.StatusOK, MonthlyComparisonResponse{Months: response})
}
