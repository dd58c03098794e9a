package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatsOverview проверяет сводку по демонстрационным маршрутам.
func TestStatsOverview(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)

	rec := app.do(http.MethodGet, "/stats/overview", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response OverviewResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, OverviewResponse{
		TotalItineraries: 2,
		PastTrips:        2,
		TotalBudget:      5000,
		TotalCost:        4050,
		Remaining:        950,
	}, response)
}

// TestStatsTimeOfDay проверяет разбивку по времени суток.
func TestStatsTimeOfDay(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)

	rec := app.do(http.MethodGet, "/stats/time-of-day?itinerary_id=itin-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response TimeOfDayResponse
	decodeJSON(t, rec, &response)
	require.Len(t, response.Slots, 3)
	assert.Equal(t, TimeOfDayItem{Time: "7:00 PM", Activities: 2, Cost: 210}, response.Slots[2])

	rec = app.do(http.MethodGet, "/stats/time-of-day", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/stats/time-of-day?itinerary_id=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestStatsMonthlyComparison проверяет сравнение по месяцам.
func TestStatsMonthlyComparison(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)

	rec := app.do(http.MethodGet, "/stats/monthly-comparison?months=12", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response MonthlyComparisonResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, []MonthlyComparisonItem{
		{Month: "2025-07", Trips: 1, Budget: 3000, Cost: 2400},
		{Month: "2025-06", Trips: 1, Budget: 2000, Cost: 1650},
	}, response.Months)

	rec = app.do(http.MethodGet, "/stats/monthly-comparison?months=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
