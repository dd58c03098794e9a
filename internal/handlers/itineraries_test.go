package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/planner"
)

// TestCreateItinerary проверяет генерацию, сохранение и ответ 201.
func TestCreateItinerary(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(0, discardLogger()), time.Second)

	rec := app.do(http.MethodPost, "/itineraries", parisBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response ItineraryResponse
	decodeJSON(t, rec, &response)

	assert.Contains(t, response.ID, "itin-")
	assert.Equal(t, "Paris", response.Destination)
	assert.Equal(t, "2025-06-15T00:00:00.000Z", response.StartDate)
	assert.Equal(t, 2, response.TotalDays)
	assert.Equal(t, int64(320), response.TotalCost)
	assert.Equal(t, 16.0, response.UtilizationPercent)
	assert.False(t, response.OverBudget)
	assert.Equal(t, 1680.0, response.BudgetDifference)
	assert.False(t, response.IsSample)
	require.Len(t, response.Days, 2)
	assert.Equal(t, "Visit Eiffel Tower", response.Days[0].Activities[0].Activity)
	assert.Equal(t, "Sunny, 72°F", response.Days[0].Activities[0].WeatherForecast)

	saved, err := app.itineraries.GetByID(context.Background(), response.ID)
	require.NoError(t, err)
	assert.Equal(t, response.Itinerary, saved)
}

// TestCreateItineraryDefaultsTravelers проверяет одного путешественника по умолчанию.
func TestCreateItineraryDefaultsTravelers(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(0, discardLogger()), time.Second)

	body := `{"destination":"Paris","start_date":"2025-06-15","end_date":"2025-06-16","budget":100,
		"preferences":[{"name":"Sightseeing","selected":true},{"name":"Food & Dining","selected":true}]}`
	rec := app.do(http.MethodPost, "/itineraries", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var response ItineraryResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, 1, response.Travelers)
	assert.Equal(t, int64(160), response.TotalCost)
	assert.True(t, response.OverBudget)
	assert.Equal(t, 160.0, response.UtilizationPercent)
}

// TestCreateItineraryValidation проверяет ошибки ввода в порядке формы.
func TestCreateItineraryValidation(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(0, discardLogger()), time.Second)
	prefs := `"preferences":[{"name":"Sightseeing","selected":true}]`

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing destination",
			body: `{"destination":"  ","start_date":"2025-06-15","end_date":"2025-06-16",` + prefs + `}`,
			want: "destination is required",
		},
		{
			name: "missing dates",
			body: `{"destination":"Paris","start_date":"2025-06-15",` + prefs + `}`,
			want: "start and end dates are required",
		},
		{
			name: "end before start",
			body: `{"destination":"Paris","start_date":"2025-06-16","end_date":"2025-06-15",` + prefs + `}`,
			want: "start date must be before end date",
		},
		{
			name: "no preference selected",
			body: `{"destination":"Paris","start_date":"2025-06-15","end_date":"2025-06-16","preferences":[{"name":"Sightseeing","selected":false}]}`,
			want: "at least one preference must be selected",
		},
		{
			name: "destination checked first",
			body: `{"destination":""}`,
			want: "destination is required",
		},
		{
			name: "bad date format",
			body: `{"destination":"Paris","start_date":"15/06/2025","end_date":"2025-06-16",` + prefs + `}`,
			want: "invalid start_date format",
		},
		{
			name: "negative budget",
			body: `{"destination":"Paris","start_date":"2025-06-15","end_date":"2025-06-16","budget":-1,` + prefs + `}`,
			want: "validation failed",
		},
		{
			name: "trip too long",
			body: `{"destination":"Paris","start_date":"2025-01-01","end_date":"2400-01-01",` + prefs + `}`,
			want: "trip must not exceed 365 days",
		},
		{
			name: "malformed json",
			body: `{"destination":`,
			want: "invalid payload",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/itineraries", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, errorMessage(t, rec))
		})
	}

	saved, err := app.itineraries.ListSaved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saved)
}

// TestCreateItineraryLongestTrip проверяет поездку максимальной длины.
func TestCreateItineraryLongestTrip(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(0, discardLogger()), time.Second)

	body := `{"destination":"Paris","start_date":"2025-01-01","end_date":"2025-12-31",
		"preferences":[{"name":"Sightseeing","selected":true}]}`
	rec := app.do(http.MethodPost, "/itineraries", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var response ItineraryResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, 365, response.TotalDays)
	assert.Len(t, response.Days, 365)

	body = `{"destination":"Paris","start_date":"2025-01-01","end_date":"2026-01-01",
		"preferences":[{"name":"Sightseeing","selected":true}]}`
	rec = app.do(http.MethodPost, "/generations", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "trip must not exceed 365 days", errorMessage(t, rec))
}

// TestCreateItineraryGenerationFailure проверяет ответ при сбое генерации.
func TestCreateItineraryGenerationFailure(t *testing.T) {
	app := newTestApp(t, stubGenerator{err: planner.ErrRateLimited}, time.Second)

	rec := app.do(http.MethodPost, "/itineraries", parisBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to generate itinerary", errorMessage(t, rec))

	saved, err := app.itineraries.ListSaved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saved)
}

// TestCreateItineraryTimeout проверяет ограничение ожидания результата.
func TestCreateItineraryTimeout(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(time.Hour, discardLogger()), 20*time.Millisecond)

	rec := app.do(http.MethodPost, "/itineraries", parisBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to generate itinerary", errorMessage(t, rec))
}

// TestListItineraries проверяет список и фильтры.
func TestListItineraries(t *testing.T) {
	app := newTestApp(t, planner.NewTemplateGenerator(0, discardLogger()), time.Second)
	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/itineraries", parisBody).Code)

	var all map[string][]ItinerarySummary
	rec := app.do(http.MethodGet, "/itineraries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &all)
	require.Len(t, all["itineraries"], 3)
	assert.False(t, all["itineraries"][0].IsSample)
	assert.Equal(t, "itin-1", all["itineraries"][1].ID)
	assert.True(t, all["itineraries"][1].IsSample)
	assert.Equal(t, "past", all["itineraries"][1].Status)

	var filtered map[string][]ItinerarySummary
	rec = app.do(http.MethodGet, "/itineraries?q=tok&status=past", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &filtered)
	require.Len(t, filtered["itineraries"], 1)
	assert.Equal(t, "itin-2", filtered["itineraries"][0].ID)

	rec = app.do(http.MethodGet, "/itineraries?status=later", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid status", errorMessage(t, rec))
}

// TestGetItinerary проверяет детальный ответ для демонстрационного маршрута.
func TestGetItinerary(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)

	rec := app.do(http.MethodGet, "/itineraries/itin-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response ItineraryResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, "Paris", response.Destination)
	assert.Equal(t, int64(1650), response.TotalCost)
	assert.Equal(t, 82.5, response.UtilizationPercent)
	assert.False(t, response.OverBudget)
	assert.Equal(t, 350.0, response.BudgetDifference)
	assert.True(t, response.IsSample)

	rec = app.do(http.MethodGet, "/itineraries/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "itinerary not found", errorMessage(t, rec))
}

// TestDeleteItinerary проверяет удаление и защиту демонстрационных маршрутов.
func TestDeleteItinerary(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)
	require.NoError(t, app.itineraries.Append(context.Background(), models.Itinerary{ID: "itin-saved", Destination: "Rome"}))

	rec := app.do(http.MethodDelete, "/itineraries/itin-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, "/itineraries/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, "/itineraries/itin-saved", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(http.MethodGet, "/itineraries/itin-saved", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestBudgetUtilization проверяет расчет использования бюджета.
func TestBudgetUtilization(t *testing.T) {
	assert.Equal(t, BudgetUtilization{UtilizationPercent: 82.5, BudgetDifference: 350}, budgetUtilization(2000, 1650))
	assert.Equal(t, BudgetUtilization{UtilizationPercent: 150, OverBudget: true, BudgetDifference: 50}, budgetUtilization(100, 150))
	assert.Equal(t, BudgetUtilization{UtilizationPercent: 33.33, BudgetDifference: 200}, budgetUtilization(300, 100))
	assert.Equal(t, BudgetUtilization{OverBudget: true, BudgetDifference: 40}, budgetUtilization(0, 40))
	assert.Equal(t, BudgetUtilization{}, budgetUtilization(0, 0))
}

// TestParseTripDate проверяет поддерживаемые форматы дат.
func TestParseTripDate(t *testing.T) {
	parsed, err := parseTripDate(" 2025-06-15 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = parseTripDate("2025-06-15T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())

	parsed, err = parseTripDate("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())

	_, err = parseTripDate("June 15")
	assert.Error(t, err)
}

// TestCatalogEndpoints проверяет справочные списки.
func TestCatalogEndpoints(t *testing.T) {
	app := newTestApp(t, stubGenerator{}, time.Second)

	var destinations DestinationsResponse
	rec := app.do(http.MethodGet, "/destinations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &destinations)
	assert.Len(t, destinations.Destinations, 16)
	assert.Contains(t, destinations.Destinations, "Paris")

	var preferences PreferencesResponse
	rec = app.do(http.MethodGet, "/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &preferences)
	require.Len(t, preferences.Preferences, 6)
	assert.Equal(t, "pref-1", preferences.Preferences[0].ID)

	rec = app.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ai-trip-planner"}`, rec.Body.String())
}
