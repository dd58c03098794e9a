package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/generations"
	"example.com/ai-trip-planner/backend/internal/models"
	"example.com/ai-trip-planner/backend/internal/notifications"
	"example.com/ai-trip-planner/backend/internal/planner"
	"example.com/ai-trip-planner/backend/internal/repository"
	"example.com/ai-trip-planner/backend/internal/storage"
)

type testValidator struct {
	validator *validator.Validate
}

func (v testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type stubGenerator struct {
	itinerary models.Itinerary
	err       error
}

func (g stubGenerator) Generate(_ context.Context, _ models.TripRequest) *planner.Pending {
	return planner.Resolved(g.itinerary, g.err)
}

type testApp struct {
	echo        *echo.Echo
	itineraries *repository.ItineraryRepository
	registry    *generations.Registry
	shares      *auth.ShareManager
	handler     *ItineraryHandler
}

var fixedNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, generator planner.Generator, waitTimeout time.Duration) *testApp {
	t.Helper()

	logger := discardLogger()
	itineraries := repository.NewItineraryRepository(storage.NewMemoryStore())
	hub := notifications.NewHub()
	registry := generations.NewRegistry(generator, itineraries, hub, logger, time.Second)
	shares := auth.NewShareManager("test-secret", "trip-planner", time.Hour)

	itineraryHandler := NewItineraryHandler(itineraries, generator, waitTimeout, logger)
	itineraryHandler.Now = func() time.Time { return fixedNow }
	shareHandler := NewShareHandler(itineraries, shares, "https://trips.example.com", logger)
	exportHandler := NewExportHandler(itineraries, shareHandler, logger)
	generationHandler := NewGenerationHandler(registry, logger)
	notificationHandler := NewNotificationHandler(hub, registry)
	statsHandler := NewStatsHandler(repository.NewStatsRepository(itineraries))
	statsHandler.Now = func() time.Time { return fixedNow }

	e := echo.New()
	e.Validator = testValidator{validator: validator.New()}

	e.GET("/health", Health)
	e.GET("/destinations", Destinations)
	e.GET("/preferences", Preferences)
	e.GET("/itineraries", itineraryHandler.List)
	e.POST("/itineraries", itineraryHandler.Create)
	e.GET("/itineraries/:id", itineraryHandler.Get)
	e.DELETE("/itineraries/:id", itineraryHandler.Delete)
	e.GET("/itineraries/:id/export/json", exportHandler.ExportJSON)
	e.GET("/itineraries/:id/export/csv", exportHandler.ExportCSV)
	e.GET("/itineraries/:id/export/pdf", exportHandler.ExportPDF)
	e.POST("/itineraries/:id/share", shareHandler.Create)
	e.GET("/itineraries/:id/share/qr", shareHandler.QRCode)
	e.GET("/shared/:token", shareHandler.Resolve, auth.ShareTokenMiddleware(shares, "token"))
	e.POST("/generations", generationHandler.Create)
	e.GET("/generations/:id", generationHandler.Get)
	e.GET("/generations/:id/stream", notificationHandler.Stream)
	e.GET("/stats/overview", statsHandler.Overview)
	e.GET("/stats/time-of-day", statsHandler.SpendingByTimeOfDay)
	e.GET("/stats/monthly-comparison", statsHandler.MonthlyComparison)

	return &testApp{
		echo:        e,
		itineraries: itineraries,
		registry:    registry,
		shares:      shares,
		handler:     itineraryHandler,
	}
}

func (a *testApp) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeJSON(t, rec, &body)
	return body["error"]
}

const parisBody = `{
	"destination": "Paris",
	"start_date": "2025-06-15",
	"end_date": "2025-06-16",
	"budget": 2000,
	"travelers": 2,
	"preferences": [
		{"id": "pref-1", "name": "Sightseeing", "selected": true},
		{"id": "pref-2", "name": "Food & Dining", "selected": true},
		{"id": "pref-3", "name": "Nature & Outdoors", "selected": false}
	]
}`
