package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/catalog"
	"example.com/ai-trip-planner/backend/internal/models"
)

type DestinationsResponse struct {
	Destinations []string `json:"destinations"`
}

type PreferencesResponse struct {
	Preferences []models.Preference `json:"preferences"`
}

// Destinations возвращает список предлагаемых направлений.
func Destinations(c echo.Context) error {
	return c.JSON(http.StatusOK, DestinationsResponse{Destinations: catalog.Destinations()})
}

// Preferences возвращает предпочтения с выбором по умолчанию.
func Preferences(c echo.Context) error {
	return c.JSON(http.StatusOK, PreferencesResponse{Preferences: catalog.Preferences()})
}
