package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/planner"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func forbidden(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, map[string]string{"error": message})
}

func generationFailed(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": planner.ErrGenerationFailed.Error()})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
