package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const serviceName = "ai-trip-planner"

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health отвечает на проверку живости сервиса.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: serviceName})
}
