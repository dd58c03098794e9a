package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/generations"
)

type GenerationHandler struct {
	Registry *generations.Registry
	Logger   *slog.Logger
}

// NewGenerationHandler создает обработчик фоновых генераций.
func NewGenerationHandler(registry *generations.Registry, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{Registry: registry, Logger: logger}
}

type GenerationResponse struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	Destination string     `json:"destination"`
	ItineraryID string     `json:"itinerary_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Create запускает генерацию в фоне и сразу отвечает 202.
func (h *GenerationHandler) Create(c echo.Context) error {
	request, err := bindTripRequest(c)
	if err != nil {
		h.Logger.DebugContext(c.Request().Context(), "trip request rejected", slog.String("error", err.Error()))
		return badRequest(c, err.Error())
	}

	generation := h.Registry.Start(c.Request().Context(), request)

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/generations/"+generation.ID.String())
	return c.JSON(http.StatusAccepted, toGenerationResponse(generation))
}

// Get возвращает состояние генерации.
func (h *GenerationHandler) Get(c echo.Context) error {
	generation, ok := lookupGeneration(c, h.Registry)
	if !ok {
		return notFound(c, "generation not found")
	}

	return c.JSON(http.StatusOK, toGenerationResponse(generation))
}

func lookupGeneration(c echo.Context, registry *generations.Registry) (generations.Generation, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return generations.Generation{}, false
	}

	return registry.Get(id)
}

func toGenerationResponse(generation generations.Generation) GenerationResponse {
	response := GenerationResponse{
		ID:          generation.ID,
		Status:      string(generation.Status),
		Destination: generation.Destination,
		ItineraryID: generation.ItineraryID,
		Error:       generation.Error,
		CreatedAt:   generation.CreatedAt,
	}
	if !generation.FinishedAt.IsZero() {
		finishedAt := generation.FinishedAt
		response.FinishedAt = &finishedAt
	}
	return response
}
