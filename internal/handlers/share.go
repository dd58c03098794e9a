package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"example.com/ai-trip-planner/backend/internal/auth"
	"example.com/ai-trip-planner/backend/internal/repository"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type ShareHandler struct {
	Itineraries *repository.ItineraryRepository
	Shares      *auth.ShareManager
	BaseURL     string
	Logger      *slog.Logger
}

// NewShareHandler создает обработчик ссылок для просмотра маршрута.
func NewShareHandler(itineraries *repository.ItineraryRepository, shares *auth.ShareManager, baseURL string, logger *slog.Logger) *ShareHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ShareHandler{
		Itineraries: itineraries,
		Shares:      shares,
		BaseURL:     baseURL,
		Logger:      logger,
	}
}

type ShareResponse struct {
	ItineraryID string    `json:"itinerary_id"`
	Token       string    `json:"token"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Create выпускает подписанную ссылку на маршрут.
func (h *ShareHandler) Create(c echo.Context) error {
	response, err := h.shareLink(c)
	if err != nil {
		return h.shareError(c, err)
	}

	return c.JSON(http.StatusCreated, response)
}

// QRCode возвращает PNG с QR-кодом ссылки на маршрут.
func (h *ShareHandler) QRCode(c echo.Context) error {
	size := defaultQRSize
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid size")
		}
		if parsed > maxQRSize {
			parsed = maxQRSize
		}
		size = parsed
	}

	link, err := h.shareLink(c)
	if err != nil {
		return h.shareError(c, err)
	}

	png, err := qrcode.Encode(link.URL, qrcode.Medium, size)
	if err != nil {
		h.Logger.ErrorContext(c.Request().Context(), "failed to encode qr code", slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// Resolve возвращает маршрут по токену, проверенному ShareTokenMiddleware.
func (h *ShareHandler) Resolve(c echo.Context) error {
	itineraryID, ok := auth.SharedItineraryIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid share token"})
	}

	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), itineraryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, msgItineraryNotFound)
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, itinerary)
}

func (h *ShareHandler) shareLink(c echo.Context) (ShareResponse, error) {
	itinerary, err := h.Itineraries.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ShareResponse{}, err
	}

	return h.linkFor(itinerary.ID)
}

func (h *ShareHandler) linkFor(itineraryID string) (ShareResponse, error) {
	token, err := h.Shares.NewShareToken(itineraryID)
	if err != nil {
		return ShareResponse{}, err
	}

	return ShareResponse{
		ItineraryID: itineraryID,
		Token:       token.Token,
		URL:         h.BaseURL + "/shared/" + token.Token,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}

func (h *ShareHandler) shareError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, msgItineraryNotFound)
	}

	h.Logger.ErrorContext(c.Request().Context(), "failed to create share link", slog.String("error", err.Error()))
	return serverError(c)
}
