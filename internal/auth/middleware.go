package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const ContextItineraryIDKey = "shared_itinerary_id"

// ShareTokenMiddleware проверяет токен из параметра пути и сохраняет id маршрута в контексте.
func ShareTokenMiddleware(manager *ShareManager, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := strings.TrimSpace(c.Param(param))
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing share token"})
			}

			itineraryID, err := manager.ParseShareToken(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid share token"})
			}

			c.Set(ContextItineraryIDKey, itineraryID)
			return next(c)
		}
	}
}

// SharedItineraryIDFromContext извлекает идентификатор маршрута из контекста.
func SharedItineraryIDFromContext(c echo.Context) (string, bool) {
	value := c.Get(ContextItineraryIDKey)
	if value == nil {
		return "", false
	}

	itineraryID, ok := value.(string)
	if !ok || itineraryID == "" {
		return "", false
	}

	return itineraryID, true
}
