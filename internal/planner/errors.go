package planner

import (
	"errors"
	"fmt"
	"strings"

	"example.com/ai-trip-planner/backend/internal/models"
)

var (
	ErrMissingDestination   = errors.New("destination is required")
	ErrMissingDates         = errors.New("start and end dates are required")
	ErrInvalidDateRange     = errors.New("start date must be before end date")
	ErrNoPreferenceSelected = errors.New("at least one preference must be selected")
)

// ErrGenerationFailed объединяет все ошибки генерации. Остальные ошибки
// генерации оборачивают его, чтобы вызывающий мог проверить errors.Is.
var ErrGenerationFailed = errors.New("failed to generate itinerary")

var (
	ErrGenerationTimeout = fmt.Errorf("%w: timeout", ErrGenerationFailed)
	ErrMalformedResponse = fmt.Errorf("%w: malformed response", ErrGenerationFailed)
	ErrRateLimited       = fmt.Errorf("%w: rate limited", ErrGenerationFailed)
)

// ValidateTrip проверяет предусловия генерации в том же порядке, что и форма.
func ValidateTrip(request models.TripRequest) error {
	if strings.TrimSpace(request.Destination) == "" {
		return ErrMissingDestination
	}

	if request.StartDate.IsZero() || request.EndDate.IsZero() {
		return ErrMissingDates
	}

	if calendarDate(request.StartDate).After(calendarDate(request.EndDate)) {
		return ErrInvalidDateRange
	}

	if len(request.SelectedPreferences()) == 0 {
		return ErrNoPreferenceSelected
	}

	return nil
}

// IsValidationError сообщает, относится ли ошибка к ошибкам ввода.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingDestination) ||
		errors.Is(err, ErrMissingDates) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrNoPreferenceSelected)
}
