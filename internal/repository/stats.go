package repository

import (
	"context"
	"sort"
	"time"

	"example.com/ai-trip-planner/backend/internal/models"
)

type StatsRepository struct {
	itineraries *ItineraryRepository
}

type OverviewStats struct {
	TotalItineraries int
	UpcomingTrips    int
	PastTrips        int
	OverBudgetTrips  int
	TotalBudget      float64
	TotalCost        int64
}

type TimeOfDaySpend struct {
	Time       string
	Activities int
	Cost       int64
}

type MonthlyComparison struct {
	Month  time.Time
	Trips  int
	Budget float64
	Cost   int64
}

// NewStatsRepository создает репозиторий статистики.
func NewStatsRepository(itineraries *ItineraryRepository) *StatsRepository {
	return &StatsRepository{itineraries: itineraries}
}

// Overview возвращает сводную статистику по всем маршрутам.
func (r *StatsRepository) Overview(ctx context.Context, now time.Time) (OverviewStats, error) {
	var stats OverviewStats

	all, err := r.itineraries.List(ctx)
	if err != nil {
		return stats, err
	}

	for _, itinerary := range all {
		stats.TotalItineraries++
		if TripStatus(itinerary, now) == StatusPast {
			stats.PastTrips++
		} else {
			stats.UpcomingTrips++
		}
		if float64(itinerary.TotalCost) > itinerary.Budget {
			stats.OverBudgetTrips++
		}
		stats.TotalBudget += itinerary.Budget
		stats.TotalCost += itinerary.TotalCost
	}

	return stats, nil
}

// SpendingByTimeOfDay возвращает стоимость маршрута по времени суток.
func (r *StatsRepository) SpendingByTimeOfDay(ctx context.Context, itineraryID string) ([]TimeOfDaySpend, error) {
	itinerary, err := r.itineraries.GetByID(ctx, itineraryID)
	if err != nil {
		return nil, err
	}

	order := []string{models.TimeMorning, models.TimeAfternoon, models.TimeEvening}
	index := make(map[string]int, len(order))
	spending := make([]TimeOfDaySpend, 0, len(order))
	for i, label := range order {
		index[label] = i
		spending = append(spending, TimeOfDaySpend{Time: label})
	}

	for _, day := range itinerary.Days {
		for _, activity := range day.Activities {
			i, ok := index[activity.Time]
			if !ok {
				i = len(spending)
				index[activity.Time] = i
				spending = append(spending, TimeOfDaySpend{Time: activity.Time})
			}
			spending[i].Activities++
			spending[i].Cost += activity.Cost
		}
	}

	return spending, nil
}

// MonthlyComparison возвращает бюджет и стоимость поездок по месяцу начала.
func (r *StatsRepository) MonthlyComparison(ctx context.Context, months int) ([]MonthlyComparison, error) {
	if months <= 0 {
		return nil, ErrInvalid
	}

	all, err := r.itineraries.List(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]*MonthlyComparison)
	for _, itinerary := range all {
		start, err := time.Parse(time.RFC3339, itinerary.StartDate)
		if err != nil {
			continue
		}
		start = start.UTC()
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

		row, ok := byMonth[month]
		if !ok {
			row = &MonthlyComparison{Month: month}
			byMonth[month] = row
		}
		row.Trips++
		row.Budget += itinerary.Budget
		row.Cost += itinerary.TotalCost
	}

	items := make([]MonthlyComparison, 0, len(byMonth))
	for _, row := range byMonth {
		items = append(items, *row)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Month.After(items[j].Month)
	})

	if len(items) > months {
		items = items[:months]
	}
	return items, nil
}
