package models

import "time"

const (
	TimeMorning   = "9:00 AM"
	TimeAfternoon = "2:00 PM"
	TimeEvening   = "7:00 PM"
)

type Preference struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Selected bool   `json:"selected" yaml:"selected"`
}

type TripRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	Travelers   int
	Preferences []Preference
}

// Clone возвращает независимую копию запроса.
func (r TripRequest) Clone() TripRequest {
	out := r
	if r.Preferences != nil {
		out.Preferences = make([]Preference, len(r.Preferences))
		copy(out.Preferences, r.Preferences)
	}
	return out
}

// SelectedPreferences возвращает имена выбранных предпочтений в исходном порядке.
func (r TripRequest) SelectedPreferences() []string {
	out := make([]string, 0, len(r.Preferences))
	for _, pref := range r.Preferences {
		if pref.Selected {
			out = append(out, pref.Name)
		}
	}
	return out
}

type Activity struct {
	Time            string `json:"time" yaml:"time"`
	Activity        string `json:"activity" yaml:"activity"`
	Location        string `json:"location" yaml:"location"`
	Cost            int64  `json:"cost" yaml:"cost"`
	WeatherForecast string `json:"weather_forecast,omitempty" yaml:"weather_forecast,omitempty"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type ItineraryDay struct {
	Day        int        `json:"day" yaml:"day"`
	Date       string     `json:"date" yaml:"date"`
	Activities []Activity `json:"activities" yaml:"activities"`
}

type Itinerary struct {
	ID          string         `json:"id" yaml:"id"`
	Destination string         `json:"destination" yaml:"destination"`
	StartDate   string         `json:"start_date" yaml:"start_date"`
	EndDate     string         `json:"end_date" yaml:"end_date"`
	TotalDays   int            `json:"total_days" yaml:"total_days"`
	Budget      float64        `json:"budget" yaml:"budget"`
	Travelers   int            `json:"travelers" yaml:"travelers"`
	TotalCost   int64          `json:"total_cost" yaml:"total_cost"`
	Days        []ItineraryDay `json:"days" yaml:"days"`
}

// SumCosts пересчитывает стоимость всех активностей маршрута.
func (it Itinerary) SumCosts() int64 {
	var total int64
	for _, day := range it.Days {
		for _, activity := range day.Activities {
			total += activity.Cost
		}
	}
	return total
}

// Clone возвращает копию маршрута с собственными днями и активностями.
func (it Itinerary) Clone() Itinerary {
	out := it
	if it.Days == nil {
		return out
	}
	out.Days = make([]ItineraryDay, 0, len(it.Days))
	for _, day := range it.Days {
		day.Activities = append([]Activity(nil), day.Activities...)
		out.Days = append(out.Days, day)
	}
	return out
}
