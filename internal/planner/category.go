package planner

import (
	"example.com/ai-trip-planner/backend/internal/catalog"
	"example.com/ai-trip-planner/backend/internal/models"
)

// Category определяет тип предпочтения, по которому выбираются шаблоны и словари.
type Category int

const (
	CategoryOther Category = iota
	CategorySightseeing
	CategoryFoodDining
	CategoryNatureOutdoors
	CategoryCulturalExperiences
	CategoryShopping
	CategoryRelaxation
)

var categoryNames = map[string]Category{
	"Sightseeing":          CategorySightseeing,
	"Food & Dining":        CategoryFoodDining,
	"Nature & Outdoors":    CategoryNatureOutdoors,
	"Cultural Experiences": CategoryCulturalExperiences,
	"Shopping":             CategoryShopping,
	"Relaxation":           CategoryRelaxation,
}

// ParseCategory сопоставляет имя предпочтения с категорией (точное совпадение).
func ParseCategory(name string) Category {
	if category, ok := categoryNames[name]; ok {
		return category
	}
	return CategoryOther
}

func (c Category) String() string {
	for name, category := range categoryNames {
		if category == c {
			return name
		}
	}
	return "Other"
}

type activityTemplate struct {
	Activity string
	Cost     int64
}

// Шаблоны по слотам: утро, день, вечер.
var activityTemplates = map[Category][slotCount]activityTemplate{
	CategorySightseeing: {
		{Activity: "Visit [landmark]", Cost: 20},
		{Activity: "Walking tour of [area]", Cost: 15},
		{Activity: "Explore [museum]", Cost: 25},
	},
	CategoryFoodDining: {
		{Activity: "Breakfast at [cafe]", Cost: 15},
		{Activity: "Lunch at local [cuisine] restaurant", Cost: 25},
		{Activity: "Fine dining experience at [restaurant]", Cost: 60},
	},
	CategoryNatureOutdoors: {
		{Activity: "Hike at [trail/park]", Cost: 0},
		{Activity: "Visit [garden/park]", Cost: 5},
		{Activity: "Outdoor adventure: [activity]", Cost: 45},
	},
	CategoryCulturalExperiences: {
		{Activity: "Attend [cultural event]", Cost: 35},
		{Activity: "Visit [historical site]", Cost: 20},
		{Activity: "Take a [cultural] class", Cost: 50},
	},
	CategoryShopping: {
		{Activity: "Shop at [market/mall]", Cost: 0},
		{Activity: "Visit [boutique/specialty store]", Cost: 0},
		{Activity: "Souvenir shopping at [location]", Cost: 30},
	},
	CategoryRelaxation: {
		{Activity: "Spa day at [spa]", Cost: 100},
		{Activity: "Relax at [beach/pool]", Cost: 10},
		{Activity: "Leisure time at [location]", Cost: 15},
	},
}

type slot int

const (
	slotMorning slot = iota
	slotAfternoon
	slotEvening
	slotCount
)

type vocabularySelector func(profile catalog.Profile, day int) string

type slotRule struct {
	time      string
	offset    int
	fallback  activityTemplate
	overrides map[Category]vocabularySelector
	standard  vocabularySelector
	location  func(category Category, profile catalog.Profile, day int) string
}

func pick(values []string, index int) string {
	return values[index%len(values)]
}

func landmarks(p catalog.Profile, day int) string   { return pick(p.Landmarks, day) }
func museums(p catalog.Profile, day int) string     { return pick(p.Museums, day) }
func areas(p catalog.Profile, day int) string       { return pick(p.Areas, day) }
func restaurants(p catalog.Profile, day int) string { return pick(p.Restaurants, day) }
func parks(p catalog.Profile, day int) string       { return pick(p.Parks, day) }
func markets(p catalog.Profile, day int) string     { return pick(p.Markets, day) }
func activities(p catalog.Profile, day int) string  { return pick(p.Activities, day) }

func shifted(selector vocabularySelector, by int) vocabularySelector {
	return func(p catalog.Profile, day int) string {
		return selector(p, day+by)
	}
}

var slotRules = [slotCount]slotRule{
	slotMorning: {
		time:     models.TimeMorning,
		offset:   0,
		fallback: activityTemplates[CategorySightseeing][0],
		overrides: map[Category]vocabularySelector{
			CategorySightseeing:         landmarks,
			CategoryCulturalExperiences: museums,
		},
		standard: areas,
		location: func(_ Category, p catalog.Profile, day int) string {
			return areas(p, day)
		},
	},
	slotAfternoon: {
		time:     models.TimeAfternoon,
		offset:   1,
		fallback: activityTemplates[CategoryCulturalExperiences][0],
		overrides: map[Category]vocabularySelector{
			CategoryFoodDining:     restaurants,
			CategoryNatureOutdoors: parks,
		},
		standard: activities,
		location: func(_ Category, p catalog.Profile, day int) string {
			return areas(p, day+1)
		},
	},
	slotEvening: {
		time:     models.TimeEvening,
		offset:   2,
		fallback: activityTemplates[CategoryFoodDining][2],
		overrides: map[Category]vocabularySelector{
			CategoryFoodDining: shifted(restaurants, 1),
			CategoryShopping:   markets,
		},
		standard: shifted(activities, 1),
		location: func(category Category, p catalog.Profile, day int) string {
			if category == CategoryFoodDining {
				return restaurants(p, day+1)
			}
			return areas(p, day+2)
		},
	},
}

func (r slotRule) template(category Category, s slot) activityTemplate {
	if templates, ok := activityTemplates[category]; ok {
		return templates[s]
	}
	return r.fallback
}

func (r slotRule) vocabulary(category Category) vocabularySelector {
	if selector, ok := r.overrides[category]; ok {
		return selector
	}
	return r.standard
}
