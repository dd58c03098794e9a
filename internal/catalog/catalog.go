package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v2"

	"example.com/ai-trip-planner/backend/internal/models"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

//go:embed data/samples.yaml
var samplesYAML []byte

// Profile хранит словарь направления, из которого генератор подставляет значения в шаблоны.
type Profile struct {
	Landmarks   []string `yaml:"landmarks" json:"landmarks"`
	Museums     []string `yaml:"museums" json:"museums"`
	Areas       []string `yaml:"areas" json:"areas"`
	Restaurants []string `yaml:"restaurants" json:"restaurants"`
	Parks       []string `yaml:"parks" json:"parks"`
	Markets     []string `yaml:"markets" json:"markets"`
	Activities  []string `yaml:"activities" json:"activities"`
}

type document struct {
	Destinations []string            `yaml:"destinations"`
	Preferences  []models.Preference `yaml:"preferences"`
	Generic      Profile             `yaml:"generic"`
	Profiles     map[string]Profile  `yaml:"profiles"`
}

var (
	loadOnce sync.Once
	loaded   document
	samples  []models.Itinerary
	loadErr  error
)

func load() error {
	loadOnce.Do(func() {
		if err := yaml.Unmarshal(catalogYAML, &loaded); err != nil {
			loadErr = fmt.Errorf("parse catalog: %w", err)
			return
		}
		if err := yaml.Unmarshal(samplesYAML, &samples); err != nil {
			loadErr = fmt.Errorf("parse sample itineraries: %w", err)
			return
		}
		if err := loaded.Generic.validate(); err != nil {
			loadErr = fmt.Errorf("generic profile: %w", err)
			return
		}
		for name, profile := range loaded.Profiles {
			if err := profile.validate(); err != nil {
				loadErr = fmt.Errorf("profile %s: %w", name, err)
				return
			}
		}
	})
	return loadErr
}

// MustLoad разбирает встроенные справочники и паникует при ошибке.
func MustLoad() {
	if err := load(); err != nil {
		panic(err)
	}
}

// Lookup ищет профиль направления по точному совпадению имени.
// Для неизвестного направления возвращается общий профиль и false.
func Lookup(destination string) (Profile, bool) {
	MustLoad()

	if profile, ok := loaded.Profiles[destination]; ok {
		return profile.clone(), true
	}
	return loaded.Generic.clone(), false
}

// Generic возвращает общий профиль.
func Generic() Profile {
	MustLoad()
	return loaded.Generic.clone()
}

// Destinations возвращает список предлагаемых направлений.
func Destinations() []string {
	MustLoad()
	return append([]string(nil), loaded.Destinations...)
}

// Preferences возвращает справочник предпочтений с флагами по умолчанию.
func Preferences() []models.Preference {
	MustLoad()
	return append([]models.Preference(nil), loaded.Preferences...)
}

// SampleItineraries возвращает демонстрационные маршруты.
func SampleItineraries() []models.Itinerary {
	MustLoad()

	out := make([]models.Itinerary, 0, len(samples))
	for _, sample := range samples {
		out = append(out, sample.Clone())
	}
	return out
}

func (p Profile) validate() error {
	lists := map[string][]string{
		"landmarks":   p.Landmarks,
		"museums":     p.Museums,
		"areas":       p.Areas,
		"restaurants": p.Restaurants,
		"parks":       p.Parks,
		"markets":     p.Markets,
		"activities":  p.Activities,
	}
	for name, values := range lists {
		if len(values) == 0 {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

func (p Profile) clone() Profile {
	return Profile{
		Landmarks:   append([]string(nil), p.Landmarks...),
		Museums:     append([]string(nil), p.Museums...),
		Areas:       append([]string(nil), p.Areas...),
		Restaurants: append([]string(nil), p.Restaurants...),
		Parks:       append([]string(nil), p.Parks...),
		Markets:     append([]string(nil), p.Markets...),
		Activities:  append([]string(nil), p.Activities...),
	}
}
