// Package weather serves mock conditions for the dashboard widget. There is
// no upstream provider; jitter is applied so repeated reads feel live.
package weather

import (
	"fmt"
	"math/rand"
	"time"
)

// Current is the instantaneous conditions payload.
type Current struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Pressure    int       `json:"pressure"`
	Visibility  int       `json:"visibility"`
	UVIndex     int       `json:"uvIndex"`
	Icon        string    `json:"icon"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ForecastDay is one entry of the five-day outlook.
type ForecastDay struct {
	Day           string `json:"day"`
	High          int    `json:"high"`
	Low           int    `json:"low"`
	Condition     string `json:"condition"`
	Icon          string `json:"icon"`
	Precipitation int    `json:"precipitation"`
}

// HourlyPoint is one hour of the synthetic 24-hour series.
type HourlyPoint struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	Condition     string  `json:"condition"`
	Precipitation float64 `json:"precipitation"`
}

// Alert is one advisory entry of the mock alert feed.
type Alert struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Expires     time.Time `json:"expires"`
}

var baseCurrent = Current{
	Location:    "San Francisco, CA",
	Temperature: 22,
	Condition:   "Partly Cloudy",
	Humidity:    65,
	WindSpeed:   12,
	Pressure:    1013,
	Visibility:  10,
	UVIndex:     6,
	Icon:        "partly-cloudy",
}

var forecast = []ForecastDay{
	{Day: "Today", High: 24, Low: 18, Condition: "Partly Cloudy", Icon: "partly-cloudy", Precipitation: 10},
	{Day: "Tomorrow", High: 26, Low: 19, Condition: "Sunny", Icon: "sunny", Precipitation: 0},
	{Day: "Thursday", High: 23, Low: 17, Condition: "Cloudy", Icon: "cloudy", Precipitation: 20},
	{Day: "Friday", High: 21, Low: 15, Condition: "Rainy", Icon: "rainy", Precipitation: 80},
	{Day: "Saturday", High: 25, Low: 18, Condition: "Sunny", Icon: "sunny", Precipitation: 5},
}

// Service generates weather payloads. Randomness is injected so tests can
// seed it.
type Service struct {
	rng *rand.Rand
	now func() time.Time
}

// NewService constructs a weather service.
func NewService(rng *rand.Rand) *Service {
	return &Service{rng: rng, now: time.Now}
}

// Current returns the mock conditions with small random drift.
func (s *Service) Current() Current {
	c := baseCurrent
	c.Temperature += (s.rng.Float64() - 0.5) * 4
	c.Humidity = clamp(30, 90, c.Humidity+(s.rng.Float64()-0.5)*20)
	c.WindSpeed = clamp(0, 200, c.WindSpeed+(s.rng.Float64()-0.5)*8)
	c.LastUpdated = s.now()
	return c
}

var locationConditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Rainy"}

// ForLocation returns mock conditions for an arbitrary city. The city name is
// echoed back and the temperature drifts further than the home location's.
func (s *Service) ForLocation(city string) Current {
	c := baseCurrent
	c.Location = city
	c.Temperature += (s.rng.Float64() - 0.5) * 10
	c.Condition = locationConditions[s.rng.Intn(len(locationConditions))]
	c.LastUpdated = s.now()
	return c
}

// Alerts returns the fixed advisory feed with rolling expiry times.
func (s *Service) Alerts() []Alert {
	now := s.now()
	return []Alert{
		{
			ID:          1,
			Type:        "warning",
			Title:       "High UV Index Alert",
			Description: "UV index will reach dangerous levels between 11 AM and 3 PM. Wear sunscreen and limit outdoor exposure.",
			Severity:    "moderate",
			Expires:     now.Add(6 * time.Hour),
		},
		{
			ID:          2,
			Type:        "watch",
			Title:       "Air Quality Advisory",
			Description: "Moderate air quality expected due to local wildfires. Sensitive individuals should limit outdoor activities.",
			Severity:    "minor",
			Expires:     now.Add(12 * time.Hour),
		},
	}
}

// Forecast returns the fixed five-day outlook.
func (s *Service) Forecast() []ForecastDay {
	out := make([]ForecastDay, len(forecast))
	copy(out, forecast)
	return out
}

// Hourly returns a synthetic 24-hour series.
func (s *Service) Hourly() []HourlyPoint {
	points := make([]HourlyPoint, 0, 24)
	for i := 0; i < 24; i++ {
		condition := "Sunny"
		switch {
		case i%4 == 0:
			condition = "Rainy"
		case i%3 == 0:
			condition = "Cloudy"
		}
		points = append(points, HourlyPoint{
			Time:          fmt.Sprintf("%02d:00", i),
			Temperature:   18 + s.rng.Float64()*8,
			Condition:     condition,
			Precipitation: s.rng.Float64() * 100,
		})
	}
	return points
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
