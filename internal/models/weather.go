package models

import "time"

// WeatherSnapshot is one location's weather picture at fetch time.
// Immutable once built; it lives for the duration of a single request.
type WeatherSnapshot struct {
	Lat                  float64   `json:"lat"`
	Lon                  float64   `json:"lon"`
	Temperature          float64   `json:"temperature"`
	Humidity             float64   `json:"humidity"`
	CurrentPrecipitation float64   `json:"current_precipitation"`
	CurrentRain          float64   `json:"current_rain"`
	WindSpeed            float64   `json:"wind_speed"`
	WeatherCode          int       `json:"weather_code"`
	Rainfall24h          float64   `json:"rainfall_24h"`
	Rainfall7d           float64   `json:"rainfall_7d"`
	SoilMoisture         float64   `json:"soil_moisture"`
	DailyPrecipitation   []float64 `json:"daily_precipitation"`
	DailyDates           []string  `json:"daily_dates"`
	Source               string    `json:"source"`
	Timestamp            time.Time `json:"timestamp"`
}

// DischargeData summarizes river discharge around a coordinate over the
// fetched window.
type DischargeData struct {
	Lat              float64   `json:"lat"`
	Lon              float64   `json:"lon"`
	CurrentDischarge float64   `json:"current_discharge"`
	MaxDischarge7d   float64   `json:"max_discharge_7d"`
	AvgDischarge7d   float64   `json:"avg_discharge_7d"`
	Trend            []float64 `json:"discharge_trend"`
	Dates            []string  `json:"dates"`
	Source           string    `json:"source"`
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
