package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

// ErrUnavailable reports that the forecast provider could not be reached or
// returned an unusable body. Callers are expected to recover via their own
// fallback policy.
var ErrUnavailable = errors.New("weather unavailable")

// Client fetches weather and river discharge data from Open-Meteo.
type Client struct {
	forecastURL  string
	floodURL     string
	timezone     string
	pastDays     int
	forecastDays int
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewClient(cfg config.WeatherConfig, logger *slog.Logger) *Client {
	return &Client{
		forecastURL:  cfg.ForecastURL,
		floodURL:     cfg.FloodURL,
		timezone:     cfg.Timezone,
		pastDays:     cfg.PastDays,
		forecastDays: cfg.ForecastDays,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		Rain          float64 `json:"rain"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Precipitation []*float64 `json:"precipitation"`
		SoilMoisture  []*float64 `json:"soil_moisture_0_to_1cm"`
	} `json:"hourly"`
	Daily struct {
		Time             []string  `json:"time"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Current fetches the live reading plus a rolling hourly window and derives
// the rainfall/soil-moisture aggregates used by risk scoring.
func (c *Client) Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"current":       {"temperature_2m,relative_humidity_2m,precipitation,rain,weather_code,wind_speed_10m"},
		"hourly":        {"precipitation,soil_moisture_0_to_1cm,temperature_2m"},
		"daily":         {"precipitation_sum,rain_sum"},
		"timezone":      {c.timezone},
		"past_days":     {strconv.Itoa(c.pastDays)},
		"forecast_days": {strconv.Itoa(c.forecastDays)},
	}

	var data forecastResponse
	if err := c.get(ctx, c.forecastURL+"?"+params.Encode(), &data); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}

	rainfall24h, rainfall7d := trailingRainfall(data.Hourly.Precipitation, c.forecastDays)

	snapshot := models.WeatherSnapshot{
		Lat:                  lat,
		Lon:                  lon,
		Temperature:          data.Current.Temperature,
		Humidity:             data.Current.Humidity,
		CurrentPrecipitation: data.Current.Precipitation,
		CurrentRain:          data.Current.Rain,
		WindSpeed:            data.Current.WindSpeed,
		WeatherCode:          data.Current.WeatherCode,
		Rainfall24h:          round1(rainfall24h),
		Rainfall7d:           round1(rainfall7d),
		SoilMoisture:         round4(latestSample(data.Hourly.SoilMoisture)),
		DailyPrecipitation:   data.Daily.PrecipitationSum,
		DailyDates:           data.Daily.Time,
		Source:               "Open-Meteo",
		Timestamp:            time.Now(),
	}

	return snapshot, nil
}

type floodResponse struct {
	Daily struct {
		Time           []string   `json:"time"`
		RiverDischarge []*float64 `json:"river_discharge"`
	} `json:"daily"`
}

// Discharge fetches river discharge from the Open-Meteo flood API. Failures
// degrade to a zeroed payload marked unavailable; discharge is advisory and
// never blocks a risk response.
func (c *Client) Discharge(ctx context.Context, lat, lon float64) models.DischargeData {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"daily":         {"river_discharge"},
		"past_days":     {strconv.Itoa(c.pastDays)},
		"forecast_days": {strconv.Itoa(c.forecastDays)},
	}

	var data floodResponse
	if err := c.get(ctx, c.floodURL+"?"+params.Encode(), &data); err != nil {
		c.logger.Warn("discharge fetch failed", "lat", lat, "lon", lon, "error", err)
		return models.DischargeData{Lat: lat, Lon: lon, Trend: []float64{}, Dates: []string{}, Source: "unavailable"}
	}

	valid := make([]float64, 0, len(data.Daily.RiverDischarge))
	trend := make([]float64, 0, len(data.Daily.RiverDischarge))
	for _, d := range data.Daily.RiverDischarge {
		if d == nil {
			trend = append(trend, 0)
			continue
		}
		valid = append(valid, *d)
		trend = append(trend, *d)
	}

	out := models.DischargeData{
		Lat:    lat,
		Lon:    lon,
		Trend:  trend,
		Dates:  data.Daily.Time,
		Source: "Open-Meteo Flood API",
	}
	if len(valid) > 0 {
		out.CurrentDischarge = valid[len(valid)-1]
		var sum float64
		for _, v := range valid {
			sum += v
			if v > out.MaxDischarge7d {
				out.MaxDischarge7d = v
			}
		}
		out.AvgDischarge7d = math.Round(sum/float64(len(valid))*100) / 100
	}

	return out
}

func (c *Client) get(ctx context.Context, fullURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return nil
}

// trailingRainfall sums the 24 and 168 hourly samples immediately preceding
// "now". The hourly series covers pastDays of history followed by
// forecastDays of forecast, so "now" sits forecastDays*24 samples before the
// end of the series, not at its start.
func trailingRainfall(hourly []*float64, forecastDays int) (last24h, last7d float64) {
	nowIdx := len(hourly) - forecastDays*24
	if nowIdx <= 0 {
		return 0, 0
	}

	sumBack := func(hours int) float64 {
		start := nowIdx - hours
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, p := range hourly[start:nowIdx] {
			if p != nil {
				sum += *p
			}
		}
		return sum
	}

	return sumBack(24), sumBack(168)
}

// latestSample returns the most recent non-null value, or 0 when the series
// has none.
func latestSample(series []*float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return *series[i]
		}
	}
	return 0
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
