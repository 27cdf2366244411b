package risk

import (
	"fmt"
	"time"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

const alertSource = "FloodSense AI Analysis"

// wmoDescriptions maps Open-Meteo WMO weather codes to readable text.
var wmoDescriptions = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Foggy", 48: "Rime fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
	71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	80: "Slight rain showers", 81: "Moderate rain showers", 82: "Heavy rain showers",
	85: "Slight snow showers", 86: "Heavy snow showers",
	95: "Thunderstorm", 96: "Thunderstorm with hail", 99: "Severe thunderstorm with hail",
}

func describeWeatherCode(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// InterpretWeather derives flood warnings from a weather snapshot. It always
// returns at least one alert; quiet conditions produce a single all-clear.
func InterpretWeather(w models.WeatherSnapshot) []models.FloodAlert {
	now := time.Now()
	stamp := now.Format("2006010215")
	var alerts []models.FloodAlert

	base := func(id, typ string, sev models.AlertSeverity, title, msg, rec string) models.FloodAlert {
		return models.FloodAlert{
			ID:             id,
			Type:           typ,
			Severity:       sev,
			Title:          title,
			Message:        msg,
			Recommendation: rec,
			Lat:            w.Lat,
			Lon:            w.Lon,
			Source:         alertSource,
			Timestamp:      now,
		}
	}

	switch {
	case w.Rainfall24h > 100:
		alerts = append(alerts, base("RAIN-"+stamp, "EXTREME_RAINFALL", models.AlertSeveritySevere,
			"Extreme Rainfall Warning",
			fmt.Sprintf("Extremely heavy rainfall of %.1fmm recorded in past 24 hours. Flash flood risk is very high.", w.Rainfall24h),
			"Evacuate low-lying areas immediately. Move to higher ground."))
	case w.Rainfall24h > 50:
		alerts = append(alerts, base("RAIN-"+stamp, "HEAVY_RAINFALL", models.AlertSeverityHigh,
			"Heavy Rainfall Alert",
			fmt.Sprintf("Heavy rainfall of %.1fmm in past 24 hours. Flood risk elevated.", w.Rainfall24h),
			"Avoid waterlogged areas. Keep emergency supplies ready."))
	case w.Rainfall24h > 20:
		alerts = append(alerts, base("RAIN-"+stamp, "MODERATE_RAINFALL", models.AlertSeverityModerate,
			"Rainfall Advisory",
			fmt.Sprintf("Moderate rainfall of %.1fmm in past 24 hours.", w.Rainfall24h),
			"Stay alert. Monitor local water levels."))
	}

	if w.SoilMoisture > 0.8 {
		alerts = append(alerts, base("SOIL-"+stamp, "SOIL_SATURATION", models.AlertSeverityHigh,
			"Soil Saturation Warning",
			fmt.Sprintf("Soil moisture at %.0f%%. Ground cannot absorb more water, high runoff expected.", w.SoilMoisture*100),
			"Risk of landslides in hilly areas. Avoid slopes."))
	}

	if w.Rainfall7d > 300 {
		alerts = append(alerts, base("CUM-"+stamp, "CUMULATIVE_RAINFALL", models.AlertSeveritySevere,
			"Prolonged Flooding Risk",
			fmt.Sprintf("Total %.1fmm rainfall over 7 days. Rivers and reservoirs likely at capacity.", w.Rainfall7d),
			"Be prepared for sustained flooding. Follow NDMA guidelines."))
	}

	if w.WeatherCode >= 95 {
		alerts = append(alerts, base("STORM-"+stamp, "THUNDERSTORM", models.AlertSeverityHigh,
			"Severe Thunderstorm",
			fmt.Sprintf("Active thunderstorm detected. %s.", describeWeatherCode(w.WeatherCode)),
			"Stay indoors. Avoid open areas and water bodies."))
	}

	if len(alerts) == 0 {
		alerts = append(alerts, base("OK-"+stamp, "ALL_CLEAR", models.AlertSeverityLow,
			"No Active Warnings",
			fmt.Sprintf("Current conditions normal. Rainfall: %.1fmm/24h. Weather: %s.", w.Rainfall24h, describeWeatherCode(w.WeatherCode)),
			"No action needed. Continue to monitor."))
	}

	return alerts
}
