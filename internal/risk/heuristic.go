package risk

import (
	"fmt"
	"math"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

// heuristicScore computes the degraded risk score used when the inference
// service is down: a weighted blend of live precipitation and the caller's
// rainfall hint, capped at 10 and rounded to one decimal place.
func heuristicScore(precipitation, rainfallHint, precipWeight, hintWeight float64) float64 {
	score := math.Min(10, precipitation*precipWeight+rainfallHint*hintWeight)
	return math.Round(score*10) / 10
}

// ruleBasedProbability estimates flood probability from observed conditions.
// Banded contributions mirror the rule model the inference service itself
// falls back on when no trained model is loaded.
func ruleBasedProbability(w models.WeatherSnapshot, discharge float64) float64 {
	var score float64

	switch {
	case w.Rainfall24h > 200:
		score += 0.4
	case w.Rainfall24h > 100:
		score += 0.3
	case w.Rainfall24h > 50:
		score += 0.2
	case w.Rainfall24h > 20:
		score += 0.1
	}

	switch {
	case w.Rainfall7d > 500:
		score += 0.25
	case w.Rainfall7d > 200:
		score += 0.15
	case w.Rainfall7d > 100:
		score += 0.08
	}

	switch {
	case w.SoilMoisture > 0.8:
		score += 0.2
	case w.SoilMoisture > 0.5:
		score += 0.1
	}

	switch {
	case discharge > 5000:
		score += 0.15
	case discharge > 1000:
		score += 0.08
	case discharge > 100:
		score += 0.03
	}

	return math.Min(1, math.Max(0, score))
}

// recommendationFor returns guidance text for a risk level.
func recommendationFor(level models.RiskLevel) string {
	switch level {
	case models.RiskLevelSevere:
		return "Immediate evacuation recommended. Contact NDRF helpline 1078."
	case models.RiskLevelHigh:
		return "Prepare for possible flooding. Move valuables to higher ground."
	case models.RiskLevelModerate:
		return "Stay alert. Monitor weather updates and river levels."
	default:
		return "No immediate flood risk. Continue routine monitoring."
	}
}

// contributingFactors extracts the top explainability factors from observed
// conditions, most significant first, capped at five.
func contributingFactors(w models.WeatherSnapshot, discharge float64) []models.ContributingFactor {
	var factors []models.ContributingFactor

	if w.Rainfall24h > 50 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Heavy Rainfall (24h)", Value: fmt.Sprintf("%.1fmm", w.Rainfall24h), Impact: "HIGH",
		})
	}
	if w.Rainfall7d > 200 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Cumulative Rainfall (7d)", Value: fmt.Sprintf("%.1fmm", w.Rainfall7d), Impact: "HIGH",
		})
	}
	if w.SoilMoisture > 0.7 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Soil Saturation", Value: fmt.Sprintf("%.0f%%", w.SoilMoisture*100), Impact: "HIGH",
		})
	}
	if discharge > 1000 {
		factors = append(factors, models.ContributingFactor{
			Factor: "River Discharge", Value: fmt.Sprintf("%.0f m³/s", discharge), Impact: "HIGH",
		})
	}
	if w.Rainfall24h > 20 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Moderate Rainfall", Value: fmt.Sprintf("%.1fmm", w.Rainfall24h), Impact: "MODERATE",
		})
	}
	if w.SoilMoisture > 0.4 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Elevated Soil Moisture", Value: fmt.Sprintf("%.0f%%", w.SoilMoisture*100), Impact: "MODERATE",
		})
	}

	if len(factors) == 0 {
		factors = append(factors, models.ContributingFactor{
			Factor: "Normal Conditions", Value: "All parameters within safe range", Impact: "LOW",
		})
	}
	if len(factors) > 5 {
		factors = factors[:5]
	}
	return factors
}
