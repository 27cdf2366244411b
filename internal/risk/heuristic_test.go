package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name   string
		precip float64
		hint   float64
		want   float64
	}{
		{"zero input", 0, 0, 0},
		{"precip only", 10, 0, 5.0},
		{"hint only", 0, 10, 3.0},
		{"capped at ten", 20, 10, 10.0},
		{"rounded to one decimal", 3.33, 0, 1.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristicScore(tt.precip, tt.hint, 0.5, 0.3)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleBasedProbability_Bands(t *testing.T) {
	dry := models.WeatherSnapshot{}
	assert.Zero(t, ruleBasedProbability(dry, 0))

	soaked := models.WeatherSnapshot{Rainfall24h: 250, Rainfall7d: 600, SoilMoisture: 0.9}
	// 0.4 + 0.25 + 0.2 + discharge 0.15 = 1.0 exactly at the cap
	assert.Equal(t, 1.0, ruleBasedProbability(soaked, 6000))

	moderate := models.WeatherSnapshot{Rainfall24h: 60, Rainfall7d: 150, SoilMoisture: 0.6}
	p := ruleBasedProbability(moderate, 500)
	assert.InDelta(t, 0.2+0.08+0.1+0.03, p, 0.0001)
}

func TestRecommendationMatchesLevel(t *testing.T) {
	assert.Contains(t, recommendationFor(models.RiskLevelSevere), "evacuation")
	assert.Contains(t, recommendationFor(models.RiskLevelHigh), "flooding")
	assert.Contains(t, recommendationFor(models.RiskLevelModerate), "alert")
	assert.Contains(t, recommendationFor(models.RiskLevelLow), "routine")
}

func TestContributingFactors(t *testing.T) {
	quiet := contributingFactors(models.WeatherSnapshot{}, 0)
	assert.Len(t, quiet, 1)
	assert.Equal(t, "Normal Conditions", quiet[0].Factor)

	extreme := contributingFactors(models.WeatherSnapshot{
		Rainfall24h:  120,
		Rainfall7d:   400,
		SoilMoisture: 0.85,
	}, 2000)
	assert.Len(t, extreme, 5, "factor list is capped at five")
	assert.Equal(t, "Heavy Rainfall (24h)", extreme[0].Factor)
}
