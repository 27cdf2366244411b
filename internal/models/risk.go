package models

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelModerate RiskLevel = "MODERATE"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelSevere   RiskLevel = "SEVERE"
)

// rank orders levels so they can be compared; unknown levels rank lowest.
func (l RiskLevel) rank() int {
	switch l {
	case RiskLevelLow:
		return 1
	case RiskLevelModerate:
		return 2
	case RiskLevelHigh:
		return 3
	case RiskLevelSevere:
		return 4
	default:
		return 0
	}
}

func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.rank() >= other.rank()
}

// LevelForScore maps a 0-10 risk score onto a level using fixed thresholds.
// The same thresholds apply to primary and fallback predictions.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score > 7:
		return RiskLevelHigh
	case score > 4:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// ClampLevel returns level, raised if necessary so it is never lower than
// the threshold mapping of score. Level must be monotonic in score.
func ClampLevel(level RiskLevel, score float64) RiskLevel {
	if floor := LevelForScore(score); !level.AtLeast(floor) {
		return floor
	}
	return level
}

type ModelSource string

const (
	ModelSourceInference ModelSource = "inference-service"
	ModelSourceFallback  ModelSource = "fallback-heuristic"
)

type ContributingFactor struct {
	Factor string `json:"factor"`
	Value  string `json:"value"`
	Impact string `json:"impact"`
}

type RiskAssessment struct {
	Score               float64              `json:"riskScore"`
	Level               RiskLevel            `json:"riskLevel"`
	Probability         float64              `json:"probability"`
	ContributingFactors []ContributingFactor `json:"contributing_factors"`
	Recommendation      string               `json:"recommendation"`
	ModelSource         ModelSource          `json:"model"`
}
