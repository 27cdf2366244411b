package models

import "testing"

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLevelLow},
		{4, RiskLevelLow},
		{4.1, RiskLevelModerate},
		{7, RiskLevelModerate},
		{7.1, RiskLevelHigh},
		{10, RiskLevelHigh},
	}

	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestClampLevel(t *testing.T) {
	// A model label below the score's threshold floor is raised.
	if got := ClampLevel(RiskLevelLow, 9.0); got != RiskLevelHigh {
		t.Errorf("expected LOW at score 9 to clamp to HIGH, got %s", got)
	}
	if got := ClampLevel(RiskLevelLow, 5.0); got != RiskLevelModerate {
		t.Errorf("expected LOW at score 5 to clamp to MODERATE, got %s", got)
	}
	// A label above the floor passes through unchanged.
	if got := ClampLevel(RiskLevelSevere, 2.0); got != RiskLevelSevere {
		t.Errorf("expected SEVERE to pass through, got %s", got)
	}
	if got := ClampLevel(RiskLevelModerate, 5.0); got != RiskLevelModerate {
		t.Errorf("expected MODERATE at score 5 unchanged, got %s", got)
	}
	// Unknown labels rank lowest and always clamp up.
	if got := ClampLevel(RiskLevel("EXTREME"), 8.0); got != RiskLevelHigh {
		t.Errorf("expected unknown label at score 8 to clamp to HIGH, got %s", got)
	}
}

func TestAtLeast(t *testing.T) {
	if !RiskLevelHigh.AtLeast(RiskLevelModerate) {
		t.Error("HIGH should be at least MODERATE")
	}
	if RiskLevelLow.AtLeast(RiskLevelModerate) {
		t.Error("LOW should not be at least MODERATE")
	}
	if !RiskLevelSevere.AtLeast(RiskLevelSevere) {
		t.Error("a level should be at least itself")
	}
}

func TestValidCoordinates(t *testing.T) {
	valid := [][2]float64{{0, 0}, {28.61, 77.22}, {-90, -180}, {90, 180}}
	for _, c := range valid {
		if !ValidCoordinates(c[0], c[1]) {
			t.Errorf("expected (%v, %v) to be valid", c[0], c[1])
		}
	}
	invalid := [][2]float64{{90.1, 0}, {-90.1, 0}, {0, 180.1}, {0, -180.1}}
	for _, c := range invalid {
		if ValidCoordinates(c[0], c[1]) {
			t.Errorf("expected (%v, %v) to be invalid", c[0], c[1])
		}
	}
}
