package risk

import "errors"

// The pipeline surfaces exactly two error kinds. Adapter failures
// (weather.ErrUnavailable, inference.ErrUnavailable) are recovered internally
// by the fallback chain and never reach the caller.
var (
	ErrInvalidLocation       = errors.New("invalid location")
	ErrPredictionUnavailable = errors.New("prediction unavailable")
)
