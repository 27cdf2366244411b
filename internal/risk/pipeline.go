package risk

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/inference"
	"github.com/Ajay0072005/floodsense-ai/internal/models"
	"github.com/Ajay0072005/floodsense-ai/internal/observability"
	"github.com/Ajay0072005/floodsense-ai/internal/realtime"
)

// Predictor is the primary tier: the external inference service.
type Predictor interface {
	Predict(ctx context.Context, lat, lon float64, districtName, stateName string) (inference.Prediction, error)
}

// WeatherSource is the degraded tier consulted when the predictor fails.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
	Discharge(ctx context.Context, lat, lon float64) models.DischargeData
}

// Journal accepts prediction logs for asynchronous persistence.
type Journal interface {
	Submit(log models.PredictionLog)
}

// Publisher pushes events to real-time subscribers.
type Publisher interface {
	Publish(topic string, ev models.Event)
}

// Request identifies a location and its optional administrative context.
type Request struct {
	Lat          float64
	Lon          float64
	DistrictID   string
	DistrictName string
	StateName    string
	RainfallHint float64
}

// Result is a resolved assessment plus the data it was computed from.
type Result struct {
	Assessment models.RiskAssessment
	Weather    models.WeatherSnapshot
	Discharge  models.DischargeData
	Alerts     []models.FloodAlert
}

// Pipeline resolves risk requests through an ordered chain of tiers:
// inference service first, weather-direct heuristic second. Each tier's
// failure is recovered by advancing to the next; only input validation and
// full exhaustion surface to the caller.
type Pipeline struct {
	predictor Predictor
	weather   WeatherSource
	journal   Journal
	publisher Publisher
	weights   config.RiskConfig
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func NewPipeline(predictor Predictor, weather WeatherSource, journal Journal, publisher Publisher, weights config.RiskConfig, metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		predictor: predictor,
		weather:   weather,
		journal:   journal,
		publisher: publisher,
		weights:   weights,
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve produces a risk assessment for the requested location, or fails
// with ErrInvalidLocation / ErrPredictionUnavailable.
func (p *Pipeline) Resolve(ctx context.Context, req Request) (Result, error) {
	if !models.ValidCoordinates(req.Lat, req.Lon) {
		return Result{}, ErrInvalidLocation
	}

	districtName := req.DistrictName
	if districtName == "" {
		districtName = req.DistrictID
	}

	pred, err := p.predictor.Predict(ctx, req.Lat, req.Lon, districtName, req.StateName)
	if err == nil {
		return p.resolvePrimary(req, pred), nil
	}

	p.logger.Warn("inference tier failed, falling back to weather-direct",
		"lat", req.Lat, "lon", req.Lon, "error", err)
	p.metrics.PredictionFallbacks.Inc()

	return p.resolveFallback(ctx, req)
}

func (p *Pipeline) resolvePrimary(req Request, pred inference.Prediction) Result {
	assessment := pred.Assessment
	assessment.Level = models.ClampLevel(assessment.Level, assessment.Score)

	// Persistence is fire-and-forget; a full journal or a dead database must
	// never delay or fail the caller-visible response.
	p.journal.Submit(models.PredictionLog{
		ID:          uuid.NewString(),
		Lat:         req.Lat,
		Lon:         req.Lon,
		DistrictID:  req.DistrictID,
		Score:       assessment.Score,
		Level:       assessment.Level,
		Probability: assessment.Probability,
		Model:       assessment.ModelSource,
		CreatedAt:   time.Now(),
	})

	if req.DistrictID != "" {
		ev := models.NewRiskUpdateEvent(req.DistrictID, assessment)
		p.publisher.Publish(realtime.DistrictTopic(req.DistrictID), ev)
		if topic := realtime.DistrictTopic(req.DistrictID); topic != realtime.TopicAllDistricts {
			p.publisher.Publish(realtime.TopicAllDistricts, ev)
		}
	}

	p.metrics.PredictionsTotal.WithLabelValues(string(models.ModelSourceInference)).Inc()

	return Result{
		Assessment: assessment,
		Weather:    pred.Weather,
		Discharge:  pred.Discharge,
		Alerts:     pred.Alerts,
	}
}

// resolveFallback computes a degraded assessment from a direct weather read.
// The result is advisory, so no RiskUpdate is emitted even when a district is
// known; degraded data must not masquerade as an authoritative reading on
// command dashboards.
func (p *Pipeline) resolveFallback(ctx context.Context, req Request) (Result, error) {
	snapshot, err := p.weather.Current(ctx, req.Lat, req.Lon)
	if err != nil {
		p.logger.Error("weather-direct tier failed, prediction exhausted",
			"lat", req.Lat, "lon", req.Lon, "error", err)
		p.metrics.PredictionFailures.Inc()
		return Result{}, ErrPredictionUnavailable
	}

	discharge := p.weather.Discharge(ctx, req.Lat, req.Lon)

	score := heuristicScore(snapshot.CurrentPrecipitation, req.RainfallHint,
		p.weights.FallbackPrecipWeight, p.weights.FallbackHintWeight)
	level := models.LevelForScore(score)

	assessment := models.RiskAssessment{
		Score:               score,
		Level:               level,
		Probability:         ruleBasedProbability(snapshot, discharge.CurrentDischarge),
		ContributingFactors: contributingFactors(snapshot, discharge.CurrentDischarge),
		Recommendation:      recommendationFor(level),
		ModelSource:         models.ModelSourceFallback,
	}

	p.metrics.PredictionsTotal.WithLabelValues(string(models.ModelSourceFallback)).Inc()

	return Result{
		Assessment: assessment,
		Weather:    snapshot,
		Discharge:  discharge,
		Alerts:     InterpretWeather(snapshot),
	}, nil
}
