package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
	"github.com/Ajay0072005/floodsense-ai/internal/observability"
	"github.com/Ajay0072005/floodsense-ai/internal/realtime"
	"github.com/Ajay0072005/floodsense-ai/internal/repository"
	"github.com/Ajay0072005/floodsense-ai/internal/risk"
)

// Delhi; the mobile client omits coordinates until the user grants location
// access, so the original backend defaulted here too.
const (
	defaultLat = 28.61
	defaultLon = 77.22
)

// RiskResolver runs the risk resolution pipeline.
type RiskResolver interface {
	Resolve(ctx context.Context, req risk.Request) (risk.Result, error)
}

// WeatherSource serves the direct weather/discharge endpoints.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
	Discharge(ctx context.Context, lat, lon float64) models.DischargeData
}

type Handler struct {
	resolver  RiskResolver
	weather   WeatherSource
	reports   repository.ReportRepository
	hub       *realtime.Hub
	metrics   *observability.Metrics
	logger    *slog.Logger
	cortexURL string
}

func NewHandler(resolver RiskResolver, weather WeatherSource, reports repository.ReportRepository, hub *realtime.Hub, metrics *observability.Metrics, logger *slog.Logger, cortexURL string) *Handler {
	return &Handler{
		resolver:  resolver,
		weather:   weather,
		reports:   reports,
		hub:       hub,
		metrics:   metrics,
		logger:    logger,
		cortexURL: cortexURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.POST("/risk/calculate", h.calculateRisk)
	r.POST("/api/predict/bulk", h.bulkPredict)
	r.GET("/api/weather/:lat/:lon", h.getWeather)
	r.GET("/api/discharge/:lat/:lon", h.getDischarge)
	r.GET("/api/alerts/:lat/:lon", h.getAlerts)
	r.GET("/api/reports", h.listReports)
	r.POST("/api/reports", h.createReport)
	r.GET("/ws", realtime.ServeWS(h.hub, h.logger))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "FloodSense Core API",
		"ai_cortex": h.cortexURL,
	})
}

type riskRequest struct {
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	DistrictID   string   `json:"districtId"`
	DistrictName string   `json:"district_name"`
	StateName    string   `json:"state_name"`
	Rainfall     float64  `json:"rainfall"`
}

func (h *Handler) calculateRisk(c *gin.Context) {
	var body riskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	lat, lon := defaultLat, defaultLon
	if body.Lat != nil {
		lat = *body.Lat
	}
	if body.Lon != nil {
		lon = *body.Lon
	}

	result, err := h.resolver.Resolve(c.Request.Context(), risk.Request{
		Lat:          lat,
		Lon:          lon,
		DistrictID:   body.DistrictID,
		DistrictName: body.DistrictName,
		StateName:    body.StateName,
		RainfallHint: body.Rainfall,
	})
	if err != nil {
		switch {
		case errors.Is(err, risk.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "coordinates out of range"})
		case errors.Is(err, risk.ErrPredictionUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "prediction unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":               "calculated",
		"riskScore":            result.Assessment.Score,
		"riskLevel":            result.Assessment.Level,
		"probability":          result.Assessment.Probability,
		"contributing_factors": result.Assessment.ContributingFactors,
		"recommendation":       result.Assessment.Recommendation,
		"weather":              result.Weather,
		"discharge":            result.Discharge,
		"alerts":               result.Alerts,
		"model":                result.Assessment.ModelSource,
	})
}

type bulkLocation struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	District string  `json:"district"`
	State    string  `json:"state"`
}

type bulkResult struct {
	Lat         float64          `json:"lat"`
	Lon         float64          `json:"lon"`
	District    string           `json:"district,omitempty"`
	State       string           `json:"state,omitempty"`
	RiskLevel   models.RiskLevel `json:"risk_level,omitempty"`
	RiskScore   float64          `json:"risk_score"`
	Probability float64          `json:"probability"`
	Rainfall24h float64          `json:"rainfall_24h"`
	Error       string           `json:"error,omitempty"`
}

// bulkPredict resolves many map tiles in one request. Failures are recorded
// per row so one bad tile cannot sink the whole map refresh.
func (h *Handler) bulkPredict(c *gin.Context) {
	var body struct {
		Locations []bulkLocation `json:"locations"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}
	if len(body.Locations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "no locations provided"})
		return
	}

	results := make([]bulkResult, 0, len(body.Locations))
	for _, loc := range body.Locations {
		row := bulkResult{Lat: loc.Lat, Lon: loc.Lon, District: loc.District, State: loc.State}

		res, err := h.resolver.Resolve(c.Request.Context(), risk.Request{
			Lat:          loc.Lat,
			Lon:          loc.Lon,
			DistrictName: loc.District,
			StateName:    loc.State,
		})
		if err != nil {
			row.Error = err.Error()
		} else {
			row.RiskLevel = res.Assessment.Level
			row.RiskScore = res.Assessment.Score
			row.Probability = res.Assessment.Probability
			row.Rainfall24h = res.Weather.Rainfall24h
		}
		results = append(results, row)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"count":   len(results),
		"results": results,
	})
}

func parseCoords(c *gin.Context) (float64, float64, bool) {
	lat, err1 := strconv.ParseFloat(c.Param("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Param("lon"), 64)
	if err1 != nil || err2 != nil || !models.ValidCoordinates(lat, lon) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid coordinates"})
		return 0, 0, false
	}
	return lat, lon, true
}

func (h *Handler) getWeather(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	snapshot, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "weather data unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": snapshot, "source": "direct"})
}

func (h *Handler) getDischarge(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.weather.Discharge(c.Request.Context(), lat, lon),
	})
}

func (h *Handler) getAlerts(c *gin.Context) {
	lat, lon, ok := parseCoords(c)
	if !ok {
		return
	}

	snapshot, err := h.weather.Current(c.Request.Context(), lat, lon)
	if err != nil {
		// Degrade to a low-severity notice; dashboards keep rendering.
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"alerts": []models.FloodAlert{{
				Severity:  models.AlertSeverityLow,
				Title:     "Service temporarily unavailable",
				Message:   "Alert service is restarting.",
				Timestamp: time.Now(),
			}},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "alerts": risk.InterpretWeather(snapshot)})
}

func (h *Handler) listReports(c *gin.Context) {
	filter := repository.Filter{
		Limit: 50,
	}
	if d := c.Query("district"); d != "" {
		filter.DistrictID = &d
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	reports, err := h.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list reports failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "reports": reports})
}

type reportRequest struct {
	Phone       string  `json:"phone"`
	District    string  `json:"district"`
	State       string  `json:"state"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

func (h *Handler) createReport(c *gin.Context) {
	var body reportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}
	if !models.ValidCoordinates(body.Lat, body.Lon) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "coordinates out of range"})
		return
	}

	severity := models.AlertSeverity(body.Severity)
	switch severity {
	case models.AlertSeverityLow, models.AlertSeverityModerate, models.AlertSeverityHigh, models.AlertSeveritySevere:
	default:
		severity = models.AlertSeverityModerate
	}

	report := models.Report{
		ID:          uuid.NewString(),
		Phone:       body.Phone,
		District:    body.District,
		State:       body.State,
		Severity:    severity,
		Description: body.Description,
		Lat:         body.Lat,
		Lon:         body.Lon,
		CreatedAt:   time.Now(),
	}

	if err := h.reports.AddReport(c.Request.Context(), &report); err != nil {
		h.logger.Error("save report failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to save report"})
		return
	}

	ev := models.NewReportEvent(report)
	h.hub.Publish(realtime.TopicReports, ev)
	if report.District != "" {
		h.hub.Publish(realtime.DistrictTopic(report.District), ev)
	}
	h.metrics.ReportsCreated.Inc()

	c.JSON(http.StatusCreated, gin.H{"status": "success", "report": report})
}
