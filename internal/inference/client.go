package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

// ErrUnavailable covers every way the prediction service can fail: transport
// errors, non-2xx statuses, and malformed bodies. The client never retries;
// retry policy belongs to the caller, and the resolution pipeline chooses to
// fall through instead.
var ErrUnavailable = errors.New("inference unavailable")

// Prediction is the full payload produced by the AI cortex for one location.
type Prediction struct {
	Assessment models.RiskAssessment
	Weather    models.WeatherSnapshot
	Discharge  models.DischargeData
	Alerts     []models.FloodAlert
}

// Client is a typed wire boundary to the external prediction service. It
// performs no inference itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.CortexConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type predictRequest struct {
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	DistrictName string  `json:"district_name,omitempty"`
	StateName    string  `json:"state_name,omitempty"`
}

type predictResponse struct {
	Risk struct {
		RiskScore           float64                     `json:"risk_score"`
		RiskLevel           models.RiskLevel            `json:"risk_level"`
		Probability         float64                     `json:"probability"`
		ContributingFactors []models.ContributingFactor `json:"contributing_factors"`
		Recommendation      string                      `json:"recommendation"`
	} `json:"risk"`
	Weather   models.WeatherSnapshot `json:"weather"`
	Discharge models.DischargeData   `json:"discharge"`
	Alerts    []models.FloodAlert    `json:"alerts"`
}

// Predict requests a risk assessment for the given coordinates with optional
// district/state context.
func (c *Client) Predict(ctx context.Context, lat, lon float64, districtName, stateName string) (Prediction, error) {
	body, err := json.Marshal(predictRequest{
		Lat:          lat,
		Lon:          lon,
		DistrictName: districtName,
		StateName:    stateName,
	})
	if err != nil {
		return Prediction{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Prediction{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("do request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Prediction{}, fmt.Errorf("unexpected status %s: %w", resp.Status, ErrUnavailable)
	}

	var data predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Prediction{}, fmt.Errorf("decode response: %v: %w", err, ErrUnavailable)
	}

	return Prediction{
		Assessment: models.RiskAssessment{
			Score:               data.Risk.RiskScore,
			Level:               data.Risk.RiskLevel,
			Probability:         data.Risk.Probability,
			ContributingFactors: data.Risk.ContributingFactors,
			Recommendation:      data.Risk.Recommendation,
			ModelSource:         models.ModelSourceInference,
		},
		Weather:   data.Weather,
		Discharge: data.Discharge,
		Alerts:    data.Alerts,
	}, nil
}
