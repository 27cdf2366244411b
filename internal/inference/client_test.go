package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

func testClient(url string) *Client {
	return NewClient(config.CortexConfig{URL: url, Timeout: 2 * time.Second})
}

func TestPredict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 28.61, req["lat"])
		assert.Equal(t, 77.22, req["lon"])
		assert.Equal(t, "Central Delhi", req["district_name"])
		assert.Equal(t, "Delhi", req["state_name"])

		json.NewEncoder(w).Encode(map[string]any{
			"risk": map[string]any{
				"risk_score":  8.5,
				"risk_level":  "HIGH",
				"probability": 0.85,
				"contributing_factors": []map[string]string{
					{"factor": "Heavy Rainfall (24h)", "value": "120.0mm", "impact": "HIGH"},
				},
				"recommendation": "Prepare for possible flooding.",
				"model":          "trained",
			},
			"weather":   map[string]any{"rainfall_24h": 120.0, "temperature": 29.0},
			"discharge": map[string]any{"current_discharge": 1500.0},
			"alerts":    []map[string]any{{"severity": "HIGH", "type": "HEAVY_RAINFALL"}},
		})
	}))
	defer srv.Close()

	pred, err := testClient(srv.URL).Predict(context.Background(), 28.61, 77.22, "Central Delhi", "Delhi")
	require.NoError(t, err)

	assert.Equal(t, 8.5, pred.Assessment.Score)
	assert.Equal(t, models.RiskLevelHigh, pred.Assessment.Level)
	assert.Equal(t, 0.85, pred.Assessment.Probability)
	assert.Equal(t, models.ModelSourceInference, pred.Assessment.ModelSource)
	assert.Len(t, pred.Assessment.ContributingFactors, 1)
	assert.Equal(t, 120.0, pred.Weather.Rainfall24h)
	assert.Equal(t, 1500.0, pred.Discharge.CurrentDischarge)
	assert.Len(t, pred.Alerts, 1)
}

func TestPredict_Non2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Predict(context.Background(), 28.61, 77.22, "", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPredict_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Predict(context.Background(), 28.61, 77.22, "", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPredict_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(srv.URL).Predict(context.Background(), 28.61, 77.22, "", "")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPredict_DoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Predict(context.Background(), 28.61, 77.22, "", "")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, calls)
}
