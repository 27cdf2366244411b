package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Ajay0072005/floodsense-ai/internal/auth"
	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/observability"
	"github.com/Ajay0072005/floodsense-ai/internal/otp"
)

// mockSender implements OTPSender for testing
type mockSender struct {
	enabled bool
	sendErr error
	sent    []string
}

func (m *mockSender) Enabled() bool { return m.enabled }

func (m *mockSender) SendOTP(_ context.Context, phone, _ string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, phone)
	return nil
}

type authEnv struct {
	router *gin.Engine
	store  *otp.Store
	sender *mockSender
	tokens *auth.TokenService
	clock  *clockwork.FakeClock
}

func setupAuthRouter(t *testing.T) *authEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := clockwork.NewFakeClock()
	env := &authEnv{
		store:  otp.NewStore(5*time.Minute, 3, clock),
		sender: &mockSender{},
		tokens: auth.NewTokenService(config.AuthConfig{
			JWTSecret: "test-secret",
			JWTIssuer: "floodsense",
			TokenTTL:  time.Hour,
		}),
		clock: clock,
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env.router = gin.New()
	handler := NewAuthHandler(env.store, env.sender, env.tokens, metrics, logger)
	handler.RegisterRoutes(env.router)
	return env
}

func TestSendOTP_DemoModeRevealsCode(t *testing.T) {
	env := setupAuthRouter(t)

	w := postJSON(env.router, "/auth/send-otp", gin.H{"phone": "+91 98765-43210"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	code := resp["demo_otp"]
	if len(code) != 6 {
		t.Fatalf("expected 6-digit demo code, got %q", code)
	}

	// The revealed code must verify against the normalized phone.
	if err := env.store.Verify("9876543210", code); err != nil {
		t.Errorf("demo code did not verify: %v", err)
	}
}

func TestSendOTP_SMSDeliveryHidesCode(t *testing.T) {
	env := setupAuthRouter(t)
	env.sender.enabled = true

	w := postJSON(env.router, "/auth/send-otp", gin.H{"phone": "9876543210"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if _, leaked := resp["demo_otp"]; leaked {
		t.Error("code must not appear in the response when SMS delivery succeeds")
	}
	if len(env.sender.sent) != 1 || env.sender.sent[0] != "9876543210" {
		t.Errorf("expected one SMS to 9876543210, got %v", env.sender.sent)
	}
}

func TestSendOTP_FallsBackToDemoWhenDeliveryFails(t *testing.T) {
	env := setupAuthRouter(t)
	env.sender.enabled = true
	env.sender.sendErr = errors.New("gateway rejected")

	w := postJSON(env.router, "/auth/send-otp", gin.H{"phone": "9876543210"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp["demo_otp"]) != 6 {
		t.Errorf("expected demo code when delivery fails, got %q", resp["demo_otp"])
	}
}

func TestSendOTP_InvalidPhone(t *testing.T) {
	env := setupAuthRouter(t)

	w := postJSON(env.router, "/auth/send-otp", gin.H{"phone": "12345"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestVerifyOTP_FullFlow(t *testing.T) {
	env := setupAuthRouter(t)

	code, err := env.store.Issue("9876543210")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	w := postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9876543210", "otp": code})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		User   struct {
			Phone string `json:"phone"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Role != roleCitizen {
		t.Errorf("expected CITIZEN role, got %s", resp.User.Role)
	}

	claims, err := env.tokens.Validate(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.Phone != "9876543210" {
		t.Errorf("expected phone claim 9876543210, got %s", claims.Phone)
	}

	// The code is consumed; a replay must fail.
	w = postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9876543210", "otp": code})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on replay, got %d", w.Code)
	}
}

func TestVerifyOTP_ErrorMapping(t *testing.T) {
	env := setupAuthRouter(t)

	code, err := env.store.Issue("9876543210")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	// No OTP requested for this number.
	w := postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9123456789", "otp": "123456"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown phone: expected 404, got %d", w.Code)
	}

	// Wrong code, three times.
	for i := 0; i < 3; i++ {
		w = postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9876543210", "otp": wrong})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	// Attempts exhausted; even the right code is rejected.
	w = postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9876543210", "otp": code})
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exhausted attempts, got %d", w.Code)
	}

	// Expiry.
	code, err = env.store.Issue("9876543210")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	env.clock.Advance(5*time.Minute + time.Second)
	w = postJSON(env.router, "/auth/verify-otp", gin.H{"phone": "9876543210", "otp": code})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired OTP, got %d", w.Code)
	}
}

func TestSignup_IssuesToken(t *testing.T) {
	env := setupAuthRouter(t)

	w := postJSON(env.router, "/auth/signup", gin.H{
		"phone":    "9876543210",
		"fullName": "Asha Rao",
		"state":    "Delhi",
		"district": "DL1",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			FullName string `json:"fullName"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.FullName != "Asha Rao" {
		t.Errorf("expected fullName echoed, got %q", resp.User.FullName)
	}
}

func TestLogin_NormalizesPhone(t *testing.T) {
	env := setupAuthRouter(t)

	w := postJSON(env.router, "/auth/login", gin.H{"phone": "+91 98765 43210"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	claims, err := env.tokens.Validate(resp.Token)
	if err != nil {
		t.Fatalf("token validation failed: %v", err)
	}
	if claims.Phone != "9876543210" {
		t.Errorf("expected normalized phone, got %s", claims.Phone)
	}
}
