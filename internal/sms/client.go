package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ajay0072005/floodsense-ai/internal/config"
)

// Client delivers OTP codes through an SMS gateway. With no API key
// configured the client is disabled and callers fall back to revealing the
// code in the response (demo mode).
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.SMSConfig, logger *slog.Logger) *Client {
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a gateway key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type gatewayResponse struct {
	Return  bool   `json:"return"`
	Message any    `json:"message"`
	Request string `json:"request_id"`
}

// SendOTP submits the code for delivery to a ten-digit phone number. The
// gateway signals success with a boolean "return" field in the body.
func (c *Client) SendOTP(ctx context.Context, phone, code string) error {
	if !c.Enabled() {
		return fmt.Errorf("sms gateway not configured")
	}

	form := url.Values{
		"route":            {"otp"},
		"variables_values": {code},
		"numbers":          {phone},
		"flash":            {"0"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var body gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	if !body.Return {
		return fmt.Errorf("gateway rejected message: %v", body.Message)
	}

	c.logger.Debug("otp sms dispatched", "request_id", body.Request)
	return nil
}
