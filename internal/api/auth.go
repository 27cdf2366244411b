package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ajay0072005/floodsense-ai/internal/auth"
	"github.com/Ajay0072005/floodsense-ai/internal/observability"
	"github.com/Ajay0072005/floodsense-ai/internal/otp"
)

const roleCitizen = "CITIZEN"

// OTPSender delivers codes out of band. When disabled, the issue response
// reveals the code directly (demo mode, used in keyless deployments).
type OTPSender interface {
	Enabled() bool
	SendOTP(ctx context.Context, phone, code string) error
}

type AuthHandler struct {
	store   *otp.Store
	sender  OTPSender
	tokens  *auth.TokenService
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewAuthHandler(store *otp.Store, sender OTPSender, tokens *auth.TokenService, metrics *observability.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		store:   store,
		sender:  sender,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/send-otp", h.sendOTP)
	r.POST("/auth/verify-otp", h.verifyOTP)
	r.POST("/auth/signup", h.signup)
	r.POST("/auth/login", h.login)
}

func (h *AuthHandler) sendOTP(c *gin.Context) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	normalized, err := otp.NormalizePhone(body.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid phone number"})
		return
	}

	code, err := h.store.Issue(normalized)
	if err != nil {
		h.logger.Error("otp issue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "could not issue OTP"})
		return
	}
	h.metrics.OTPIssued.Inc()

	if h.sender.Enabled() {
		if err := h.sender.SendOTP(c.Request.Context(), normalized, code); err == nil {
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "OTP sent via SMS"})
			return
		}
		h.logger.Warn("otp sms delivery failed, revealing code in response", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "OTP generated (SMS delivery not configured)",
		"demo_otp": code,
	})
}

func (h *AuthHandler) verifyOTP(c *gin.Context) {
	var body struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	if err := h.store.Verify(body.Phone, body.OTP); err != nil {
		h.rejectOTP(c, err)
		return
	}
	h.metrics.OTPVerified.Inc()

	normalized, err := otp.NormalizePhone(body.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid phone number"})
		return
	}

	h.issueToken(c, normalized, gin.H{"phone": normalized, "role": roleCitizen})
}

func (h *AuthHandler) rejectOTP(c *gin.Context, err error) {
	switch {
	case errors.Is(err, otp.ErrInvalidPhone):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid phone number"})
	case errors.Is(err, otp.ErrNotFound):
		h.metrics.OTPFailures.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "no OTP requested for this number"})
	case errors.Is(err, otp.ErrExpired):
		h.metrics.OTPFailures.WithLabelValues("expired").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "OTP expired, request a new one"})
	case errors.Is(err, otp.ErrTooManyAttempts):
		h.metrics.OTPFailures.WithLabelValues("too_many_attempts").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"status": "error", "message": "too many attempts, request a new OTP"})
	case errors.Is(err, otp.ErrInvalidCode):
		h.metrics.OTPFailures.WithLabelValues("invalid_code").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "incorrect OTP"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "verification failed"})
	}
}

type signupRequest struct {
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	State    string `json:"state"`
	District string `json:"district"`
}

func (h *AuthHandler) signup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	normalized, err := otp.NormalizePhone(body.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid phone number"})
		return
	}

	h.issueToken(c, normalized, gin.H{
		"phone":    normalized,
		"fullName": body.FullName,
		"state":    body.State,
		"district": body.District,
		"role":     roleCitizen,
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var body struct {
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid request body"})
		return
	}

	normalized, err := otp.NormalizePhone(body.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid phone number"})
		return
	}

	h.issueToken(c, normalized, gin.H{"phone": normalized, "role": roleCitizen})
}

func (h *AuthHandler) issueToken(c *gin.Context, phone string, user gin.H) {
	token, err := h.tokens.Issue(phone, roleCitizen)
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token, "user": user})
}
