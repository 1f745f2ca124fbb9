package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

var ErrCaptchaFailed = errors.New("captcha verification failed")

// CaptchaService verifies Cloudflare Turnstile tokens on the public lead form
type CaptchaService struct {
	siteKey    string
	secretKey  string
	verifyURL  string
	httpClient *http.Client
}

// TurnstileResponse is the body returned by the siteverify endpoint
type TurnstileResponse struct {
	Success     bool     `json:"success"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
}

// CaptchaConfig is what the public site needs to render the widget
type CaptchaConfig struct {
	Enabled bool   `json:"enabled"`
	SiteKey string `json:"site_key"`
}

func NewCaptchaService(siteKey, secretKey string) *CaptchaService {
	return &CaptchaService{
		siteKey:   siteKey,
		secretKey: secretKey,
		verifyURL: turnstileVerifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether tokens are checked. A nil service is disabled.
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.siteKey != "" && s.secretKey != ""
}

// Config returns the public captcha configuration (site key only)
func (s *CaptchaService) Config() CaptchaConfig {
	if !s.Enabled() {
		return CaptchaConfig{}
	}
	return CaptchaConfig{Enabled: true, SiteKey: s.siteKey}
}

// Verify checks a token with Cloudflare. It always passes when disabled.
func (s *CaptchaService) Verify(ctx context.Context, token, remoteIP string) error {
	if !s.Enabled() {
		return nil
	}
	if token == "" {
		return fmt.Errorf("%w: missing token", ErrCaptchaFailed)
	}

	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify captcha: %w", err)
	}
	defer resp.Body.Close()

	var result TurnstileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse verification response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("%w: %v", ErrCaptchaFailed, result.ErrorCodes)
	}
	return nil
}
