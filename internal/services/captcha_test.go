package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func turnstileStub(t *testing.T, success bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "secret", r.PostForm.Get("secret"))
		assert.Equal(t, "203.0.113.9", r.PostForm.Get("remoteip"))

		w.Header().Set("Content-Type", "application/json")
		if success {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCaptcha_Disabled(t *testing.T) {
	var nilService *CaptchaService
	assert.False(t, nilService.Enabled())
	assert.NoError(t, nilService.Verify(context.Background(), "", ""))

	s := NewCaptchaService("site", "")
	assert.False(t, s.Enabled())
	assert.Equal(t, CaptchaConfig{}, s.Config())
}

func TestCaptcha_Verify(t *testing.T) {
	s := NewCaptchaService("site", "secret")
	assert.Equal(t, CaptchaConfig{Enabled: true, SiteKey: "site"}, s.Config())

	s.verifyURL = turnstileStub(t, true).URL
	assert.NoError(t, s.Verify(context.Background(), "token", "203.0.113.9"))

	s.verifyURL = turnstileStub(t, false).URL
	err := s.Verify(context.Background(), "token", "203.0.113.9")
	assert.ErrorIs(t, err, ErrCaptchaFailed)
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestCaptcha_MissingToken(t *testing.T) {
	s := NewCaptchaService("site", "secret")
	assert.ErrorIs(t, s.Verify(context.Background(), "", ""), ErrCaptchaFailed)
}
