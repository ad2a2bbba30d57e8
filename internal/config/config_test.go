package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTimeout)
	assert.Equal(t, 14*24*time.Hour, cfg.RememberSessionTimeout)
	assert.Equal(t, 12, cfg.PasswordLength)
	assert.Equal(t, "Customer", cfg.ImportDefaultRole)
	assert.Equal(t, "+91", cfg.DefaultCountryCode)
	assert.False(t, cfg.WhatsAppGatewayEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BASE_URL", "erp.example.com/")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("PASSWORD_LENGTH", "20")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("WHATSAPP_API_URL", "https://gateway.test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "erp.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 20, cfg.PasswordLength)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.WhatsAppGatewayEnabled())
}

func TestPasswordLengthIsClamped(t *testing.T) {
	t.Setenv("PASSWORD_LENGTH", "6")

	assert.Equal(t, 12, Load().PasswordLength)
}

func TestLoginURL(t *testing.T) {
	cases := map[string]string{
		"localhost:8080":          "http://localhost:8080/accounts/login/",
		"https://erp.example.com": "https://erp.example.com/accounts/login/",
	}
	for base, want := range cases {
		cfg := &Config{BaseURL: base}
		assert.Equal(t, want, cfg.LoginURL())
	}
}
