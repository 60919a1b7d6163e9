package audit

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

func TestLogFromRequest(t *testing.T) {
	buf := captureLog(t)

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("User-Agent", "crm-test")

	LogFromRequest(req, Event{
		Type:    EventLoginFailure,
		Details: map[string]interface{}{"email": "test@example.com", "attempt": 2},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "security", entry["audit"])
	assert.Equal(t, "login_failure", entry["event_type"])
	assert.Equal(t, "203.0.113.7", entry["ip"])
	assert.Equal(t, "crm-test", entry["user_agent"])
	assert.Equal(t, "test@example.com", entry["email"])
	assert.Equal(t, float64(2), entry["attempt"])
}

func TestClientIP(t *testing.T) {
	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Real-IP", "198.51.100.2")
		assert.Equal(t, "198.51.100.2", ClientIP(req))
	})

	t.Run("falls back to remote address", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Equal(t, req.RemoteAddr, ClientIP(req))
	})
}
