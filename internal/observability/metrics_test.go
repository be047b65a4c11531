package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRegisteredIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		EnsureRegistered()
		EnsureRegistered()
	})
}

func TestMetricsEndpoint(t *testing.T) {
	RecordExchange("en", true)
	RecordExchange("hi", false)
	RecordDetection("te")
	RecordLLMRequest("gemini", 120*time.Millisecond)
	RecordLLMRetry("gemini")
	RecordLLMError("gemini", "transient")
	SetActiveSessions(2)
	SetWebsocketClients(1)

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "exchanges_total")
	assert.Contains(t, body, "detections_total")
	assert.Contains(t, body, "llm_request_duration_seconds")
	assert.Contains(t, body, "llm_retries_total")
	assert.Contains(t, body, "llm_errors_total")
	assert.Contains(t, body, "active_sessions 2")
	assert.Contains(t, body, "websocket_clients 1")
}
