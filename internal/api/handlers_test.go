package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mikey/spam-gateway/internal/adapters/session"
	"github.com/mikey/spam-gateway/internal/api"
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/mikey/spam-gateway/internal/tools"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	result *core.ClassifierResult
}

func (s *stubClassifier) Classify(_ context.Context, _ string) (*core.ClassifierResult, error) {
	return s.result, nil
}

func (s *stubClassifier) ModelName() string { return "stub-classifier" }

type stubGenerator struct {
	response string
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

func (s *stubGenerator) ModelName() string { return "stub-generator" }

type testEnv struct {
	router http.Handler
	store  *session.MemoryStore
}

func newTestEnv(t *testing.T, classifierResult *core.ClassifierResult, generatorResponse string) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	policy := core.DefaultRoutingPolicy()
	generator := &stubGenerator{response: generatorResponse}
	registry := tools.NewRegistry(generator, core.NewPromptBuilder(), logger)
	agent := core.NewVerdictAgent(generator, registry, core.NewPromptBuilder(), policy, logger)
	store := session.NewMemoryStore(logger)
	classifier := &stubClassifier{result: classifierResult}
	gateway := core.NewGatewayService(classifier, agent, policy, store, nil, logger)

	handler := api.NewHandler(gateway, store, registry, generator, policy, logger)
	router := api.NewRouter(handler, prometheus.NewRegistry())

	return &testEnv{router: router, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestAnalyzeEmailEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: false, Confidence: 0.98}, "")

	recorder := env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
		"subject": "Weekly report",
		"content": "numbers attached",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, false, payload["is_spam"])
	assert.Equal(t, 0.98, payload["confidence"])
	assert.Contains(t, payload["processing_path"], "immediate_pass")
}

func TestAnalyzeEmailEndpointRequiresFields(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: false, Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
		"subject": "no content field",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: true, Confidence: 0.99}, "")

	recorder := env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
		"subject": "WIN BIG",
		"content": "click here",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	sessionID := payload["metadata"].(map[string]interface{})["session_id"].(string)

	recorder = env.do(t, http.MethodGet, "/mcp/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	detail := decodeBody(t, recorder)
	assert.Equal(t, sessionID, detail["session_id"])
	assert.Equal(t, "completed", detail["status"])
	assert.NotNil(t, detail["processing_time"])

	steps, ok := detail["processing_steps"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, "session_created", steps[0])
	assert.Equal(t, "completed", steps[len(steps)-1])
}

func TestGetSessionNotFound(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodGet, "/mcp/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListSessionsEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: false, Confidence: 0.97}, "")

	for i := 0; i < 3; i++ {
		recorder := env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
			"subject": "hello",
			"content": "world",
		})
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := env.do(t, http.MethodGet, "/mcp/sessions?limit=2", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(3), payload["total_sessions"])
	assert.Equal(t, float64(2), payload["returned_sessions"])
}

func TestListSessionsTruncatesMultibyteSubjectsCleanly(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: false, Confidence: 0.97}, "")

	subject := strings.Repeat("회원님께 중요한 안내 ", 10)
	recorder := env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
		"subject": subject,
		"content": "본문",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/mcp/sessions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	sessions := payload["sessions"].([]interface{})
	require.Len(t, sessions, 1)
	truncated := sessions[0].(map[string]interface{})["email_subject"].(string)

	assert.True(t, utf8.ValidString(truncated))
	assert.True(t, strings.HasSuffix(truncated, "..."))
	assert.Equal(t, 50, utf8.RuneCountInString(strings.TrimSuffix(truncated, "...")))
	assert.True(t, strings.HasPrefix(subject, strings.TrimSuffix(truncated, "...")))
}

func TestCleanupSessionsEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: false, Confidence: 0.97}, "")

	old := &core.ProcessingSession{
		SessionID: "stale",
		StartTime: time.Now().Add(-48 * time.Hour),
		Status:    core.StatusCompleted,
	}
	require.NoError(t, env.store.Create(context.Background(), old))

	recorder := env.do(t, http.MethodDelete, "/mcp/sessions/cleanup?max_age_hours=24", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(1), payload["removed_sessions"])
	assert.Equal(t, float64(0), payload["remaining_sessions"])
	assert.Equal(t, float64(24), payload["max_age_hours"])
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodGet, "/mcp/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, "healthy", payload["status"])
	services := payload["services"].(map[string]interface{})
	assert.Equal(t, "stub-classifier", services["classifier"])
	assert.Equal(t, "stub-generator", services["verdict_agent"])
}

func TestGatewayInfoEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodGet, "/mcp/gateway-info", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	thresholds := payload["routing_thresholds"].(map[string]interface{})
	assert.Contains(t, thresholds["immediate_pass"], "95%")
	assert.Contains(t, thresholds["quick_analysis"], "80%")
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{IsSpam: true, Confidence: 0.99}, "")

	recorder := env.do(t, http.MethodGet, "/mcp/stats", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(0), payload["total_sessions"])

	recorder = env.do(t, http.MethodPost, "/mcp/analyze-email", map[string]string{
		"subject": "WIN BIG",
		"content": "click here",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, http.MethodGet, "/mcp/stats", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload = decodeBody(t, recorder)
	assert.Equal(t, float64(1), payload["total_sessions"])
	statuses := payload["status_distribution"].(map[string]interface{})
	assert.Equal(t, float64(1), statuses["completed"])
	routing := payload["routing_distribution"].(map[string]interface{})
	assert.Equal(t, float64(1), routing["immediate_block"])
}

func TestListToolsEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodGet, "/mcp/tools", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(3), payload["total_tools"])
	names := payload["available_tools"].([]interface{})
	assert.Contains(t, names, "quick_verdict")
}

func TestExecuteToolEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "normal, nothing suspicious")

	recorder := env.do(t, http.MethodPost, "/mcp/tools/quick_verdict/execute", map[string]interface{}{
		"email_text":            "see you tomorrow",
		"classifier_confidence": 0.9,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	payload := decodeBody(t, recorder)
	assert.Equal(t, "quick_verdict", payload["tool_name"])
	assert.Equal(t, "normal, nothing suspicious", payload["result"])
}

func TestExecuteUnknownToolEndpoint(t *testing.T) {
	env := newTestEnv(t, &core.ClassifierResult{Confidence: 0.9}, "")

	recorder := env.do(t, http.MethodPost, "/mcp/tools/bogus/execute", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	payload := decodeBody(t, recorder)
	available := payload["available_tools"].([]interface{})
	assert.Len(t, available, 3)
}
