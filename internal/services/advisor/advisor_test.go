package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlowShift/pkg/config"
	"FlowShift/pkg/logger"
)

func testConfig(baseURL, key string) *config.Config {
	cfg := config.Default()
	cfg.Advisor.BaseURL = baseURL
	cfg.Advisor.APIKey = key
	cfg.Advisor.Timeout = 2 * time.Second
	cfg.Advisor.BreakerFailures = 2
	cfg.Advisor.BreakerOpenFor = time.Minute
	return cfg
}

func TestAnalyzeSuccess(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-3-pro-preview:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Breakout "},{"text":"strategy."}]}}]}`))
	}))
	defer srv.Close()

	a := New(testConfig(srv.URL, "secret"), nil, nil)
	out := a.Analyze(context.Background(), "int x;")

	assert.Equal(t, "Breakout strategy.", out)
	require.Len(t, got.Contents, 1)
	assert.Contains(t, got.Contents[0].Parts[0].Text, "potential risks. \n\nCode:\nint x;")
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, analyzeSystem, got.SystemInstruction.Parts[0].Text)
}

func TestConversePrompt(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Tighten the stop."}]}}]}`))
	}))
	defer srv.Close()

	a := New(testConfig(srv.URL, "k"), nil, nil)
	assert.Equal(t, "Tighten the stop.", a.Converse(context.Background(), "How do I reduce drawdown?", "CODE"))

	prompt := got.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, chatContext)
	assert.Contains(t, prompt, "User Question: How do I reduce drawdown?")
	assert.Contains(t, prompt, "EA Code for Reference:\nCODE")
	assert.Equal(t, chatSystem, got.SystemInstruction.Parts[0].Text)
}

func TestFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("{not json")) }},
		{"no candidates", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"candidates":[]}`)) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			a := New(testConfig(srv.URL, "k"), nil, nil)
			assert.Equal(t, "Error analyzing EA code. Please check your API key.", a.Analyze(context.Background(), "x"))
			assert.Equal(t, "Something went wrong in the transmission.", a.Converse(context.Background(), "hi", "x"))
		})
	}
}

func TestMissingKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	rec := &fakeRecorder{}
	a := New(testConfig(srv.URL, ""), nil, rec)
	assert.Equal(t, AnalyzeFallback, a.Analyze(context.Background(), "x"))
	assert.Zero(t, hits.Load())
	assert.Equal(t, []string{"analyze:no_key"}, rec.results)
}

type fakeGenerator struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGenerator) Generate(context.Context, string, string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

type fakeRecorder struct {
	results []string
}

func (f *fakeRecorder) RecordAdvisor(op, result string) { f.results = append(f.results, op+":"+result) }
func (f *fakeRecorder) RecordLatency(string, float64) {}

func TestBreakerOpens(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	rec := &fakeRecorder{}
	a := NewWithGenerator(gen, testConfig("http://unused", "k"), nil, rec)

	for i := 0; i < 4; i++ {
		assert.Equal(t, ChatFallback, a.Converse(context.Background(), "q", "c"))
	}
	assert.Equal(t, int32(2), gen.calls.Load())
	assert.Equal(t, "open", a.State())
	assert.Equal(t, []string{"chat:error", "chat:error", "chat:open", "chat:open"}, rec.results)
}

func TestEmptyReplyPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
	}))
	defer srv.Close()

	a := New(testConfig(srv.URL, "k"), nil, nil)
	assert.Equal(t, "", a.Analyze(context.Background(), "x"))
}

func TestFailureLogCarriesUpstreamReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	a := New(testConfig(srv.URL, "bad"), logger.NewWriter(&buf), nil)

	assert.Equal(t, AnalyzeFallback, a.Analyze(context.Background(), "int x;"))
	assert.Contains(t, buf.String(), "API key not valid.")
	assert.Contains(t, buf.String(), "INVALID_ARGUMENT")
}
