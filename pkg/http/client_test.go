package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParseDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "v", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"text":"hi"}`))
	}))
	defer srv.Close()

	var out struct {
		Text string `json:"text"`
	}
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{
		Method:      MethodPost,
		URL:         srv.URL,
		QueryParams: map[string][]string{"q": {"v"}},
		Body:        map[string]string{"a": "b"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hi", out.Text)
}

func TestSendAndParseStatusError(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "google error body",
			body:       `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`,
			wantStatus: "INVALID_ARGUMENT",
			wantMsg:    "API key not valid. Please pass a valid API key.",
		},
		{name: "plain body", body: "upstream down", wantMsg: "upstream down"},
		{name: "empty body", body: "", wantMsg: http.StatusText(http.StatusBadRequest)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := NewClient().SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, nil)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusBadRequest, se.StatusCode)
			assert.Equal(t, tc.wantStatus, se.Status)
			assert.Equal(t, tc.wantMsg, se.Message)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestSendRequestMasksKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewClient().SendRequest(context.Background(), &RequestOptions{
		Method:      MethodPost,
		URL:         addr + "/models/m:generateContent",
		QueryParams: map[string][]string{"key": {"top-secret"}},
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "top-secret")
	assert.Contains(t, err.Error(), "REDACTED")
}
