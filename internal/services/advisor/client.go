package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"FlowShift/pkg/config"
	xhttp "FlowShift/pkg/http"
)

var (
	ErrMissingAPIKey = errors.New("gemini api key not configured")
	ErrNoCandidates  = errors.New("gemini returned no candidates")
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// text joins the parts of the first candidate.
func (r *generateResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *xhttp.Client
}

// NewGeminiClient builds a client with timeout, base URL and model from config.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	timeout := cfg.Advisor.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(cfg.Advisor.BaseURL, "/"),
		model:   cfg.Advisor.Model,
		apiKey:  cfg.Advisor.APIKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Generate sends one prompt with a system instruction and returns the reply text.
func (g *GeminiClient) Generate(ctx context.Context, prompt, system string) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	var resp generateResponse
	err := g.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		QueryParams: map[string][]string{"key": {g.apiKey}},
		Body:        req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.text()
}
