package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/metrics"
)

const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	geminiTimeout         = 60 * time.Second
	maxResponseBytes      = 4 << 20
)

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

type GeminiOption func(*GeminiClient)

func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

func WithEndpoint(endpoint string) GeminiOption {
	return func(c *GeminiClient) {
		if endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.httpClient = hc }
}

func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      DefaultGeminiModel,
		endpoint:   DefaultGeminiEndpoint,
		httpClient: &http.Client{Timeout: geminiTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled returns whether an API key is configured
func (c *GeminiClient) Enabled() bool {
	return c.apiKey != ""
}

func (c *GeminiClient) Model() string {
	return c.model
}

// Analyze sends the prompt and optional screenshot and returns the text of
// the first candidate.
func (c *GeminiClient) Analyze(ctx context.Context, req Request) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	parts := []geminiPart{{Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: req.Image.MIMEType, Data: req.Image.Data},
		})
	}

	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Role: "user", Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("network").Inc()
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("read").Inc()
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp geminiResponse
	if resp.StatusCode != http.StatusOK {
		metrics.AnalysisErrorsTotal.WithLabelValues("api").Inc()
		if json.Unmarshal(data, &apiResp) == nil && apiResp.Error != nil {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, apiResp.Error.Message)
		}
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, &apiResp); err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("parse").Inc()
		return "", fmt.Errorf("parse response: %w", err)
	}
	if apiResp.Error != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("api").Inc()
		return "", fmt.Errorf("API error %d: %s", apiResp.Error.Code, apiResp.Error.Message)
	}
	if len(apiResp.Candidates) == 0 {
		metrics.AnalysisErrorsTotal.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// Gemini API types

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
