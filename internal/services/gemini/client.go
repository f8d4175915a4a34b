// Package gemini implements the analysis client for the Gemini
// generateContent API, constrained to the SafeMedia response schema.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"safemedia/internal/analysis"
	"safemedia/internal/services"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.5-flash"
	defaultHTTPTimeout = 60 * time.Second

	apiKeyEnv = "GEMINI_API_KEY"
)

// Config captures the runtime settings required to talk to Gemini.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client issues schema-constrained analysis requests. One outstanding call
// per submission; the session controller enforces single-flight.
type Client struct {
	cfg        Config
	httpClient *http.Client

	keyOnce sync.Once
	key     string
	keyErr  error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Gemini client using the supplied configuration.
// The API key is not required at construction time: it is resolved lazily on
// first use so the rest of the application can start without one.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Model returns the configured model identifier for logging.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Analyze runs one screening request for the supplied media query and decodes
// the structured response. The caller is responsible for ensuring query is
// non-empty and trimmed; an empty query still fails cleanly rather than
// crashing.
func (c *Client) Analyze(ctx context.Context, query string) (*analysis.MediaAnalysis, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrTransport, "gemini", "analyze", "query required", nil)
	}

	text, err := c.generate(ctx, BuildPrompt(query), true)
	if err != nil {
		return nil, err
	}
	return analysis.Decode(text)
}

// HealthCheck issues a minimal request to verify the API key and model are
// usable. Schema constraints are skipped; only connectivity matters here.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.generate(ctx, `Respond with the JSON object {"ok": true} and nothing else.`, false)
	return err
}

func (c *Client) generate(ctx context.Context, prompt string, withSchema bool) (string, error) {
	key, err := c.apiKey()
	if err != nil {
		return "", err
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		SystemInstruction: &content{
			Parts: []part{{Text: SystemInstruction}},
		},
		GenerationConfig: &generationConfig{
			Temperature:      0,
			ResponseMIMEType: "application/json",
		},
	}
	if withSchema {
		schema := analysis.ResponseSchema()
		payload.GenerationConfig.ResponseSchema = &schema
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "encode body", err)
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, "models", c.cfg.Model+":generateContent")
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "build url", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "new request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrTransport, "gemini", "request",
			fmt.Sprintf("http %d: %s", resp.StatusCode, summarizeBody(body)), nil)
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request", "decode response", err)
	}
	if decoded.Error != nil {
		return "", services.Wrap(services.ErrTransport, "gemini", "request",
			fmt.Sprintf("api error: %s", strings.TrimSpace(decoded.Error.Message)), nil)
	}

	text := decoded.text()
	if text == "" {
		return "", services.Wrap(services.ErrEmptyResponse, "gemini", "request", "no candidate text", nil)
	}
	return text, nil
}

// apiKey resolves the credential on first use: explicit config first, then
// the environment. Surrounding quotes and whitespace are stripped since they
// are a common copy-paste artifact.
func (c *Client) apiKey() (string, error) {
	c.keyOnce.Do(func() {
		key := c.cfg.APIKey
		if key == "" {
			key = os.Getenv(apiKeyEnv)
		}
		key = sanitizeKey(key)
		if key == "" {
			c.keyErr = services.Wrap(services.ErrConfiguration, "gemini", "credentials",
				fmt.Sprintf("api key missing: set gemini.api_key or the %s environment variable", apiKeyEnv), nil)
			return
		}
		c.key = key
	})
	return c.key, c.keyErr
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.ReplaceAll(key, `"`, "")
	key = strings.ReplaceAll(key, "'", "")
	return strings.TrimSpace(key)
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64          `json:"temperature"`
	ResponseMIMEType string           `json:"responseMimeType,omitempty"`
	ResponseSchema   *analysis.Schema `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (r generateContentResponse) text() string {
	for _, candidate := range r.Candidates {
		for _, p := range candidate.Content.Parts {
			if trimmed := strings.TrimSpace(p.Text); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func summarizeBody(body []byte) string {
	clean := strings.Join(strings.Fields(string(body)), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
