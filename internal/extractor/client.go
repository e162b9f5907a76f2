// Package extractor talks to the extraction service that turns a source file plus a step prompt into
// the step's raw JSON output.
package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"comex/internal/config"
	"comex/internal/port"
)

const providerName = "extractor"

// Client implements port.StepExtractor over HTTP.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

var _ port.StepExtractor = (*Client)(nil)

// NewClient creates an extraction client from config.
func NewClient(cfg *config.ExtractorConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type stepRequest struct {
	DocumentType string          `json:"document_type"`
	Step         int             `json:"step"`
	StepName     string          `json:"step_name"`
	Prompt       string          `json:"prompt"`
	PriorOutput  json.RawMessage `json:"prior_output,omitempty"`
	ContentType  string          `json:"content_type"`
	FileBase64   string          `json:"file_base64"`
}

type stepResponse struct {
	Data       json.RawMessage `json:"data"`
	StopReason string          `json:"stop_reason"`
}

func (c *Client) ExtractStep(ctx context.Context, in port.ExtractInput) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(stepRequest{
		DocumentType: string(in.DocumentType),
		Step:         in.Step.Ordinal,
		StepName:     in.Step.Name,
		Prompt:       in.Prompt,
		PriorOutput:  in.PriorOutput,
		ContentType:  in.ContentType,
		FileBase64:   base64.StdEncoding.EncodeToString(in.FileBytes),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("extraction service error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

func parseResponse(body []byte) (json.RawMessage, error) {
	var resp stepResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w (raw: %s)", err, truncate(string(body), 500))
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}
	if len(bytes.TrimSpace(resp.Data)) == 0 {
		return nil, fmt.Errorf("empty response from extraction service")
	}
	return resp.Data, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
