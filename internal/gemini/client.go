// Package gemini is a minimal client for the Google generative-language
// generateContent endpoint.
package gemini

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"bustracker/internal/metrics"
)

const defaultModel = "gemini-2.5-flash"

var (
	// ErrRequestFailed means the API answered with a non-2xx status.
	ErrRequestFailed = errors.New("gemini: request failed")
	// ErrNoContent means the API answered but produced no usable text.
	ErrNoContent = errors.New("gemini: no content in response")
)

// Part is one element of a generateContent request: either text or
// inline base64 data (images).
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   defaultModel,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateText sends a text-only prompt and returns the first candidate's
// text.
func (c *Client) GenerateText(prompt string) (string, error) {
	body, err := c.generate([]Part{{Text: prompt}})
	if err != nil {
		return "", err
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", ErrNoContent
}

// GenerateRaw sends the given parts and returns the API's JSON body
// untouched, for endpoints that relay the model output to the client.
func (c *Client) GenerateRaw(parts []Part) (json.RawMessage, error) {
	return c.generate(parts)
}

func (c *Client) generate(parts []Part) ([]byte, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.GeminiRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GeminiRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GeminiRequests.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	metrics.GeminiRequests.WithLabelValues("success").Inc()
	return body, nil
}
