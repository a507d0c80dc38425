// Package oracle provides HTTP clients for the external scoring and
// generation services. Each client normalizes its service's response onto
// the scales the pipeline uses internally, so scale conversions live at this
// boundary and nowhere else.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pagewright/burnish/internal/evaluate"
)

// maxErrorBody caps how much of an error response body is echoed in errors.
const maxErrorBody = 512

// Endpoints holds the service URLs for the four oracles and the generator.
type Endpoints struct {
	Authenticity string
	Realism      string
	Readability  string
	Subjective   string
	Generator    string
}

// Client calls the external services over HTTP with JSON bodies. One Client
// is shared across all workers; the underlying http.Client handles
// connection reuse.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
}

// NewClient creates a client with the given per-call timeout.
func NewClient(endpoints Endpoints, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoints:  endpoints,
	}
}

// postJSON sends request as JSON to url and decodes the response into result.
// Non-2xx responses become errors carrying the status and a truncated body.
func (c *Client) postJSON(ctx context.Context, url string, request, result any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s returned status %d: %s", url, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return nil
}

// Score implements evaluate.AuthenticityOracle. The detection service scores
// on 0-100; this client normalizes to the pipeline's 0-1 scale.
func (c *Client) Score(ctx context.Context, body string) (float64, error) {
	request := struct {
		Content string `json:"content"`
	}{Content: body}

	var response struct {
		Score float64 `json:"score"`
	}
	if err := c.postJSON(ctx, c.endpoints.Authenticity, request, &response); err != nil {
		return 0, err
	}

	if response.Score < 0 || response.Score > 100 {
		return 0, fmt.Errorf("authenticity service returned score %g outside [0, 100]", response.Score)
	}
	return response.Score / 100.0, nil
}

// Evaluate implements evaluate.RealismOracle.
func (c *Client) Evaluate(ctx context.Context, body, subject, componentType string) (evaluate.RealismResult, error) {
	request := struct {
		Content       string `json:"content"`
		Subject       string `json:"subject"`
		ComponentType string `json:"component_type"`
	}{Content: body, Subject: subject, ComponentType: componentType}

	var response evaluate.RealismResult
	if err := c.postJSON(ctx, c.endpoints.Realism, request, &response); err != nil {
		return evaluate.RealismResult{}, err
	}
	return response, nil
}

// Validate implements evaluate.ReadabilityValidator.
func (c *Client) Validate(ctx context.Context, body string) (bool, error) {
	request := struct {
		Content string `json:"content"`
	}{Content: body}

	var response evaluate.ReadabilityResult
	if err := c.postJSON(ctx, c.endpoints.Readability, request, &response); err != nil {
		return false, err
	}
	return response.Passed, nil
}

// SubjectiveClient exposes the subjective-language service under a distinct
// type: its Validate signature collides with the readability one, so the
// shared Client cannot satisfy both interfaces itself.
type SubjectiveClient struct {
	*Client
}

// Subjective returns the subjective-language view of this client.
func (c *Client) Subjective() *SubjectiveClient {
	return &SubjectiveClient{Client: c}
}

// Validate implements evaluate.SubjectiveValidator.
func (s *SubjectiveClient) Validate(ctx context.Context, body, componentType string) (evaluate.SubjectiveResult, error) {
	request := struct {
		Content       string `json:"content"`
		ComponentType string `json:"component_type"`
	}{Content: body, ComponentType: componentType}

	var response evaluate.SubjectiveResult
	if err := s.postJSON(ctx, s.endpoints.Subjective, request, &response); err != nil {
		return evaluate.SubjectiveResult{}, err
	}
	return response, nil
}

// Generate implements engine.Generator. The overrides contract is
// superset-tolerant: the generation service ignores parameter names it does
// not recognize rather than rejecting the request.
func (c *Client) Generate(ctx context.Context, subject, componentType string, overrides map[string]float64) (string, map[string]float64, error) {
	request := struct {
		Subject       string             `json:"subject"`
		ComponentType string             `json:"component_type"`
		Overrides     map[string]float64 `json:"overrides,omitempty"`
	}{Subject: subject, ComponentType: componentType, Overrides: overrides}

	var response struct {
		Content string             `json:"content"`
		Params  map[string]float64 `json:"params"`
	}
	if err := c.postJSON(ctx, c.endpoints.Generator, request, &response); err != nil {
		return "", nil, err
	}

	if response.Content == "" {
		return "", nil, fmt.Errorf("generation service returned empty content")
	}
	return response.Content, response.Params, nil
}
