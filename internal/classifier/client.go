// Package classifier wraps the locally hosted CLIP classification server,
// which answers with structured severity/confidence JSON rather than prose.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pcos-backend/internal/pipeline"
)

const providerName = "clip"

// Signal is one classification axis: the winning label, its confidence in
// [0,100], and a small integer severity score.
type Signal struct {
	TopMatch      string  `json:"top_match"`
	Confidence    float64 `json:"confidence"`
	SeverityScore int     `json:"severity_score"`
}

// FacialFeatures is the classifier's answer for a facial image. Hirsutism
// severity ranges over [0,4], acne over [0,3].
type FacialFeatures struct {
	Hirsutism Signal `json:"hirsutism"`
	Acne      Signal `json:"acne"`
	Error     string `json:"error,omitempty"`
}

// Client talks to the classification server over plain HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a classifier client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FacialFeatures classifies hirsutism and acne severity for one image.
// The server accepts the image as a form-encoded base64 field.
func (c *Client) FacialFeatures(ctx context.Context, imageBase64 string) (*FacialFeatures, error) {
	form := url.Values{"image_base64": {imageBase64}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/facial-features", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var parsed FacialFeatures
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pipeline.NewMalformedResponseError(providerName, string(body), err)
	}
	if parsed.Error != "" {
		return nil, pipeline.NewProviderError(providerName, parsed.Error, nil)
	}
	return &parsed, nil
}

// FoodAnalyze classifies one meal image. The payload already matches the
// food-analysis response schema, so it is returned raw for the validator.
func (c *Client) FoodAnalyze(ctx context.Context, imageBase64 string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]string{"image_base64": imageBase64})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/food-analyze", strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, pipeline.NewMalformedResponseError(providerName, string(body), err)
	}
	if probe.Error != "" {
		return nil, pipeline.NewProviderError(providerName, probe.Error, nil)
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pipeline.NewProviderError(providerName, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pipeline.NewProviderError(providerName, "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		var parsed struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		return nil, pipeline.NewProviderError(providerName, msg, nil)
	}
	return body, nil
}
