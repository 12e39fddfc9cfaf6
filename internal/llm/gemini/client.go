// Package gemini implements llm.Generator against the Google
// generative-language REST API.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// providerName tags errors raised by this client.
const providerName = "gemini"

// Client calls the Gemini generateContent endpoints over plain HTTP.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Gemini client. A missing credential is a
// configuration error, detected here so no request ever leaves without one.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, pipeline.NewConfigurationError(providerName, "GEMINI_API_KEY is not set")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a single text prompt and returns the raw reply.
func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	prompt := fmt.Sprintf("%s\n\nUser: %s\n\nAssistant:", systemPrompt, userMessage)
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: opts.Temperature, MaxOutputTokens: opts.MaxOutputTokens},
	}
	return c.generateOnce(ctx, req)
}

// GenerateVision sends a prompt plus an inline JPEG image.
func (c *Client) GenerateVision(ctx context.Context, systemPrompt, userMessage, imageBase64 string, opts llm.Options) (string, error) {
	prompt := fmt.Sprintf("%s\n\n%s", systemPrompt, userMessage)
	req := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: imageBase64}},
			},
		}},
		GenerationConfig: generationConfig{Temperature: opts.Temperature, MaxOutputTokens: opts.MaxOutputTokens},
	}
	return c.generateOnce(ctx, req)
}

func (c *Client) generateOnce(ctx context.Context, reqBody generateRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", pipeline.NewProviderError(providerName, "request timeout", err)
		}
		return "", pipeline.NewProviderError(providerName, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pipeline.NewProviderError(providerName, "read response", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", pipeline.NewProviderError(providerName, "response parse", err)
	}
	if parsed.Error != nil {
		return "", pipeline.NewProviderError(providerName,
			fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Status), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", pipeline.NewProviderError(providerName, fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	text := candidateText(parsed)
	if text == "" {
		return "", pipeline.NewProviderError(providerName, "response empty content", nil)
	}
	return text, nil
}

// GenerateStream opens an SSE stream and forwards fragments on a channel.
// Cancelling ctx aborts the provider-side request.
func (c *Client) GenerateStream(ctx context.Context, systemPrompt, userMessage string) (<-chan llm.Chunk, error) {
	prompt := fmt.Sprintf("%s\n\nUser: %s\n\nAssistant:", systemPrompt, userMessage)
	reqBody := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: llm.StreamTemperature},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	// Streams outlive the default per-call timeout; rely on ctx instead.
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, pipeline.NewProviderError(providerName, "stream request failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, pipeline.NewProviderError(providerName, fmt.Sprintf("stream status %d", resp.StatusCode), nil)
	}

	ch := make(chan llm.Chunk, 10)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var parsed generateResponse
			if err := json.Unmarshal([]byte(data), &parsed); err != nil {
				continue
			}
			if text := candidateText(parsed); text != "" {
				select {
				case ch <- llm.Chunk{Content: text}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			ch <- llm.Chunk{Err: pipeline.NewProviderError(providerName, "stream interrupted", err)}
			return
		}
		ch <- llm.Chunk{Done: true}
	}()

	return ch, nil
}

func candidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

var _ llm.Generator = (*Client)(nil)
