// Package deepgram wraps the Deepgram REST API for prerecorded
// transcription (Nova-2) and speech synthesis (Aura).
package deepgram

import (
	"bytes"
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

const (
	defaultBaseURL = "https://api.deepgram.com"
	providerName   = "deepgram"

	// VoiceEmpathetic is a calm, soothing voice for emotional support.
	VoiceEmpathetic = "aura-luna-en"
	// VoiceMedical is a professional voice for informational replies.
	VoiceMedical = "aura-stella-en"
)

// sttKeywords boosts domain terms the generic model tends to mishear.
var sttKeywords = []string{
	"PCOS", "PCOD", "polycystic", "ovarian", "syndrome",
	"hirsutism", "acne", "insulin", "resistance", "hormone",
	"menstrual", "cycle", "ovulation", "testosterone",
}

// Client calls Deepgram over plain HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Deepgram client. The credential is required; its
// absence is a configuration error raised before any network call.
func NewClient(apiKey string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, pipeline.NewConfigurationError(providerName, "Deepgram API not configured")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
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

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends prerecorded audio to Nova-2 and returns the transcript.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	q := url.Values{}
	q.Set("model", "nova-2")
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	q.Set("language", "en-IN")
	for _, kw := range sttKeywords {
		q.Add("keywords", kw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/listen?"+q.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "audio/*")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed listenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", pipeline.NewMalformedResponseError(providerName, string(body), err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", pipeline.NewMalformedResponseError(providerName, string(body), nil)
	}
	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}

// SynthesizeOptions tunes one TTS call.
type SynthesizeOptions struct {
	Voice string
	Speed float64
}

// Synthesize converts text to MP3 audio with the given voice.
func (c *Client) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) ([]byte, error) {
	if opts.Voice == "" {
		opts.Voice = VoiceEmpathetic
	}

	q := url.Values{}
	q.Set("model", opts.Voice)
	q.Set("encoding", "mp3")
	if opts.Speed > 0 {
		q.Set("speed", fmt.Sprintf("%g", opts.Speed))
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/speak?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	audio, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, pipeline.NewProviderError(providerName, "no audio stream received", nil)
	}
	return audio, nil
}

// SynthesizeEmpathetic uses the calm voice at a slightly slower pace, the
// default for spoken companion replies.
func (c *Client) SynthesizeEmpathetic(ctx context.Context, text string) ([]byte, error) {
	return c.Synthesize(ctx, text, SynthesizeOptions{Voice: VoiceEmpathetic, Speed: 0.95})
}

// SynthesizeMedical uses the professional voice at normal pace.
func (c *Client) SynthesizeMedical(ctx context.Context, text string) ([]byte, error) {
	return c.Synthesize(ctx, text, SynthesizeOptions{Voice: VoiceMedical, Speed: 1.0})
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
			ErrMsg string `json:"err_msg"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.ErrMsg != "" {
			msg = parsed.ErrMsg
		}
		return nil, pipeline.NewProviderError(providerName, msg, nil)
	}
	return body, nil
}
