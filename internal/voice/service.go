// Package voice implements the spoken interface: transcription, synthesis,
// and the full audio-in/audio-out conversation loop.
package voice

import (
	"context"
	"time"

	"pcos-backend/internal/chat"
	"pcos-backend/internal/pipeline"
	"pcos-backend/internal/shared/metrics"
)

// VoiceType selects the synthesis persona.
const (
	VoiceTypeEmpathetic = "empathetic"
	VoiceTypeMedical    = "medical"
)

// Speech is the outbound contract to the speech provider.
type Speech interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	SynthesizeEmpathetic(ctx context.Context, text string) ([]byte, error)
	SynthesizeMedical(ctx context.Context, text string) ([]byte, error)
}

// Service sequences the speech provider and, for conversations, the chat
// companion.
type Service struct {
	Speech Speech
	Chat   *chat.Service
}

// Configured reports whether a speech provider is available. Handlers check
// this before touching the request payload so a missing credential always
// fails fast.
func (s *Service) Configured() bool {
	return s.Speech != nil
}

func (s *Service) notConfigured(analysis string) error {
	return pipeline.WithAnalysis(
		pipeline.NewConfigurationError("deepgram", "Deepgram API not configured"), analysis)
}

// Transcribe converts recorded audio to text.
func (s *Service) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.Speech == nil {
		return "", s.notConfigured("stt")
	}

	start := time.Now()
	transcript, err := s.Speech.Transcribe(ctx, audio)
	metrics.ObserveAnalysis("stt", start, err)
	if err != nil {
		return "", pipeline.WithAnalysis(err, "stt")
	}
	return transcript, nil
}

// Synthesize converts text to MP3 audio with the requested persona. Unknown
// or empty types get the empathetic voice.
func (s *Service) Synthesize(ctx context.Context, text, voiceType string) ([]byte, error) {
	if s.Speech == nil {
		return nil, s.notConfigured("tts")
	}

	start := time.Now()
	var audio []byte
	var err error
	if voiceType == VoiceTypeMedical {
		audio, err = s.Speech.SynthesizeMedical(ctx, text)
	} else {
		audio, err = s.Speech.SynthesizeEmpathetic(ctx, text)
	}
	metrics.ObserveAnalysis("tts", start, err)
	if err != nil {
		return nil, pipeline.WithAnalysis(err, "tts")
	}
	return audio, nil
}

// Conversation runs one spoken turn: transcribe the audio, answer with the
// default companion persona, and speak the reply. It returns the reply audio
// plus both transcripts for the caller's log.
func (s *Service) Conversation(ctx context.Context, audio []byte) (reply []byte, userText, replyText string, err error) {
	if s.Speech == nil {
		return nil, "", "", s.notConfigured("voice")
	}
	if s.Chat == nil {
		return nil, "", "", pipeline.WithAnalysis(
			pipeline.NewConfigurationError("gemini", "Gemini API not configured"), "voice")
	}

	userText, err = s.Transcribe(ctx, audio)
	if err != nil {
		return nil, "", "", err
	}

	replyText, err = s.Chat.Respond(ctx, userText, "")
	if err != nil {
		return nil, "", "", err
	}

	reply, err = s.Synthesize(ctx, replyText, VoiceTypeEmpathetic)
	if err != nil {
		return nil, "", "", err
	}
	return reply, userText, replyText, nil
}
