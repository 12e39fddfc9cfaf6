package voice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcos-backend/internal/chat"
	"pcos-backend/internal/llm"
	"pcos-backend/internal/pipeline"
)

type stubSpeech struct {
	transcript      string
	audio           []byte
	err             error
	empatheticCalls int
	medicalCalls    int
	lastText        string
}

func (s *stubSpeech) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return s.transcript, s.err
}

func (s *stubSpeech) SynthesizeEmpathetic(ctx context.Context, text string) ([]byte, error) {
	s.empatheticCalls++
	s.lastText = text
	return s.audio, s.err
}

func (s *stubSpeech) SynthesizeMedical(ctx context.Context, text string) ([]byte, error) {
	s.medicalCalls++
	s.lastText = text
	return s.audio, s.err
}

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	return s.reply, s.err
}

func (s *stubGenerator) GenerateVision(ctx context.Context, systemPrompt, userMessage, imageBase64 string, opts llm.Options) (string, error) {
	return s.reply, s.err
}

func (s *stubGenerator) GenerateStream(ctx context.Context, systemPrompt, userMessage string) (<-chan llm.Chunk, error) {
	ch := make(chan llm.Chunk)
	close(ch)
	return ch, s.err
}

func TestTranscribeWithoutProvider(t *testing.T) {
	svc := &Service{}
	_, err := svc.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.True(t, pipeline.IsKind(err, pipeline.KindConfiguration))
	assert.Contains(t, err.Error(), "Deepgram API not configured")
}

func TestSynthesizeSelectsVoice(t *testing.T) {
	speech := &stubSpeech{audio: []byte("mp3")}
	svc := &Service{Speech: speech}

	_, err := svc.Synthesize(context.Background(), "hello", VoiceTypeMedical)
	require.NoError(t, err)
	assert.Equal(t, 1, speech.medicalCalls)
	assert.Zero(t, speech.empatheticCalls)

	// Empty and unknown types both fall back to the empathetic voice.
	for _, typ := range []string{"", "robotic", VoiceTypeEmpathetic} {
		_, err := svc.Synthesize(context.Background(), "hello", typ)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, speech.empatheticCalls)
	assert.Equal(t, 1, speech.medicalCalls)
}

func TestConversationRunsFullLoop(t *testing.T) {
	speech := &stubSpeech{transcript: "what should I eat", audio: []byte("mp3-bytes")}
	svc := &Service{
		Speech: speech,
		Chat:   &chat.Service{LLM: &stubGenerator{reply: "Leafy greens help with insulin resistance."}},
	}

	reply, userText, replyText, err := svc.Conversation(context.Background(), []byte("wav-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), reply)
	assert.Equal(t, "what should I eat", userText)
	assert.Equal(t, "Leafy greens help with insulin resistance.", replyText)

	// The spoken reply uses the empathetic voice.
	assert.Equal(t, 1, speech.empatheticCalls)
	assert.Equal(t, replyText, speech.lastText)
}

func TestConversationWithoutChatProvider(t *testing.T) {
	svc := &Service{Speech: &stubSpeech{transcript: "hi"}}
	_, _, _, err := svc.Conversation(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.True(t, pipeline.IsKind(err, pipeline.KindConfiguration))
	assert.Contains(t, err.Error(), "Gemini API not configured")
}

func TestConversationPropagatesTranscriptionFailure(t *testing.T) {
	svc := &Service{
		Speech: &stubSpeech{err: pipeline.NewProviderError("deepgram", "status 502", nil)},
		Chat:   &chat.Service{LLM: &stubGenerator{reply: "unused"}},
	}
	_, _, _, err := svc.Conversation(context.Background(), []byte("audio"))
	require.Error(t, err)
	assert.True(t, pipeline.IsKind(err, pipeline.KindProvider))
}
