package voice

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pcos-backend/internal/shared/server/respond"
	"pcos-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the voice service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches voice routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stt", h.stt)
	rg.POST("/tts", h.tts)
	rg.POST("/voice/conversation", h.conversation)
}

func (h *Handler) stt(c *gin.Context) {
	if !h.Svc.Configured() {
		respond.Error(c, http.StatusInternalServerError, "configuration", "Deepgram API not configured")
		return
	}

	audio, ok := h.readAudio(c)
	if !ok {
		return
	}

	transcript, err := h.Svc.Transcribe(c.Request.Context(), audio)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":    true,
		"transcript": transcript,
	})
}

type ttsRequest struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

func (h *Handler) tts(c *gin.Context) {
	if !h.Svc.Configured() {
		respond.Error(c, http.StatusInternalServerError, "configuration", "Deepgram API not configured")
		return
	}

	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		respond.Error(c, http.StatusBadRequest, "validation", "No text provided")
		return
	}

	audio, err := h.Svc.Synthesize(c.Request.Context(), req.Text, req.Type)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}

func (h *Handler) conversation(c *gin.Context) {
	if !h.Svc.Configured() {
		respond.Error(c, http.StatusInternalServerError, "configuration", "Deepgram API not configured")
		return
	}

	audio, ok := h.readAudio(c)
	if !ok {
		return
	}

	reply, userText, replyText, err := h.Svc.Conversation(c.Request.Context(), audio)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	telemetry.Info("voice.conversation", map[string]any{
		"transcript_len": len(userText),
		"reply_len":      len(replyText),
		"request_id":     c.GetString("requestId"),
	})

	c.Data(http.StatusOK, "audio/mpeg", reply)
}

// readAudio accepts either a multipart "audio" file or a JSON body carrying
// base64 audio (optionally a data URI). It writes the error response itself
// when nothing usable arrives.
func (h *Handler) readAudio(c *gin.Context) ([]byte, bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := c.Request.FormFile("audio")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation", "No audio provided")
			return nil, false
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil || len(audio) == 0 {
			respond.Error(c, http.StatusBadRequest, "validation", "Invalid audio format")
			return nil, false
		}
		return audio, true
	}

	var req struct {
		Audio string `json:"audio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Audio == "" {
		respond.Error(c, http.StatusBadRequest, "validation", "No audio provided")
		return nil, false
	}

	audio, err := base64.StdEncoding.DecodeString(stripAudioDataURI(req.Audio))
	if err != nil || len(audio) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation", "Invalid audio format")
		return nil, false
	}
	return audio, true
}

// stripAudioDataURI drops a "data:audio/...;base64," prefix.
func stripAudioDataURI(audio string) string {
	if !strings.HasPrefix(audio, "data:") {
		return audio
	}
	if _, rest, ok := strings.Cut(audio, ","); ok {
		return rest
	}
	return audio
}
