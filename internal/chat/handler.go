package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"pcos-backend/internal/shared/server/respond"
	"pcos-backend/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.chat)
	rg.POST("/chat/stream", h.chatStream)
}

type chatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"systemPrompt"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation", "Message is required")
		return
	}

	reply, err := h.Svc.Respond(c.Request.Context(), req.Message, req.SystemPrompt)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"response": reply,
	})
}

// streamChunk is the wire shape of one streamed fragment.
type streamChunk struct {
	Content string `json:"content,omitempty"`
	Done    bool   `json:"done,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) chatStream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation", "Message is required")
		return
	}

	chunks, err := h.Svc.Stream(c.Request.Context(), req.Message, req.SystemPrompt)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for chunk := range chunks {
		out := streamChunk{Content: chunk.Content, Done: chunk.Done}
		if chunk.Err != nil {
			out = streamChunk{Error: chunk.Err.Error(), Done: true}
		}
		if err := writeChunk(c.Writer, out); err != nil {
			telemetry.Error("chat.stream_write", map[string]any{"error": err.Error()})
			return
		}
		if out.Done {
			return
		}
	}
}

func writeChunk(w gin.ResponseWriter, chunk streamChunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	w.Flush()
	return nil
}
