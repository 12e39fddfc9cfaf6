package facial

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pcos-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the facial analysis service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches facial analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/facial/analyze", h.analyze)
}

type analyzeRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageBase64 == "" {
		respond.Error(c, http.StatusBadRequest, "validation", "No image provided")
		return
	}

	analysis, score, err := h.Svc.Analyze(c.Request.Context(), req.ImageBase64)
	if err != nil {
		respond.PipelineError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"analysis":  analysis,
		"pcosScore": score,
	})
}
