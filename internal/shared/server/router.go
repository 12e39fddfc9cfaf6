package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pcos-backend/internal/chat"
	"pcos-backend/internal/classifier"
	"pcos-backend/internal/facial"
	"pcos-backend/internal/food"
	"pcos-backend/internal/llm"
	"pcos-backend/internal/llm/gemini"
	"pcos-backend/internal/shared/config"
	"pcos-backend/internal/shared/metrics"
	"pcos-backend/internal/shared/server/middleware"
	"pcos-backend/internal/shared/server/respond"
	"pcos-backend/internal/shared/telemetry"
	"pcos-backend/internal/speech/deepgram"
	"pcos-backend/internal/voice"
)

const serviceName = "PCOD/PCOS Backend"

// NewRouter constructs the Gin engine with middleware and routes registered.
// Providers with missing credentials stay nil; their routes answer with a
// configuration error instead of failing startup.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	metrics.Register()

	// Dependencies
	var generator llm.Generator
	if g, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout); err != nil {
		telemetry.Error("startup.gemini_unavailable", map[string]any{"error": err.Error()})
	} else {
		generator = g
	}

	var speech voice.Speech
	if d, err := deepgram.NewClient(cfg.DeepgramAPIKey, cfg.DeepgramTimeout); err != nil {
		telemetry.Error("startup.deepgram_unavailable", map[string]any{"error": err.Error()})
	} else {
		speech = d
	}

	clip := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout)

	chatSvc := &chat.Service{LLM: generator}
	facialSvc := &facial.Service{Classifier: clip, Vision: generator}
	foodSvc := &food.Service{Classifier: clip, Vision: generator}
	voiceSvc := &voice.Service{Speech: speech, Chat: chatSvc}

	r.GET("/health", healthHandler)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	chat.NewHandler(chatSvc).RegisterRoutes(api)
	facial.NewHandler(facialSvc).RegisterRoutes(api)
	food.NewHandler(foodSvc).RegisterRoutes(api)
	voice.NewHandler(voiceSvc).RegisterRoutes(api)

	return r
}

func healthHandler(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
