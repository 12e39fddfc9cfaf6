package telemetry

import (
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup configures the process-wide logger. Production emits one JSON object
// per line; everything else keeps the human-readable handler.
func Setup(env string) {
	if strings.EqualFold(env, "production") {
		log.SetHandler(json.New(os.Stdout))
	} else {
		log.SetHandler(text.New(os.Stdout))
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := log.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		}
	}
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	log.WithFields(log.Fields(fields)).Info(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	log.WithFields(log.Fields(fields)).Error(msg)
}
