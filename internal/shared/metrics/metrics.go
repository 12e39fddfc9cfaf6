package metrics

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// AnalysisTotal counts finished analyses by kind and outcome.
	AnalysisTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pcos",
		Subsystem: "backend",
		Name:      "analysis_total",
		Help:      "Total number of analyses performed, labeled by kind and result.",
	}, []string{"kind", "result"})

	// AnalysisDurationSeconds is end-to-end time per analysis, measured in the service.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pcos",
		Subsystem: "backend",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time to run one analysis, provider call included.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"kind"})

	// ProviderErrorTotal counts upstream provider failures by provider name.
	ProviderErrorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pcos",
		Subsystem: "backend",
		Name:      "provider_error_total",
		Help:      "Total number of failed calls to external AI providers.",
	}, []string{"provider"})
)

// Register registers all collectors with the default registry, once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(AnalysisTotal, AnalysisDurationSeconds, ProviderErrorTotal)
	})
}

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(kind string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AnalysisTotal.WithLabelValues(kind, result).Inc()
	AnalysisDurationSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
