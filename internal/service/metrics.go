package service

import "github.com/prometheus/client_golang/prometheus"

const (
	sourceURL    = "url"
	sourceMarkup = "markup"
)

var (
	detectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_detections_total",
			Help: "Total number of form detection calls",
		},
		[]string{"source", "outcome"},
	)

	formsPerDocument = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "form_detection_forms_per_document",
			Help:    "Number of forms reported per successfully processed document",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		},
	)

	fetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "form_detection_fetch_duration_seconds",
			Help:    "Duration of outbound page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(detectionsTotal, formsPerDocument, fetchDuration)
}

func observeDetection(source string, forms int, err error) {
	if err != nil {
		detectionsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	detectionsTotal.WithLabelValues(source, "ok").Inc()
	formsPerDocument.Observe(float64(forms))
}
