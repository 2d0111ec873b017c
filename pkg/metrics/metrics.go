package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_automation_uploads_total",
			Help: "Total spreadsheet uploads processed",
		},
		[]string{"status"},
	)

	UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_automation_upload_duration_seconds",
			Help:    "Full batch processing duration in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
	)

	RowsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_automation_rows_processed_total",
			Help: "Spreadsheet rows processed by outcome",
		},
		[]string{"outcome"},
	)

	QARequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_automation_qa_request_duration_seconds",
			Help:    "QA API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	ArtifactsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "answer_automation_artifacts_written_total",
			Help: "Total response artifacts written to disk",
		},
	)
)

func Init() {
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(UploadDuration)
	prometheus.MustRegister(RowsProcessed)
	prometheus.MustRegister(QARequestDuration)
	prometheus.MustRegister(ArtifactsWritten)
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
