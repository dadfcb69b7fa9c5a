package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatch_total",
			Help: "Channel dispatch attempts labeled by channel and result",
		},
		[]string{"channel", "result"},
	)
	processorRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processor_runs_total",
			Help: "Scheduled processor ticks labeled by outcome (run or skipped)",
		},
		[]string{"outcome"},
	)
	processorNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "processor_notifications_total",
			Help: "Notifications handled by the scheduled processor labeled by result",
		},
		[]string{"result"},
	)
	anomalyChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anomaly_checks_total",
			Help: "Anomaly analyses labeled by verdict (unusual, normal, error)",
		},
		[]string{"verdict"},
	)
)

// RecordDispatch counts one channel dispatch attempt.
func RecordDispatch(channel string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	dispatchTotal.WithLabelValues(channel, result).Inc()
}

// RecordProcessorRun counts one tick: "run" when the lease was acquired,
// "skipped" when a prior run still held it.
func RecordProcessorRun(outcome string) {
	processorRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordProcessedNotification counts one notification outcome within a tick.
func RecordProcessedNotification(result string) {
	processorNotificationsTotal.WithLabelValues(result).Inc()
}

// RecordAnomalyCheck counts one analysis verdict.
func RecordAnomalyCheck(verdict string) {
	anomalyChecksTotal.WithLabelValues(verdict).Inc()
}
