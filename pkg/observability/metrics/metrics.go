package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	submissionsSucceeded atomic.Int64
	submissionsAbandoned atomic.Int64
	failuresTransport    atomic.Int64
	failuresStatus       atomic.Int64
	failuresMalformed    atomic.Int64
	highRiskResults      atomic.Int64
	latencyMillisTotal   atomic.Int64
	activeSessions       atomic.Int64
)

// Failure kinds reported by ObserveFailure.
const (
	FailureTransport = "transport"
	FailureStatus    = "status"
	FailureMalformed = "malformed"
)

func ObserveSuccess(highRisk bool, latency time.Duration) {
	submissionsSucceeded.Add(1)
	latencyMillisTotal.Add(latency.Milliseconds())
	if highRisk {
		highRiskResults.Add(1)
	}
}

func ObserveFailure(kind string, latency time.Duration) {
	latencyMillisTotal.Add(latency.Milliseconds())
	switch kind {
	case FailureStatus:
		failuresStatus.Add(1)
	case FailureMalformed:
		failuresMalformed.Add(1)
	default:
		failuresTransport.Add(1)
	}
}

func ObserveAbandoned() {
	submissionsAbandoned.Add(1)
}

func SetActiveSessions(n int) {
	activeSessions.Store(int64(n))
}

// Reset zeroes every counter. Used by tests.
func Reset() {
	for _, c := range []*atomic.Int64{
		&submissionsSucceeded, &submissionsAbandoned,
		&failuresTransport, &failuresStatus, &failuresMalformed,
		&highRiskResults, &latencyMillisTotal, &activeSessions,
	} {
		c.Store(0)
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP cardiocheck_submissions_succeeded_total Assessments that returned a valid prediction.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_submissions_succeeded_total counter\n")
	fmt.Fprintf(w, "cardiocheck_submissions_succeeded_total %d\n", submissionsSucceeded.Load())

	fmt.Fprintf(w, "# HELP cardiocheck_submissions_failed_total Assessments that failed, by failure kind.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_submissions_failed_total counter\n")
	fmt.Fprintf(w, "cardiocheck_submissions_failed_total{kind=%q} %d\n", FailureTransport, failuresTransport.Load())
	fmt.Fprintf(w, "cardiocheck_submissions_failed_total{kind=%q} %d\n", FailureStatus, failuresStatus.Load())
	fmt.Fprintf(w, "cardiocheck_submissions_failed_total{kind=%q} %d\n", FailureMalformed, failuresMalformed.Load())

	fmt.Fprintf(w, "# HELP cardiocheck_submissions_abandoned_total Requests discarded after a reset or newer submission.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_submissions_abandoned_total counter\n")
	fmt.Fprintf(w, "cardiocheck_submissions_abandoned_total %d\n", submissionsAbandoned.Load())

	fmt.Fprintf(w, "# HELP cardiocheck_results_high_risk_total Predictions flagged as high risk.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_results_high_risk_total counter\n")
	fmt.Fprintf(w, "cardiocheck_results_high_risk_total %d\n", highRiskResults.Load())

	fmt.Fprintf(w, "# HELP cardiocheck_prediction_latency_milliseconds_total Cumulative prediction round-trip time.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_prediction_latency_milliseconds_total counter\n")
	fmt.Fprintf(w, "cardiocheck_prediction_latency_milliseconds_total %d\n", latencyMillisTotal.Load())

	fmt.Fprintf(w, "# HELP cardiocheck_sessions_active Sessions currently held in memory.\n")
	fmt.Fprintf(w, "# TYPE cardiocheck_sessions_active gauge\n")
	fmt.Fprintf(w, "cardiocheck_sessions_active %d\n", activeSessions.Load())
}
