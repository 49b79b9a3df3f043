package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pmwatch/internal/domain/model"
)

const (
	namespace = "pmwatch"
	subsystem = "check"
)

// Recorder collects per-wallet gauges for one invocation and writes them for the
// node_exporter textfile collector.
type Recorder struct {
	registry *prometheus.Registry

	fetched     *prometheus.GaugeVec
	stored      *prometheus.GaugeVec
	skipped     *prometheus.GaugeVec
	reported    *prometheus.GaugeVec
	possibleGap *prometheus.GaugeVec
	fetchFailed *prometheus.GaugeVec
	lastRun     *prometheus.GaugeVec
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, []string{"wallet"})
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry:    prometheus.NewRegistry(),
		fetched:     gauge("fetched_activities", "Activities returned by the source in the last check."),
		stored:      gauge("stored_activities", "Activities inserted by the last check."),
		skipped:     gauge("skipped_activities", "Activities whose insert failed in the last check."),
		reported:    gauge("reported_activities", "New activities reported by the last check."),
		possibleGap: gauge("possible_gap", "1 when the watermark was not on the fetched page."),
		fetchFailed: gauge("fetch_failed", "1 when the source request failed."),
		lastRun:     gauge("last_run_timestamp_seconds", "Unix time of the last check."),
	}
	r.registry.MustRegister(r.fetched, r.stored, r.skipped, r.reported, r.possibleGap, r.fetchFailed, r.lastRun)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Observe(res *model.CheckResult, at time.Time) {
	if res == nil {
		return
	}
	w := res.Wallet
	r.fetched.WithLabelValues(w).Set(float64(res.Fetched))
	r.stored.WithLabelValues(w).Set(float64(res.Stored))
	r.skipped.WithLabelValues(w).Set(float64(res.Skipped))
	r.reported.WithLabelValues(w).Set(float64(len(res.Activities)))
	r.possibleGap.WithLabelValues(w).Set(boolGauge(res.PossibleGap))
	r.fetchFailed.WithLabelValues(w).Set(boolGauge(res.FetchFailed))
	r.lastRun.WithLabelValues(w).Set(float64(at.Unix()))
}

// WriteTextfile replaces path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
