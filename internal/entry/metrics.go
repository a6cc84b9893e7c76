package entry

import "github.com/prometheus/client_golang/prometheus"

// Prometheus tracker metrics.
var (
	trackerEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wifiwatch_tracker_events_total",
			Help: "Total events processed by the tracker, by type.",
		},
		[]string{"type"},
	)
	trackerRecomputesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wifiwatch_tracker_recomputes_total",
			Help: "Total projection recomputations.",
		},
	)
	entrySignalLevel = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wifiwatch_entry_signal_level",
			Help: "Current quantized signal level (-1 means unreachable).",
		},
	)
	entrySaved = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wifiwatch_entry_saved",
			Help: "Whether a saved configuration matches the tracked entry (0 or 1).",
		},
	)
)

func init() {
	prometheus.MustRegister(trackerEventsTotal)
	prometheus.MustRegister(trackerRecomputesTotal)
	prometheus.MustRegister(entrySignalLevel)
	prometheus.MustRegister(entrySaved)
}

func recordProjection(p Projection) {
	trackerRecomputesTotal.Inc()
	entrySignalLevel.Set(float64(p.SignalLevel))
	if p.Saved {
		entrySaved.Set(1)
	} else {
		entrySaved.Set(0)
	}
}
