package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EntriesAppendedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_entries_appended_total",
		Help: "Total number of journal entries appended",
	})
	EntriesRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_entries_rejected_total",
		Help: "Journal submissions rejected by validation",
	}, []string{"reason"})
	StoreSaveFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_store_save_fail_total",
		Help: "Failed writes of the entry blob to the backing store",
	})
	StoreLoadCorruptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "atlas_store_load_corrupt_total",
		Help: "Loads where the persisted blob failed to parse and was treated as empty",
	})
	RollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_rolls_total",
		Help: "Souvenir die rolls by resulting prompt",
	}, []string{"souvenir"})
	ViewportEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_viewport_events_total",
		Help: "Viewport gesture events by type and result",
	}, []string{"type", "result"})
	ViewportSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "atlas_viewport_sessions",
		Help: "Live viewport sessions",
	})
	RenderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "atlas_render_duration_ms",
		Help:    "Per-feature render derivation duration in milliseconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50, 100},
	})
	TapResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_tap_resolve_total",
		Help: "Tap to country resolutions by outcome",
	}, []string{"outcome"})
	LocateLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_locate_lookups_total",
		Help: "Home region suggestions by answering source",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(EntriesAppendedTotal)
	prometheus.MustRegister(EntriesRejectedTotal)
	prometheus.MustRegister(StoreSaveFailTotal)
	prometheus.MustRegister(StoreLoadCorruptTotal)
	prometheus.MustRegister(RollsTotal)
	prometheus.MustRegister(ViewportEventsTotal)
	prometheus.MustRegister(ViewportSessions)
	prometheus.MustRegister(RenderDurationMs)
	prometheus.MustRegister(TapResolveTotal)
	prometheus.MustRegister(LocateLookupsTotal)
}

// Handler：返回 Prometheus 指标处理器，在 API_BASE/metrics 挂载
func Handler() http.Handler { return promhttp.Handler() }
