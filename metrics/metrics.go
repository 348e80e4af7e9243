package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ffbot"

// Recorder holds the bot's prometheus collectors. A nil *Recorder is valid and
// records nothing, so components can be built without metrics in tests.
type Recorder struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	commands         *prometheus.CounterVec
	commandLatency   *prometheus.HistogramVec
	playerRefreshes  *prometheus.CounterVec
	leagues          prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests sent to upstream data sources.",
		}, []string{"upstream", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of upstream requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"upstream"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "handled_total",
			Help:      "Chat commands handled, by outcome.",
		}, []string{"command", "outcome"}),
		commandLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Time spent producing a command reply.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		playerRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sleeper",
			Name:      "player_directory_loads_total",
			Help:      "Player directory loads, split by whether the file was refetched.",
		}, []string{"source"}),
		leagues: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configured_leagues",
			Help:      "Number of leagues in the registry.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			r.upstreamRequests,
			r.upstreamLatency,
			r.commands,
			r.commandLatency,
			r.playerRefreshes,
			r.leagues,
		)
	}
	return r
}

func (r *Recorder) RecordUpstream(upstream, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(upstream, outcome).Inc()
	r.upstreamLatency.WithLabelValues(upstream).Observe(d.Seconds())
}

func (r *Recorder) RecordCommand(command, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(command, outcome).Inc()
	r.commandLatency.WithLabelValues(command).Observe(d.Seconds())
}

// RecordPlayerLoad counts a player directory load. source is "network" when the
// file was refetched, "disk" when the existing file was reused.
func (r *Recorder) RecordPlayerLoad(source string) {
	if r == nil {
		return
	}
	r.playerRefreshes.WithLabelValues(source).Inc()
}

func (r *Recorder) SetLeagues(n int) {
	if r == nil {
		return
	}
	r.leagues.Set(float64(n))
}
