// Package metrics provides a Prometheus-backed implementation of the
// coordination layer's metrics sink.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jvbreda/drmcore/system"
	"github.com/jvbreda/drmcore/types"
)

const namespace = "drmcore"

// Prometheus records coordination-layer measurements into a Prometheus
// registry. All methods are safe for concurrent use.
type Prometheus struct {
	systemInits          *prometheus.CounterVec
	contextRecoveries    prometheus.Counter
	clockBootstraps      *prometheus.CounterVec
	secureStopChallenges *prometheus.CounterVec
	secureStopCommits    *prometheus.CounterVec
	nonceEvictions       prometheus.Counter
	outstandingNonces    prometheus.Gauge
	storeHashes          *prometheus.CounterVec
}

var _ system.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the metric set and registers it with reg. A nil reg
// selects the default registerer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Prometheus{
		systemInits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "system_init_total",
			Help:      "System initialization attempts, by outcome.",
		}, []string{"success"}),
		contextRecoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "context_recoveries_total",
			Help:      "Context rebuilds triggered by an externally deleted store.",
		}),
		clockBootstraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_bootstrap_total",
			Help:      "Clock bootstrap runs, by resulting state.",
		}, []string{"state"}),
		secureStopChallenges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secure_stop_challenges_total",
			Help:      "Secure-stop challenge generations, by outcome.",
		}, []string{"success"}),
		secureStopCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "secure_stop_commits_total",
			Help:      "Secure-stop commits, by outcome.",
		}, []string{"success"}),
		nonceEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nonce_evictions_total",
			Help:      "Outstanding nonces rolled off the full ledger.",
		}),
		outstandingNonces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outstanding_nonces",
			Help:      "Secure-stop nonces currently outstanding.",
		}),
		storeHashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_hash_total",
			Help:      "Store integrity reports, by outcome.",
		}, []string{"success"}),
	}

	reg.MustRegister(
		m.systemInits,
		m.contextRecoveries,
		m.clockBootstraps,
		m.secureStopChallenges,
		m.secureStopCommits,
		m.nonceEvictions,
		m.outstandingNonces,
		m.storeHashes,
	)
	return m
}

func (m *Prometheus) IncrSystemInit(success bool) {
	m.systemInits.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (m *Prometheus) IncrContextRecovery() {
	m.contextRecoveries.Inc()
}

func (m *Prometheus) ObserveClockBootstrap(state types.ClockState) {
	m.clockBootstraps.WithLabelValues(state.String()).Inc()
}

func (m *Prometheus) IncrSecureStopChallenge(success bool) {
	m.secureStopChallenges.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (m *Prometheus) IncrSecureStopCommit(success bool) {
	m.secureStopCommits.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (m *Prometheus) IncrNonceEviction() {
	m.nonceEvictions.Inc()
}

func (m *Prometheus) SetOutstandingNonces(count int) {
	m.outstandingNonces.Set(float64(count))
}

func (m *Prometheus) IncrStoreHash(success bool) {
	m.storeHashes.WithLabelValues(strconv.FormatBool(success)).Inc()
}
