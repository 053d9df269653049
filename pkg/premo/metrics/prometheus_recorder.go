package metrics

import (
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

const namespace = "premo"

var _ premo.Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements premo.Recorder using Prometheus counters.
// The zero value records nothing.
type PrometheusRecorder struct {
	transitions *prom.CounterVec
	navigation  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the metrics. A nil registry
// gets a private one. Registering twice on the same registry panics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_transitions_total",
			Help:      "Lifecycle transitions by presentation model kind and target state",
		}, []string{"kind", "state"}),
		navigation: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_operations_total",
			Help:      "Navigator operations by navigator, operation and whether anything changed",
		}, []string{"navigator", "op", "changed"}),
	}
	reg.MustRegister(pr.transitions, pr.navigation)
	return pr
}

func (p *PrometheusRecorder) ObserveTransition(kind string, to premo.State) {
	if p == nil || p.transitions == nil {
		return
	}
	p.transitions.WithLabelValues(kind, to.String()).Inc()
}

func (p *PrometheusRecorder) ObserveNavigation(navigator, op string, changed bool) {
	if p == nil || p.navigation == nil {
		return
	}
	p.navigation.WithLabelValues(navigator, op, strconv.FormatBool(changed)).Inc()
}
