package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/metrics"
	"github.com/BrandonKowalski/premo/pkg/premo/navigation"
)

type screen struct {
	*premo.PresentationModel
}

func newTree(t *testing.T, recorder premo.Recorder) premo.Node {
	t.Helper()
	factory := premo.NewRegistry().Fallback(func(p premo.Params) premo.Node {
		return &screen{PresentationModel: premo.New(p)}
	})
	return premo.NewRoot(premo.Describe("app"), factory, nil, premo.RootOptions{Recorder: recorder})
}

func counterValue(t *testing.T, reg *prom.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestPrometheusRecorderCountsTransitions(t *testing.T) {
	reg := prom.NewRegistry()
	root := newTree(t, metrics.NewPrometheusRecorder(reg))
	root.PM().AttachedChild(premo.Describe("list"))

	root.PM().Lifecycle().MoveTo(premo.InForeground)
	root.PM().Lifecycle().MoveTo(premo.Created)
	root.PM().Lifecycle().MoveTo(premo.InForeground)
	root.PM().Lifecycle().MoveTo(premo.Destroyed)

	name := "premo_lifecycle_transitions_total"
	assert.Equal(t, 2.0, counterValue(t, reg, name, map[string]string{"kind": "list", "state": "IN_FOREGROUND"}))
	assert.Equal(t, 2.0, counterValue(t, reg, name, map[string]string{"kind": "app", "state": "IN_FOREGROUND"}))
	assert.Equal(t, 1.0, counterValue(t, reg, name, map[string]string{"kind": "list", "state": "DESTROYED"}))
}

func TestPrometheusRecorderCountsNavigation(t *testing.T) {
	reg := prom.NewRegistry()
	root := newTree(t, metrics.NewPrometheusRecorder(reg))
	nav := navigation.NewStackNavigator(root, navigation.StackOptions{
		Initial: []premo.Description{premo.Describe("inbox")},
	})

	nav.Push(root.PM().Child(premo.Describe("message")))
	nav.Pop()
	nav.PopToRoot()

	name := "premo_navigation_operations_total"
	assert.Equal(t, 1.0, counterValue(t, reg, name, map[string]string{"navigator": "stack", "op": "push", "changed": "true"}))
	assert.Equal(t, 1.0, counterValue(t, reg, name, map[string]string{"navigator": "stack", "op": "pop", "changed": "true"}))
	assert.Equal(t, 1.0, counterValue(t, reg, name, map[string]string{"navigator": "stack", "op": "pop_to_root", "changed": "false"}))
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *metrics.PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveTransition("app", premo.Created)
		pr.ObserveNavigation("stack", "push", true)
	})
}

func TestPrometheusRecorderZeroValue(t *testing.T) {
	var pr metrics.PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveTransition("app", premo.Created)
		pr.ObserveNavigation("stack", "push", true)
	})
}

func TestPrometheusRecordersAreIndependent(t *testing.T) {
	first, second := prom.NewRegistry(), prom.NewRegistry()
	metrics.NewPrometheusRecorder(first).ObserveTransition("app", premo.InForeground)
	metrics.NewPrometheusRecorder(second)

	name := "premo_lifecycle_transitions_total"
	labels := map[string]string{"kind": "app", "state": "IN_FOREGROUND"}
	assert.Equal(t, 1.0, counterValue(t, first, name, labels))
	assert.Equal(t, 0.0, counterValue(t, second, name, labels))

	assert.Panics(t, func() { metrics.NewPrometheusRecorder(first) })
}

func TestPrometheusRecorderLint(t *testing.T) {
	reg := prom.NewRegistry()
	pr := metrics.NewPrometheusRecorder(reg)
	pr.ObserveTransition("app", premo.InForeground)
	pr.ObserveNavigation("set", "change_current", true)

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	metrics.NewPrometheusRecorder(reg).ObserveTransition("app", premo.Created)

	srv := httptest.NewServer(metrics.HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `premo_lifecycle_transitions_total{kind="app",state="CREATED"} 1`)
}
