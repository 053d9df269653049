package premo_test

import (
	"testing"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

type testPm struct {
	*premo.PresentationModel
}

func newTestPm(p premo.Params) premo.Node {
	return &testPm{PresentationModel: premo.New(p)}
}

func testFactory() *premo.Registry {
	return premo.NewRegistry().Fallback(newTestPm)
}

func buildRoot(t *testing.T, saver premo.StateSaver) *testPm {
	t.Helper()
	return premo.RootAs[*testPm](premo.Describe("root_pm"), testFactory(), saver, premo.RootOptions{})
}

func states(nodes ...premo.Node) []premo.State {
	out := make([]premo.State, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.PM().State())
	}
	return out
}
