package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

type screen struct {
	*premo.PresentationModel
}

func newScreen(p premo.Params) premo.Node {
	return &screen{PresentationModel: premo.New(p)}
}

func buildHost(t *testing.T, saver premo.StateSaver) *screen {
	t.Helper()
	factory := premo.NewRegistry().Fallback(newScreen)
	return premo.RootAs[*screen](premo.Describe("host"), factory, saver, premo.RootOptions{})
}

func states(nodes ...premo.Node) []premo.State {
	out := make([]premo.State, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.PM().State())
	}
	return out
}

func kinds(nodes []premo.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.PM().Description().Kind)
	}
	return out
}

func requirePrecondition(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value is %T", r)
		assert.True(t, premo.IsPrecondition(err))
		assert.ErrorIs(t, err, sentinel)
	}()
	fn()
}

type legacyScreen struct {
	*premo.PresentationModel
}

// buildStrictHost has no fallback constructor: "gone" is unknown and "legacy"
// builds a *legacyScreen instead of a *screen.
func buildStrictHost(t *testing.T, saver premo.StateSaver) *screen {
	t.Helper()
	factory := premo.NewRegistry().
		Register("host", newScreen).
		Register("list", newScreen).
		Register("master", newScreen).
		Register("item", newScreen).
		Register("legacy", func(p premo.Params) premo.Node {
			return &legacyScreen{PresentationModel: premo.New(p)}
		})
	return premo.RootAs[*screen](premo.Describe("host"), factory, saver, premo.RootOptions{})
}

func savedUnder(tag, key string, value any) *premo.MemoryStateSaver {
	return premo.NewMemoryStateSaverFrom(premo.Snapshot{tag: {key: value}})
}
