package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/saver"
)

func TestDelegateFromConfigClosesLogOnDestroy(t *testing.T) {
	factory := premo.NewRegistry().Fallback(func(p premo.Params) premo.Node { return premo.New(p) })
	cfg := DefaultConfig()
	cfg.Log.Level = "error"
	cfg.State.Backend = BackendMemory

	d, err := NewDelegateFromConfig[*premo.PresentationModel](cfg, premo.Describe("app"), factory, DelegateOptions{})
	require.NoError(t, err)
	require.NotNil(t, d.closeLog)

	closed := 0
	d.closeLog = func() { closed++ }
	require.NoError(t, d.OnCreate(t.Context()))
	require.NoError(t, d.OnDestroy(t.Context(), true))
	assert.Equal(t, 1, closed)

	plain := NewDelegate[*premo.PresentationModel](premo.Describe("app"), factory, saver.NewMemoryBackend(), DelegateOptions{})
	assert.Nil(t, plain.closeLog)
}
