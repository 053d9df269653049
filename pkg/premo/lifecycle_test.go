package premo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

type recordingObserver struct {
	seen []premo.State
}

func (r *recordingObserver) observe(s premo.State) {
	r.seen = append(r.seen, s)
}

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		name    string
		moves   []premo.State
		want    []premo.State // notifications after the initial replay
		wantEnd premo.State
	}{
		{"created to created", []premo.State{premo.Created}, nil, premo.Created},
		{"created to foreground", []premo.State{premo.InForeground}, []premo.State{premo.InForeground}, premo.InForeground},
		{"created to destroyed", []premo.State{premo.Destroyed}, []premo.State{premo.Destroyed}, premo.Destroyed},
		{"foreground to created", []premo.State{premo.InForeground, premo.Created}, []premo.State{premo.InForeground, premo.Created}, premo.Created},
		{"foreground to foreground", []premo.State{premo.InForeground, premo.InForeground}, []premo.State{premo.InForeground}, premo.InForeground},
		{
			"foreground to destroyed passes created",
			[]premo.State{premo.InForeground, premo.Destroyed},
			[]premo.State{premo.InForeground, premo.Created, premo.Destroyed},
			premo.Destroyed,
		},
		{
			"destroyed is terminal",
			[]premo.State{premo.Destroyed, premo.Created, premo.InForeground, premo.Destroyed},
			[]premo.State{premo.Destroyed},
			premo.Destroyed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := premo.NewLifecycle()
			obs := &recordingObserver{}
			l.AddObserver(obs.observe)

			for _, s := range tt.moves {
				l.MoveTo(s)
			}

			want := append([]premo.State{premo.Created}, tt.want...)
			assert.Equal(t, want, obs.seen)
			assert.Equal(t, tt.wantEnd, l.State())
		})
	}
}

func TestLifecycleObserversNotifiedInRegistrationOrder(t *testing.T) {
	l := premo.NewLifecycle()
	var order []string
	l.AddObserver(func(s premo.State) { order = append(order, "first:"+s.String()) })
	l.AddObserver(func(s premo.State) { order = append(order, "second:"+s.String()) })

	l.MoveTo(premo.InForeground)

	assert.Equal(t, []string{
		"first:CREATED",
		"second:CREATED",
		"first:IN_FOREGROUND",
		"second:IN_FOREGROUND",
	}, order)
}

func TestLifecycleLateObserverGetsReplay(t *testing.T) {
	l := premo.NewLifecycle()
	l.MoveTo(premo.InForeground)

	obs := &recordingObserver{}
	l.AddObserver(obs.observe)

	assert.Equal(t, []premo.State{premo.InForeground}, obs.seen)
}

func TestLifecycleRemoveObserver(t *testing.T) {
	l := premo.NewLifecycle()
	obs := &recordingObserver{}
	remove := l.AddObserver(obs.observe)
	remove()

	l.MoveTo(premo.InForeground)

	assert.Equal(t, []premo.State{premo.Created}, obs.seen)
}

func TestLifecycleObserverRemovedDuringRoundIsSkipped(t *testing.T) {
	l := premo.NewLifecycle()
	var later recordingObserver
	var removeLater func()

	l.AddObserver(func(s premo.State) {
		if s == premo.InForeground {
			removeLater()
		}
	})
	removeLater = l.AddObserver(later.observe)

	l.MoveTo(premo.InForeground)
	l.MoveTo(premo.Created)

	assert.Equal(t, []premo.State{premo.Created}, later.seen)
}

func TestLifecycleObserversClearedAfterDestroy(t *testing.T) {
	l := premo.NewLifecycle()
	obs := &recordingObserver{}
	l.AddObserver(obs.observe)
	l.MoveTo(premo.Destroyed)

	late := &recordingObserver{}
	l.AddObserver(late.observe)
	l.MoveTo(premo.InForeground)
	l.MoveTo(premo.Destroyed)

	assert.Equal(t, []premo.State{premo.Created, premo.Destroyed}, obs.seen)
	assert.Equal(t, []premo.State{premo.Destroyed}, late.seen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "CREATED", premo.Created.String())
	assert.Equal(t, "IN_FOREGROUND", premo.InForeground.String())
	assert.Equal(t, "DESTROYED", premo.Destroyed.String())
	assert.Equal(t, "UNKNOWN", premo.State(42).String())
}
