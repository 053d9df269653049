package premo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

func TestTagDerivation(t *testing.T) {
	root := buildRoot(t, nil)
	child := root.Child(premo.Describe("list"))
	grandchild := child.PM().Child(premo.Describe("item", "7"))

	assert.Equal(t, premo.RootTag, root.Tag())
	assert.Equal(t, "root/list", child.PM().Tag())
	assert.Equal(t, "root/list/item:7", grandchild.PM().Tag())
	assert.Same(t, root.PresentationModel, child.PM().Parent())
}

func TestChildIsNotAttachedUntilAttachChild(t *testing.T) {
	root := buildRoot(t, nil)
	root.Lifecycle().MoveTo(premo.InForeground)

	child := root.Child(premo.Describe("child"))
	assert.Equal(t, premo.Created, child.PM().State())
	assert.False(t, root.IsAttached(child))

	root.AttachChild(child)
	assert.Equal(t, premo.InForeground, child.PM().State())
	assert.True(t, root.IsAttached(child))
}

func TestAttachedChildrenFollowParent(t *testing.T) {
	root := buildRoot(t, nil)
	a := root.AttachedChild(premo.Describe("a"))
	b := root.AttachedChild(premo.Describe("b"))
	unattached := root.Child(premo.Describe("c"))

	root.Lifecycle().MoveTo(premo.InForeground)
	assert.Equal(t, []premo.State{premo.InForeground, premo.InForeground, premo.Created}, states(a, b, unattached))

	root.Lifecycle().MoveTo(premo.Created)
	assert.Equal(t, []premo.State{premo.Created, premo.Created, premo.Created}, states(a, b, unattached))
}

func TestChildrenMoveDownBeforeParentScopeEnds(t *testing.T) {
	root := buildRoot(t, nil)
	child := root.AttachedChild(premo.Describe("child"))
	root.Lifecycle().MoveTo(premo.InForeground)

	var parentStillInForegroundScope bool
	child.PM().Lifecycle().AddObserver(func(s premo.State) {
		if s == premo.Created {
			_, parentStillInForegroundScope = root.ForegroundContext()
		}
	})

	root.Lifecycle().MoveTo(premo.Created)
	assert.True(t, parentStillInForegroundScope)
	assert.Equal(t, premo.Created, child.PM().State())
	_, ok := root.ForegroundContext()
	assert.False(t, ok)
}

func TestDetachChildDestroys(t *testing.T) {
	root := buildRoot(t, nil)
	root.Lifecycle().MoveTo(premo.InForeground)
	child := root.AttachedChild(premo.Describe("child"))

	root.DetachChild(child)

	assert.Equal(t, premo.Destroyed, child.PM().State())
	assert.Empty(t, root.AttachedChildren())
	assert.Empty(t, root.Children())
	assert.Nil(t, child.PM().Parent())
}

func TestUnbindChildKeepsChildAlive(t *testing.T) {
	root := buildRoot(t, nil)
	root.Lifecycle().MoveTo(premo.InForeground)
	child := root.AttachedChild(premo.Describe("child"))

	root.UnbindChild(child)
	assert.Equal(t, premo.Created, child.PM().State())
	assert.Len(t, root.Children(), 1)

	root.Lifecycle().MoveTo(premo.Created)
	root.Lifecycle().MoveTo(premo.InForeground)
	assert.Equal(t, premo.Created, child.PM().State())
}

func TestAttachAndDetachFromParent(t *testing.T) {
	root := buildRoot(t, nil)
	root.Lifecycle().MoveTo(premo.InForeground)
	child := root.Child(premo.Describe("child"))

	child.PM().AttachToParent()
	assert.Equal(t, premo.InForeground, child.PM().State())

	child.PM().DetachFromParent()
	assert.Equal(t, premo.Destroyed, child.PM().State())
	assert.Empty(t, root.Children())
}

func TestDestroyTearsDownWholeSubtree(t *testing.T) {
	saver := premo.NewMemoryStateSaver()
	root := buildRoot(t, saver)
	root.Lifecycle().MoveTo(premo.InForeground)

	attached := root.AttachedChild(premo.Describe("attached"))
	created := root.Child(premo.Describe("created"))
	nested := attached.PM().AttachedChild(premo.Describe("nested"))

	for _, n := range []premo.Node{root, attached, created, nested} {
		n.PM().StateHandler().SetSaver("k", func() any { return n.PM().Tag() })
	}
	root.SaveState()
	require.Equal(t, 4, saver.Len())

	root.Lifecycle().MoveTo(premo.Destroyed)

	assert.Equal(t, []premo.State{premo.Destroyed, premo.Destroyed, premo.Destroyed, premo.Destroyed},
		states(root, attached, created, nested))
	assert.Equal(t, 0, saver.Len())
	assert.Error(t, root.Context().Err())
	assert.Error(t, created.PM().Context().Err())
}

func TestDestroyedChildLeavesParentAndStore(t *testing.T) {
	saver := premo.NewMemoryStateSaver()
	root := buildRoot(t, saver)
	a := root.Child(premo.Describe("a"))
	ab := root.Child(premo.Describe("ab"))
	a.PM().StateHandler().SetSaver("v", func() any { return 1 })
	ab.PM().StateHandler().SetSaver("v", func() any { return 2 })
	root.SaveState()

	a.PM().Lifecycle().MoveTo(premo.Destroyed)

	_, okA := saver.ReadValue("root/a", "v")
	v, okAB := saver.ReadValue("root/ab", "v")
	assert.False(t, okA)
	assert.True(t, okAB)
	assert.Equal(t, 2, v)
	assert.Len(t, root.Children(), 1)
}

func TestForegroundContext(t *testing.T) {
	root := buildRoot(t, nil)

	_, ok := root.ForegroundContext()
	assert.False(t, ok)

	root.Lifecycle().MoveTo(premo.InForeground)
	first, ok := root.ForegroundContext()
	require.True(t, ok)
	assert.NoError(t, first.Err())

	root.Lifecycle().MoveTo(premo.Created)
	assert.ErrorIs(t, first.Err(), context.Canceled)
	_, ok = root.ForegroundContext()
	assert.False(t, ok)

	root.Lifecycle().MoveTo(premo.InForeground)
	second, ok := root.ForegroundContext()
	require.True(t, ok)
	assert.NotSame(t, first, second)

	root.Lifecycle().MoveTo(premo.Destroyed)
	assert.Error(t, second.Err())
	assert.Error(t, root.Context().Err())
}

func TestWhileInForegroundRestartsOnEveryEntry(t *testing.T) {
	root := buildRoot(t, nil)
	started := make(chan context.Context, 4)
	root.WhileInForeground(func(ctx context.Context) { started <- ctx })

	root.Lifecycle().MoveTo(premo.InForeground)
	first := receive(t, started)

	root.Lifecycle().MoveTo(premo.Created)
	<-first.Done()

	root.Lifecycle().MoveTo(premo.InForeground)
	second := receive(t, started)
	assert.NoError(t, second.Err())
}

func receive(t *testing.T, ch <-chan context.Context) context.Context {
	t.Helper()
	select {
	case ctx := <-ch:
		return ctx
	case <-time.After(time.Second):
		t.Fatal("foreground work was not started")
		return nil
	}
}

func TestSaveStateCoversCreatedAndAttachedChildren(t *testing.T) {
	saver := premo.NewMemoryStateSaver()
	root := buildRoot(t, saver)
	attached := root.AttachedChild(premo.Describe("attached"))
	created := root.Child(premo.Describe("created"))

	root.StateHandler().SetSaver("title", func() any { return "main" })
	attached.PM().StateHandler().SetSaver("count", func() any { return 3 })
	created.PM().StateHandler().SetSaver("query", func() any { return "go" })

	root.SaveState()

	assert.Equal(t, premo.Snapshot{
		"root":          {"title": "main"},
		"root/attached": {"count": 3},
		"root/created":  {"query": "go"},
	}, saver.Snapshot())
}

func TestChildPreconditions(t *testing.T) {
	root := buildRoot(t, nil)
	root.Child(premo.Describe("dup"))

	assertPrecondition(t, premo.ErrDuplicateTag, func() { root.Child(premo.Describe("dup")) })
	assertPrecondition(t, premo.ErrTagMismatch, func() {
		bad := premo.FactoryFunc(func(premo.Params) premo.Node {
			return &testPm{PresentationModel: premo.New(premo.Params{Description: premo.Describe("elsewhere")})}
		})
		premo.NewRoot(premo.Describe("x"), bad, nil, premo.RootOptions{}).PM().Child(premo.Describe("y"))
	})

	other := buildRoot(t, nil)
	stranger := other.Child(premo.Describe("stranger"))
	assertPrecondition(t, premo.ErrNotAChild, func() { root.AttachChild(stranger) })

	destroyed := root.Child(premo.Describe("gone"))
	destroyed.PM().Lifecycle().MoveTo(premo.Destroyed)
	assertPrecondition(t, premo.ErrDestroyed, func() { destroyed.PM().Child(premo.Describe("late")) })

	assertPrecondition(t, premo.ErrTypeMismatch, func() {
		premo.ChildAs[*otherPm](root.PresentationModel, premo.Describe("typed"))
	})
	assert.Len(t, root.Children(), 1)
}

type otherPm struct {
	*premo.PresentationModel
}

func assertPrecondition(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, premo.IsPrecondition(err))
		assert.ErrorIs(t, err, sentinel)
	}()
	fn()
}

func TestTryChildAsReturnsStaleDescriptionErrors(t *testing.T) {
	factory := premo.NewRegistry().
		Register("root_pm", newTestPm).
		Register("screen", newTestPm)
	root := premo.RootAs[*testPm](premo.Describe("root_pm"), factory, nil, premo.RootOptions{})

	_, err := premo.TryChildAs[*testPm](root.PresentationModel, premo.Describe("gone"))
	assert.ErrorIs(t, err, premo.ErrUnknownKind)
	assert.True(t, premo.IsPrecondition(err))

	_, err = premo.TryChildAs[*otherPm](root.PresentationModel, premo.Describe("screen"))
	assert.ErrorIs(t, err, premo.ErrTypeMismatch)
	assert.Empty(t, root.Children())

	child, err := premo.TryChildAs[*testPm](root.PresentationModel, premo.Describe("screen"))
	require.NoError(t, err)
	assert.Equal(t, "root/screen", child.Tag())

	_, err = premo.TryChildAs[*testPm](root.PresentationModel, premo.Describe("screen"))
	assert.ErrorIs(t, err, premo.ErrDuplicateTag)
	assert.Len(t, root.Children(), 1)

	root.Lifecycle().MoveTo(premo.Destroyed)
	assertPrecondition(t, premo.ErrDestroyed, func() {
		_, _ = premo.TryChildAs[*testPm](root.PresentationModel, premo.Describe("screen"))
	})
}

func TestHandleBackAsksNewestHandlerFirst(t *testing.T) {
	root := buildRoot(t, nil)
	var calls []string
	root.OnBack(func() bool { calls = append(calls, "first"); return true })
	remove := root.OnBack(func() bool { calls = append(calls, "second"); return false })

	assert.True(t, root.HandleBack())
	assert.Equal(t, []string{"second", "first"}, calls)

	remove()
	calls = nil
	assert.True(t, root.HandleBack())
	assert.Equal(t, []string{"first"}, calls)
}

type pingMessage struct{ n int }

func TestMessagesBubbleToParent(t *testing.T) {
	root := buildRoot(t, nil)
	child := root.Child(premo.Describe("child"))
	grandchild := child.PM().Child(premo.Describe("grandchild"))

	var got []int
	premo.HandleMessage(root.Messages(), func(m pingMessage) { got = append(got, m.n) })

	assert.True(t, grandchild.PM().SendToParent(pingMessage{n: 1}))
	assert.False(t, grandchild.PM().SendToParent("unknown"))
	assert.False(t, root.SendToParent(pingMessage{n: 2}))
	assert.Equal(t, []int{1}, got)
}

func TestRegistryDispatchesOnKind(t *testing.T) {
	var built []string
	registry := premo.NewRegistry().
		Register("main", func(p premo.Params) premo.Node {
			built = append(built, "main")
			return newTestPm(p)
		}).
		Register("detail", func(p premo.Params) premo.Node {
			built = append(built, "detail")
			return &otherPm{PresentationModel: premo.New(p)}
		})

	root := premo.NewRoot(premo.Describe("main"), registry, nil, premo.RootOptions{})
	detail := premo.ChildAs[*otherPm](root.PM(), premo.Describe("detail", "1"))

	assert.Equal(t, []string{"main", "detail"}, built)
	assert.Equal(t, "root/detail:1", detail.Tag())
	assert.Equal(t, 2, registry.Kinds())
	assertPrecondition(t, premo.ErrUnknownKind, func() { root.PM().Child(premo.Describe("missing")) })
}
