package premo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/BrandonKowalski/premo/pkg/premo/constants"
	"github.com/BrandonKowalski/premo/pkg/premo/internal"
)

// RootTag is the tag of every root presentation model.
const RootTag = constants.RootTag

// Node is anything backed by a presentation model. Concrete presentation
// models embed *PresentationModel and satisfy Node through it.
type Node interface {
	PM() *PresentationModel
}

type backEntry struct {
	fn func() bool
}

// PresentationModel is a node of the presentation tree. It owns a Lifecycle,
// a handle on the keyed store and its children. The parent reference is a
// lookup edge only; ownership runs from parent to children.
//
// A presentation model is not safe for concurrent use. All calls are expected
// on the goroutine that drives the root's lifecycle.
type PresentationModel struct {
	description Description
	tag         string
	parent      *PresentationModel

	factory    Factory
	saver      StateSaver
	recorder   Recorder
	baseLogger *slog.Logger
	logger     *slog.Logger

	lifecycle    *Lifecycle
	stateHandler *StateHandler
	messages     *MessageHandler

	ctx    context.Context
	cancel context.CancelFunc

	fgCtx          context.Context
	fgCancel       context.CancelFunc
	foregroundWork []func(ctx context.Context)

	backHandlers []*backEntry

	allChildren []Node
	attached    []Node
}

// New builds the presentation model for params. Constructors call it and embed
// the result:
//
//	type CounterPm struct {
//	    *premo.PresentationModel
//	    Count *premo.Value[int]
//	}
//
//	func NewCounterPm(p premo.Params) premo.Node {
//	    pm := &CounterPm{PresentationModel: premo.New(p)}
//	    pm.Count = premo.Saveable(pm.PM(), "count", 0)
//	    return pm
//	}
func New(params Params) *PresentationModel {
	key := params.Description.Key()

	tag := RootTag
	if params.Parent != nil {
		tag = params.Parent.tag + constants.TagSeparator + key
	}
	if !validKey(key) {
		fail("new", tag, fmt.Errorf("invalid description key %q", key))
	}

	saver := params.Saver
	if saver == nil {
		saver = NewMemoryStateSaver()
	}
	recorder := params.Recorder
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	baseLogger := params.Logger
	if baseLogger == nil {
		baseLogger = internal.GetInternalLogger()
	}
	logger := baseLogger.With(internal.Tag(tag))

	var parentMessages *MessageHandler
	if params.Parent != nil {
		parentMessages = params.Parent.messages
	}

	ctx, cancel := context.WithCancel(context.Background())

	pm := &PresentationModel{
		description:  params.Description,
		tag:          tag,
		parent:       params.Parent,
		factory:      params.Factory,
		saver:        saver,
		recorder:     recorder,
		baseLogger:   baseLogger,
		logger:       logger,
		lifecycle:    NewLifecycle(),
		stateHandler: newStateHandler(tag, saver, logger),
		messages:     NewMessageHandler(parentMessages),
		ctx:          ctx,
		cancel:       cancel,
	}

	pm.lifecycle.AddObserver(pm.onLifecycleChange)
	return pm
}

// RootOptions configures NewRoot.
type RootOptions struct {
	Recorder Recorder     // Observes transitions and navigation; nil records nothing
	Logger   *slog.Logger // Base logger; nil uses the internal logger
}

// NewRoot creates the root of a presentation tree through factory. The root's
// tag is RootTag and saver is threaded down to every descendant.
func NewRoot(description Description, factory Factory, saver StateSaver, opts RootOptions) Node {
	if saver == nil {
		saver = NewMemoryStateSaver()
	}
	node := factory.Create(Params{
		Description: description,
		Factory:     factory,
		Saver:       saver,
		Recorder:    opts.Recorder,
		Logger:      opts.Logger,
	})
	if node.PM().tag != RootTag || node.PM().parent != nil {
		fail("new_root", node.PM().tag, ErrTagMismatch)
	}
	return node
}

// RootAs creates the root and asserts its concrete type.
func RootAs[T Node](description Description, factory Factory, saver StateSaver, opts RootOptions) T {
	node := NewRoot(description, factory, saver, opts)
	t, ok := node.(T)
	if !ok {
		fail("new_root", RootTag, fmt.Errorf("%w: factory returned %T", ErrTypeMismatch, node))
	}
	return t
}

func (pm *PresentationModel) PM() *PresentationModel {
	return pm
}

func (pm *PresentationModel) Description() Description {
	return pm.description
}

// Tag is the hierarchical path of this node: parentTag/key.
func (pm *PresentationModel) Tag() string {
	return pm.tag
}

// Parent returns the parent, or nil for the root and for destroyed nodes.
func (pm *PresentationModel) Parent() *PresentationModel {
	return pm.parent
}

func (pm *PresentationModel) Lifecycle() *Lifecycle {
	return pm.lifecycle
}

// State is a shortcut for Lifecycle().State().
func (pm *PresentationModel) State() State {
	return pm.lifecycle.State()
}

func (pm *PresentationModel) IsDestroyed() bool {
	return pm.lifecycle.State() == Destroyed
}

func (pm *PresentationModel) StateHandler() *StateHandler {
	return pm.stateHandler
}

func (pm *PresentationModel) Messages() *MessageHandler {
	return pm.messages
}

func (pm *PresentationModel) Recorder() Recorder {
	return pm.recorder
}

func (pm *PresentationModel) Logger() *slog.Logger {
	return pm.logger
}

// Children returns every tracked child, attached or not.
func (pm *PresentationModel) Children() []Node {
	return slices.Clone(pm.allChildren)
}

// AttachedChildren returns the children whose lifecycle follows this node, in
// attachment order.
func (pm *PresentationModel) AttachedChildren() []Node {
	return slices.Clone(pm.attached)
}

// IsAttached reports whether child currently follows this node's lifecycle.
func (pm *PresentationModel) IsAttached(child Node) bool {
	return indexOf(pm.attached, child.PM()) >= 0
}

// Child creates a child through the factory. The child is tracked for saving
// and cleanup but its lifecycle is not bound until AttachChild.
func (pm *PresentationModel) Child(description Description) Node {
	pm.checkAlive("child")

	want := pm.tag + constants.TagSeparator + description.Key()
	for _, c := range pm.allChildren {
		if c.PM().tag == want {
			fail("child", want, ErrDuplicateTag)
		}
	}

	if pm.factory == nil {
		fail("child", want, ErrUnknownKind)
	}
	node := pm.factory.Create(Params{
		Description: description,
		Parent:      pm,
		Factory:     pm.factory,
		Saver:       pm.saver,
		Recorder:    pm.recorder,
		Logger:      pm.baseLogger,
	})

	child := node.PM()
	if child.tag != want || child.parent != pm {
		fail("child", child.tag, ErrTagMismatch)
	}

	pm.allChildren = append(pm.allChildren, node)
	return node
}

// AttachedChild creates a child and attaches it.
func (pm *PresentationModel) AttachedChild(description Description) Node {
	node := pm.Child(description)
	pm.AttachChild(node)
	return node
}

// ChildAs creates a child and asserts its concrete type.
func ChildAs[T Node](pm *PresentationModel, description Description) T {
	node := pm.Child(description)
	t, ok := node.(T)
	if !ok {
		node.PM().lifecycle.MoveTo(Destroyed)
		fail("child", node.PM().tag, fmt.Errorf("%w: factory returned %T", ErrTypeMismatch, node))
	}
	return t
}

// TryChildAs is ChildAs for descriptions read back from the store. A kind
// without a constructor, a constructor returning another type, or a clashing
// tag is returned as an error and nothing is left behind. Any other misuse
// still panics.
func TryChildAs[T Node](pm *PresentationModel, description Description) (child T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var perr *PreconditionError
		if e, ok := r.(error); ok && errors.As(e, &perr) && restorable(perr) {
			err = perr
			return
		}
		panic(r)
	}()
	return ChildAs[T](pm, description), nil
}

func restorable(err *PreconditionError) bool {
	for _, sentinel := range []error{ErrUnknownKind, ErrTypeMismatch, ErrDuplicateTag, ErrTagMismatch} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// AttachedChildAs creates a child of type T and attaches it.
func AttachedChildAs[T Node](pm *PresentationModel, description Description) T {
	t := ChildAs[T](pm, description)
	pm.AttachChild(t)
	return t
}

// AttachChild moves child to this node's state and replays every later
// transition onto it.
func (pm *PresentationModel) AttachChild(child Node) {
	c := child.PM()
	pm.checkAlive("attach_child")
	if c.parent != pm {
		fail("attach_child", c.tag, ErrNotAChild)
	}
	if c.IsDestroyed() {
		fail("attach_child", c.tag, ErrDestroyed)
	}

	if indexOf(pm.allChildren, c) < 0 {
		pm.allChildren = append(pm.allChildren, child)
	}

	c.lifecycle.MoveTo(pm.lifecycle.State())
	if indexOf(pm.attached, c) < 0 {
		pm.attached = append(pm.attached, child)
	}
}

// DetachChild destroys child. A destroyed child leaves both child lists.
func (pm *PresentationModel) DetachChild(child Node) {
	c := child.PM()
	if c.IsDestroyed() {
		return
	}
	if c.parent != pm {
		fail("detach_child", c.tag, ErrNotAChild)
	}
	c.lifecycle.MoveTo(Destroyed)
	pm.attached = remove(pm.attached, c)
}

// UnbindChild stops replaying this node's transitions onto child and moves it
// back to CREATED. The child stays alive and tracked.
func (pm *PresentationModel) UnbindChild(child Node) {
	c := child.PM()
	pm.attached = remove(pm.attached, c)
	if !c.IsDestroyed() {
		c.lifecycle.MoveTo(Created)
	}
}

// AttachToParent attaches this node to its own parent.
func (pm *PresentationModel) AttachToParent() {
	if pm.parent != nil {
		pm.parent.AttachChild(pm)
	}
}

// DetachFromParent destroys this node through its parent.
func (pm *PresentationModel) DetachFromParent() {
	if pm.parent != nil {
		pm.parent.DetachChild(pm)
	}
}

// SaveState writes this node's saved values, then every tracked child's.
func (pm *PresentationModel) SaveState() {
	pm.stateHandler.SaveState()
	for _, c := range slices.Clone(pm.allChildren) {
		c.PM().SaveState()
	}
}

// Context is cancelled when the node is destroyed.
func (pm *PresentationModel) Context() context.Context {
	return pm.ctx
}

// ForegroundContext returns the context of the current foreground period.
// It is cancelled when the node leaves IN_FOREGROUND.
func (pm *PresentationModel) ForegroundContext() (context.Context, bool) {
	if pm.fgCtx == nil {
		return nil, false
	}
	return pm.fgCtx, true
}

// Go runs fn on its own goroutine bound to the node's long-lived context.
func (pm *PresentationModel) Go(fn func(ctx context.Context)) {
	pm.checkAlive("go")
	go fn(pm.ctx)
}

// WhileInForeground runs fn every time the node enters IN_FOREGROUND, with a
// context cancelled when it leaves. If the node is already in the foreground
// fn starts immediately.
func (pm *PresentationModel) WhileInForeground(fn func(ctx context.Context)) {
	pm.checkAlive("while_in_foreground")
	pm.foregroundWork = append(pm.foregroundWork, fn)
	if pm.fgCtx != nil {
		go fn(pm.fgCtx)
	}
}

// OnBack registers a back handler. Handlers are asked newest first.
func (pm *PresentationModel) OnBack(fn func() bool) (remove func()) {
	entry := &backEntry{fn: fn}
	pm.backHandlers = append(pm.backHandlers, entry)
	return func() {
		for i, e := range pm.backHandlers {
			if e == entry {
				pm.backHandlers = append(pm.backHandlers[:i:i], pm.backHandlers[i+1:]...)
				return
			}
		}
	}
}

// HandleBack offers a back intent to the registered handlers. False means no
// in-tree navigation applies at this level.
func (pm *PresentationModel) HandleBack() bool {
	for i := len(pm.backHandlers) - 1; i >= 0; i-- {
		if pm.backHandlers[i].fn() {
			return true
		}
	}
	return false
}

// SendToParent dispatches msg starting at the parent's message handler.
func (pm *PresentationModel) SendToParent(msg Message) bool {
	if pm.parent == nil {
		return false
	}
	return pm.parent.messages.Dispatch(msg)
}

func (pm *PresentationModel) onLifecycleChange(state State) {
	for _, c := range slices.Clone(pm.attached) {
		c.PM().lifecycle.MoveTo(state)
	}

	pm.recorder.ObserveTransition(pm.description.Kind, state)
	pm.logger.Debug("lifecycle changed", internal.State(state.String()))

	switch state {
	case InForeground:
		pm.startForeground()
	case Created:
		pm.stopForeground()
	case Destroyed:
		pm.teardown()
	}
}

func (pm *PresentationModel) startForeground() {
	pm.fgCtx, pm.fgCancel = context.WithCancel(pm.ctx)
	for _, fn := range pm.foregroundWork {
		go fn(pm.fgCtx)
	}
}

func (pm *PresentationModel) stopForeground() {
	if pm.fgCancel != nil {
		pm.fgCancel()
	}
	pm.fgCtx = nil
	pm.fgCancel = nil
}

// teardown runs once, on the transition to DESTROYED. Children that were only
// created, never attached, are destroyed too so none of their scopes leak.
func (pm *PresentationModel) teardown() {
	for _, c := range slices.Clone(pm.allChildren) {
		c.PM().lifecycle.MoveTo(Destroyed)
	}
	pm.allChildren = nil
	pm.attached = nil

	pm.stopForeground()
	pm.cancel()
	pm.foregroundWork = nil
	pm.backHandlers = nil

	if pm.parent != nil {
		pm.parent.removeChild(pm)
	}
	pm.saver.DeleteSubtree(pm.tag)
	pm.messages.detach()
	pm.parent = nil
}

func (pm *PresentationModel) removeChild(c *PresentationModel) {
	pm.allChildren = remove(pm.allChildren, c)
	pm.attached = remove(pm.attached, c)
}

func (pm *PresentationModel) checkAlive(op string) {
	if pm.IsDestroyed() {
		fail(op, pm.tag, ErrDestroyed)
	}
}

func indexOf(nodes []Node, pm *PresentationModel) int {
	return slices.IndexFunc(nodes, func(n Node) bool { return n.PM() == pm })
}

func remove(nodes []Node, pm *PresentationModel) []Node {
	i := indexOf(nodes, pm)
	if i < 0 {
		return nodes
	}
	return slices.Delete(nodes, i, i+1)
}
