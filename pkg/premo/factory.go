package premo

import "log/slog"

// Params carries everything a constructor needs to build a presentation model.
type Params struct {
	Description Description
	Parent      *PresentationModel
	Factory     Factory
	Saver       StateSaver
	Recorder    Recorder
	Logger      *slog.Logger
}

// Factory creates presentation models from descriptions.
type Factory interface {
	Create(params Params) Node
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(params Params) Node

func (f FactoryFunc) Create(params Params) Node {
	return f(params)
}

// Constructor builds a concrete presentation model. Constructors should embed
// the result of New(params) in the node they return.
type Constructor func(params Params) Node

// Registry is a Factory that dispatches on Description.Kind.
//
// Example:
//
//	r := premo.NewRegistry().
//	    Register("main", NewMainPm).
//	    Register("counter", NewCounterPm)
type Registry struct {
	constructors map[string]Constructor
	fallback     Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor for kind. Registering a kind twice replaces the
// previous constructor.
func (r *Registry) Register(kind string, fn Constructor) *Registry {
	r.constructors[kind] = fn
	return r
}

// Fallback sets the constructor used for kinds without a registration.
func (r *Registry) Fallback(fn Constructor) *Registry {
	r.fallback = fn
	return r
}

// Kinds returns the number of registered kinds.
func (r *Registry) Kinds() int {
	return len(r.constructors)
}

// Create builds the presentation model for params.Description. An unknown kind
// without a fallback is a precondition violation.
func (r *Registry) Create(params Params) Node {
	fn, ok := r.constructors[params.Description.Kind]
	if !ok {
		fn = r.fallback
	}
	if fn == nil {
		fail("registry.create", params.Description.Kind, ErrUnknownKind)
	}
	return fn(params)
}
