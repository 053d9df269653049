package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/internal"
	"github.com/BrandonKowalski/premo/pkg/premo/saver"
)

// ErrNotCreated is the precondition error for callbacks that need a root.
var ErrNotCreated = errors.New("root not created")

// DelegateOptions configures a Delegate.
type DelegateOptions struct {
	Recorder premo.Recorder // Passed to the root; NoopRecorder when nil
	Logger   *slog.Logger   // Host logger; premo.GetLogger() when nil
}

// Delegate connects a host's lifecycle callbacks to a root presentation model
// of type PM.
type Delegate[PM premo.Node] struct {
	description premo.Description
	factory     premo.Factory
	backend     saver.Backend
	opts        DelegateOptions
	logger      *slog.Logger

	root     PM
	created  bool
	closeLog func()
}

// NewDelegate creates a delegate for the root described by description. The
// delegate owns backend and closes it in OnDestroy.
func NewDelegate[PM premo.Node](description premo.Description, factory premo.Factory, backend saver.Backend, opts DelegateOptions) *Delegate[PM] {
	logger := opts.Logger
	if logger == nil {
		logger = premo.GetLogger()
	}
	return &Delegate[PM]{
		description: description,
		factory:     factory,
		backend:     backend,
		opts:        opts,
		logger:      logger.With(internal.Tag(premo.RootTag)),
	}
}

// NewDelegateFromConfig applies cfg's logging settings, opens its backend and
// creates a delegate over it. The delegate closes the log file in OnDestroy.
func NewDelegateFromConfig[PM premo.Node](cfg Config, description premo.Description, factory premo.Factory, opts DelegateOptions) (*Delegate[PM], error) {
	cfg.ApplyLogging()
	backend, err := cfg.OpenBackend()
	if err != nil {
		return nil, fmt.Errorf("open state backend: %w", err)
	}
	d := NewDelegate[PM](description, factory, backend, opts)
	d.closeLog = premo.CloseLogger
	return d, nil
}

// OnCreate loads saved state and builds the root. Calling it again is a no-op.
func (d *Delegate[PM]) OnCreate(ctx context.Context) error {
	if d.created {
		return nil
	}
	if err := d.backend.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	d.root = premo.RootAs[PM](d.description, d.factory, d.backend, premo.RootOptions{
		Recorder: d.opts.Recorder,
		Logger:   d.opts.Logger,
	})
	d.created = true
	d.logger.Info("presentation model created", slog.String("kind", d.description.Kind))
	return nil
}

// PresentationModel returns the root.
func (d *Delegate[PM]) PresentationModel() PM {
	d.requireCreated("presentation_model")
	return d.root
}

// OnForeground moves the tree to IN_FOREGROUND.
func (d *Delegate[PM]) OnForeground() {
	d.requireCreated("on_foreground")
	d.root.PM().Lifecycle().MoveTo(premo.InForeground)
}

// OnBackground moves the tree back to CREATED.
func (d *Delegate[PM]) OnBackground() {
	d.requireCreated("on_background")
	d.root.PM().Lifecycle().MoveTo(premo.Created)
}

// OnSaveState collects every node's saved values and flushes the backend.
func (d *Delegate[PM]) OnSaveState(ctx context.Context) error {
	d.requireCreated("on_save_state")
	d.root.PM().SaveState()
	if err := d.backend.Flush(ctx); err != nil {
		return fmt.Errorf("flush state: %w", err)
	}
	return nil
}

// OnDestroy releases the tree. When finishing is true the user left for good:
// the tree is destroyed and its saved state removed. Otherwise the state is
// saved so the next OnCreate can restore it. The backend is closed either way.
func (d *Delegate[PM]) OnDestroy(ctx context.Context, finishing bool) error {
	if d.closeLog != nil {
		defer d.closeLog()
	}
	if !d.created {
		return d.backend.Close()
	}

	var err error
	if finishing {
		d.root.PM().Lifecycle().MoveTo(premo.Destroyed)
		if ferr := d.backend.Flush(ctx); ferr != nil {
			err = fmt.Errorf("flush state: %w", ferr)
		}
	} else {
		err = d.OnSaveState(ctx)
		d.root.PM().Lifecycle().MoveTo(premo.Destroyed)
	}

	d.created = false
	var zero PM
	d.root = zero
	d.logger.Info("presentation model destroyed", slog.Bool("finishing", finishing))

	if cerr := d.backend.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close state backend: %w", cerr)
	}
	return err
}

// HandleBack offers a back intent to the tree. False means the host should
// apply its own default, usually closing.
func (d *Delegate[PM]) HandleBack() bool {
	if !d.created {
		return false
	}
	return d.root.PM().HandleBack()
}

func (d *Delegate[PM]) requireCreated(op string) {
	if !d.created {
		panic(premo.NewPreconditionError("delegate."+op, premo.RootTag, ErrNotCreated))
	}
}
