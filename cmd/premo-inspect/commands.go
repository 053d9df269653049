package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/host"
	"github.com/BrandonKowalski/premo/pkg/premo/inspect"
	"github.com/BrandonKowalski/premo/pkg/premo/saver"
)

const version = "0.1.0"

// Global carries values shared by every command.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path; defaults to $PREMO_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Lang    []string         `short:"l" help:"Preferred output languages" env:"PREMO_LANG"`
	Color   bool             `help:"Color the output"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	File          FileCmd          `cmd:"" help:"Print a snapshot stored in a state file"`
	Session       SessionCmd       `cmd:"" help:"Print a session stored in a SQLite database"`
	Sessions      SessionsCmd      `cmd:"" help:"List the sessions stored in a SQLite database"`
	DeleteSession DeleteSessionCmd `cmd:"" help:"Remove a session from a SQLite database"`
	Languages     LanguagesCmd     `cmd:"" help:"List the available output languages"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	if c.Verbose {
		premo.SetRawLogLevel("debug")
	} else {
		premo.SetRawLogLevel("warn")
	}
	premo.SetDebug(c.Verbose)
	return nil
}

// loadConfig reads the host configuration and applies its [log] section.
// --verbose wins over the file.
func (c *CLI) loadConfig() (host.Config, error) {
	cfg, err := host.LoadConfig(c.Config)
	if err != nil {
		return host.Config{}, fmt.Errorf("load config: %w", err)
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Debug = true
	}
	cfg.ApplyLogging()
	return cfg, nil
}

func (c *CLI) printer() (*inspect.Printer, error) {
	opts := inspect.Options{Languages: c.Lang}
	if c.Color {
		opts.Styles = inspect.DefaultStyles()
	}
	return inspect.NewPrinter(opts)
}

// FileCmd implements the 'file' command.
type FileCmd struct {
	Path  string `arg:"" optional:"" help:"State file; defaults to the configured state path" type:"path"`
	Codec string `help:"Codec of the file (json|yaml|toml); defaults to the configured codec"`
}

func (f *FileCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	path := f.Path
	if path == "" {
		cfg.State.Backend = host.BackendFile
		if path, err = cfg.StatePath(); err != nil {
			return err
		}
	}
	name := f.Codec
	if name == "" {
		name = cfg.State.Codec
	}
	codec, err := saver.CodecFor(name)
	if err != nil {
		return err
	}

	s := saver.NewFileStateSaver(path, codec)
	defer s.Close()
	if err := s.Load(context.Background()); err != nil {
		return err
	}
	return printSnapshot(g.Out, root, s.Snapshot())
}

// StateDBFlags are shared by the commands that read a state database.
type StateDBFlags struct {
	DB string `help:"SQLite database; defaults to the configured state path" type:"path"`
}

func (f StateDBFlags) open(root *CLI, session string) (*saver.SQLiteStateSaver, error) {
	cfg, err := root.loadConfig()
	if err != nil {
		return nil, err
	}
	path := f.DB
	if path == "" {
		cfg.State.Backend = host.BackendSQLite
		if path, err = cfg.StatePath(); err != nil {
			return nil, err
		}
	}
	if session == "" {
		session = cfg.State.Session
	}
	codec, err := saver.CodecFor(cfg.State.Codec)
	if err != nil {
		return nil, err
	}
	return saver.NewSQLiteStateSaver(path, saver.SQLiteOptions{Session: session, Codec: codec})
}

// SessionCmd implements the 'session' command.
type SessionCmd struct {
	StateDB StateDBFlags `embed:""`
	Name    string       `arg:"" optional:"" help:"Session to print; defaults to the configured session"`
}

func (s *SessionCmd) Run(g *Global, root *CLI) error {
	db, err := s.StateDB.open(root, s.Name)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Load(context.Background()); err != nil {
		return err
	}
	return printSnapshot(g.Out, root, db.Snapshot())
}

// SessionsCmd implements the 'sessions' command.
type SessionsCmd struct {
	StateDB StateDBFlags `embed:""`
}

func (s *SessionsCmd) Run(g *Global, root *CLI) error {
	db, err := s.StateDB.open(root, "")
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.Sessions(context.Background())
	if err != nil {
		return err
	}
	for _, info := range sessions {
		fmt.Fprintf(g.Out, "%s\t%d\t%s\n", info.Session, info.Values, info.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// DeleteSessionCmd implements the 'delete-session' command.
type DeleteSessionCmd struct {
	StateDB StateDBFlags `embed:""`
	Name    string       `arg:"" help:"Session to remove"`
}

func (d *DeleteSessionCmd) Run(g *Global, root *CLI) error {
	db, err := d.StateDB.open(root, d.Name)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.DeleteSession(context.Background(), d.Name)
}

// LanguagesCmd implements the 'languages' command.
type LanguagesCmd struct{}

func (LanguagesCmd) Run(g *Global) error {
	for _, tag := range inspect.Languages() {
		fmt.Fprintln(g.Out, tag.String())
	}
	return nil
}

func printSnapshot(w io.Writer, root *CLI, snapshot premo.Snapshot) error {
	p, err := root.printer()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, p.Snapshot(snapshot))
	return err
}
