// Package inspect renders presentation model trees and saved snapshots as
// text for logs, debugging and the premo-inspect command.
package inspect

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/premo/pkg/premo"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Options configures a Printer.
type Options struct {
	// Languages are BCP 47 tags in order of preference. English is used when
	// none of them is available.
	Languages []string

	// Styles colors the output. Nil renders plain text.
	Styles *Styles
}

// Styles holds the lipgloss styles used for each part of the output.
type Styles struct {
	Header lipgloss.Style
	Tag    lipgloss.Style
	State  lipgloss.Style
	Muted  lipgloss.Style
	Key    lipgloss.Style
	Value  lipgloss.Style
}

// DefaultStyles returns the styles used by premo-inspect on a terminal.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().Bold(true),
		Tag:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		State:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Value:  lipgloss.NewStyle(),
	}
}

// Printer renders trees and snapshots in one language.
type Printer struct {
	localizer *i18n.Localizer
	styles    Styles
	styled    bool
}

// NewPrinter loads the embedded message files and picks the language.
func NewPrinter(opts Options) (*Printer, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}
	p := &Printer{localizer: i18n.NewLocalizer(bundle, opts.Languages...)}
	if opts.Styles != nil {
		p.styles, p.styled = *opts.Styles, true
	}
	return p, nil
}

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+f.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", f.Name(), err)
		}
	}
	return bundle, nil
}

// Languages lists the languages with message files.
func Languages() []language.Tag {
	bundle, err := newBundle()
	if err != nil {
		return []language.Tag{language.English}
	}
	return bundle.LanguageTags()
}

// StateLabel returns the localized name of s.
func (p *Printer) StateLabel(s premo.State) string {
	switch s {
	case premo.Created:
		return p.message("StateCreated", nil, nil)
	case premo.InForeground:
		return p.message("StateInForeground", nil, nil)
	case premo.Destroyed:
		return p.message("StateDestroyed", nil, nil)
	default:
		return p.message("StateUnknown", nil, nil)
	}
}

// Tree renders root and every tracked descendant, one node per line.
func (p *Printer) Tree(root premo.Node) string {
	var lines []string
	count := 0
	var walk func(n premo.Node, prefix string, last, top bool)
	walk = func(n premo.Node, prefix string, last, top bool) {
		count++
		pm := n.PM()

		branch, childPrefix := "", ""
		if !top {
			branch, childPrefix = "├── ", prefix+"│   "
			if last {
				branch, childPrefix = "└── ", prefix+"    "
			}
		}

		line := prefix + branch + p.paint(p.styles.Tag, pm.Description().Key()) + " " + p.paint(p.styles.State, p.StateLabel(pm.State()))
		if parent := pm.Parent(); parent != nil && !parent.IsAttached(n) {
			line += " " + p.paint(p.styles.Muted, "("+p.message("Unbound", nil, nil)+")")
		}
		lines = append(lines, line)

		children := pm.Children()
		for i, c := range children {
			walk(c, childPrefix, i == len(children)-1, false)
		}
	}
	walk(root, "", true, true)

	header := p.paint(p.styles.Header, p.message("TreeHeader", map[string]any{"Count": count}, count))
	return header + "\n" + strings.Join(lines, "\n") + "\n"
}

// Snapshot renders every saved value grouped by tag. Encoded values are
// decoded generically for display.
func (p *Printer) Snapshot(snapshot premo.Snapshot) string {
	tags := snapshot.Tags()
	values := 0
	for _, tag := range tags {
		values += len(snapshot[tag])
	}
	if values == 0 {
		return p.paint(p.styles.Header, p.message("SnapshotEmpty", nil, nil)) + "\n"
	}

	var b strings.Builder
	b.WriteString(p.paint(p.styles.Header, p.message("SnapshotHeader", map[string]any{"Values": values, "Tags": len(tags)}, values)))
	b.WriteString("\n")
	for _, tag := range tags {
		if len(snapshot[tag]) == 0 {
			continue
		}
		b.WriteString(p.paint(p.styles.Tag, tag))
		b.WriteString("\n")

		keys := make([]string, 0, len(snapshot[tag]))
		for k := range snapshot[tag] {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s = %s\n", p.paint(p.styles.Key, k), p.paint(p.styles.Value, p.formatValue(snapshot[tag][k])))
		}
	}
	return b.String()
}

func (p *Printer) formatValue(v any) string {
	if enc, ok := v.(premo.Encoded); ok {
		var generic any
		if err := enc.Decode(&generic); err != nil {
			return p.message("Undecodable", map[string]any{"Error": err.Error()}, nil)
		}
		v = generic
	}
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func (p *Printer) message(id string, data map[string]any, plural any) string {
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
		PluralCount:  plural,
	})
	if err != nil {
		return id
	}
	return msg
}

func (p *Printer) paint(st lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return st.Render(s)
}

// RenderTree renders root in English without styles.
func RenderTree(root premo.Node) string {
	p, err := NewPrinter(Options{})
	if err != nil {
		return err.Error()
	}
	return p.Tree(root)
}

// RenderSnapshot renders snapshot in English without styles.
func RenderSnapshot(snapshot premo.Snapshot) string {
	p, err := NewPrinter(Options{})
	if err != nil {
		return err.Error()
	}
	return p.Snapshot(snapshot)
}
