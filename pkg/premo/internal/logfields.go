package internal

import "log/slog"

// Canonical log field names so every package logs the tree the same way.
const (
	KeyComponent = "component"
	KeyTag       = "tag"
	KeyState     = "state"
	KeyOp        = "op"
	KeyKey       = "key"
	KeySize      = "size"
	KeyError     = "error"
	KeyBackend   = "backend"
	KeyPath      = "path"
	KeySession   = "session"
)

func Tag(tag string) slog.Attr    { return slog.String(KeyTag, tag) }
func State(s string) slog.Attr    { return slog.String(KeyState, s) }
func Op(op string) slog.Attr      { return slog.String(KeyOp, op) }
func StateKey(k string) slog.Attr { return slog.String(KeyKey, k) }
func Size(n int) slog.Attr        { return slog.Int(KeySize, n) }
func Backend(b string) slog.Attr  { return slog.String(KeyBackend, b) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Session(s string) slog.Attr  { return slog.String(KeySession, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
