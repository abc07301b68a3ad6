// Package logfields provides canonical log field names and helpers for structured logging in cp-config.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
// These are used for structured logging with slog.
const (
	KeyStage       = "stage"
	KeyEnvironment = "environment"
	KeyComponent   = "component"
	KeyWorkingPath = "working_path"
	KeyDurationMS  = "duration_ms"
	KeyRepo        = "repository"
	KeyError       = "error"
	KeyPath        = "path"
	KeyFile        = "file"
	KeyWorker      = "worker"
	KeyMethod      = "method"
	KeyRemoteAddr  = "remote_addr"
	KeyStatus      = "status"
	KeyResponseSz  = "response_size"
	KeyKind        = "kind"
	KeyName        = "name"
	KeyURL         = "url"
	KeyCount       = "count"
)

func Stage(name string) slog.Attr         { return slog.String(KeyStage, name) }
func Environment(name string) slog.Attr   { return slog.String(KeyEnvironment, name) }
func Component(name string) slog.Attr     { return slog.String(KeyComponent, name) }
func WorkingPath(p string) slog.Attr      { return slog.String(KeyWorkingPath, p) }
func DurationMS(ms float64) slog.Attr     { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr       { return slog.String(KeyRepo, r) }
func Path(p string) slog.Attr             { return slog.String(KeyPath, p) }
func File(f string) slog.Attr             { return slog.String(KeyFile, f) }
func Worker(id string) slog.Attr          { return slog.String(KeyWorker, id) }
func Method(m string) slog.Attr           { return slog.String(KeyMethod, m) }
func RemoteAddr(a string) slog.Attr       { return slog.String(KeyRemoteAddr, a) }
func Status(code int) slog.Attr           { return slog.Int(KeyStatus, code) }
func ResponseSize(sz int) slog.Attr       { return slog.Int(KeyResponseSz, sz) }
func Kind(k string) slog.Attr             { return slog.String(KeyKind, k) }
func Name(n string) slog.Attr             { return slog.String(KeyName, n) }
func URL(u string) slog.Attr              { return slog.String(KeyURL, u) }
func Count(n int) slog.Attr               { return slog.Int(KeyCount, n) }

// Error returns a slog.Attr for an error, or an empty string if nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
