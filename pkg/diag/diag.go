// Package diag is the diagnostics channel for non-fatal engine conditions.
//
// The reactive core never returns errors and never panics on recoverable
// misuse: read-only writes, binding cycles and similar conditions are
// reported here and absorbed at the call site, so a malformed row or a
// misbehaving binding never aborts a render pass. Hosts install a Handler
// to route reports into their own logging or test infrastructure; the
// default handler logs through slog.
package diag

import (
	"fmt"
	"log/slog"
)

// Code identifies a class of diagnostic with a stable short identifier.
type Code string

// Diagnostic codes reported by the engine.
const (
	// ReadOnlyWrite reports a SetRowData call on a model without a write path.
	ReadOnlyWrite Code = "L001"

	// BindingCycle reports a binding that synchronously read its own cell,
	// directly or through a chain of other bindings.
	BindingCycle Code = "L002"

	// GraphMismatch reports a cell used with a graph other than the one it
	// was first linked into. Only checked in debug mode.
	GraphMismatch Code = "L003"

	// BadWindow reports a repeater window with a negative offset or length.
	BadWindow Code = "L004"
)

// Diagnostic describes a single reported condition.
type Diagnostic struct {
	// Code classifies the condition.
	Code Code

	// Op names the operation that detected the condition, e.g. "reactive.Get".
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// String formats the diagnostic as "code op: message".
func (d Diagnostic) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", d.Code, d.Op, d.Message, d.Err)
	}
	return fmt.Sprintf("%s %s: %s", d.Code, d.Op, d.Message)
}

// Handler receives reported diagnostics.
type Handler interface {
	Handle(d Diagnostic)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(Diagnostic)

// Handle calls f(d).
func (f HandlerFunc) Handle(d Diagnostic) { f(d) }

// logHandler is the default handler. It logs diagnostics as warnings
// through the process-wide slog logger.
type logHandler struct{}

func (logHandler) Handle(d Diagnostic) {
	if d.Err != nil {
		slog.Warn("engine diagnostic",
			"code", string(d.Code), "op", d.Op, "message", d.Message, "error", d.Err)
		return
	}
	slog.Warn("engine diagnostic",
		"code", string(d.Code), "op", d.Op, "message", d.Message)
}

// handler is the installed process-wide handler. Handler installation is a
// setup-time operation; it is not synchronized against concurrent reports.
var handler Handler = logHandler{}

// SetHandler installs h as the process-wide handler and returns the
// previously installed one. Passing nil restores the default handler.
func SetHandler(h Handler) Handler {
	prev := handler
	if h == nil {
		h = logHandler{}
	}
	handler = h
	return prev
}

// Report delivers d to the installed handler.
func Report(d Diagnostic) {
	handler.Handle(d)
}

// Reportf formats a message and delivers a diagnostic without an
// underlying error.
func Reportf(code Code, op, format string, args ...any) {
	Report(Diagnostic{Code: code, Op: op, Message: fmt.Sprintf(format, args...)})
}
