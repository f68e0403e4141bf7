// Package diagnostics accumulates and renders user-facing error reports
// for every stage of the pipeline: lexing, parsing, name resolution, type
// inference, compilation, and (rarely) runtime.
package diagnostics

import "fmt"

// Kind classifies which pipeline stage raised a diagnostic.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	NameResolution
	Type
	Compilation
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntax"
	case NameResolution:
		return "name"
	case Type:
		return "type"
	case Compilation:
		return "compile"
	case Runtime:
		return "runtime"
	default:
		return "error"
	}
}

// Diagnostic is a single report with a byte-range span into the source
// buffer. Rule names the specific check that fired (a unification rule,
// or a tag such as IntegerOverflow or UnsupportedLetRecForm) and is empty
// when there is none.
type Diagnostic struct {
	Kind    Kind
	Rule    string
	Message string
	Start   int
	End     int
}

// Sink accumulates diagnostics, in order, for a single pass over a
// source file. It never discards a report; suppression of cascades is
// the caller's responsibility (the inferencer's Error-type sentinel, the
// parser's resync mode -- see Resync below).
type Sink struct {
	reports []Diagnostic
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic.
func (s *Sink) Add(d Diagnostic) {
	s.reports = append(s.reports, d)
}

// Addf is a convenience wrapper that builds a Diagnostic from a
// kind/rule/span and a message.
func (s *Sink) Addf(kind Kind, rule string, start, end int, format string, args ...any) {
	s.Add(Diagnostic{
		Kind:    kind,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Start:   start,
		End:     end,
	})
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.reports) > 0
}

// All returns the accumulated diagnostics in report order.
func (s *Sink) All() []Diagnostic {
	return s.reports
}

// Len returns the number of accumulated diagnostics.
func (s *Sink) Len() int {
	return len(s.reports)
}
