package types

import "millie/internal/diagnostics"

// Rule names the unification context, used to format the right message
// and recorded as the Diagnostic's Rule field.
type Rule int

const (
	InvalidApply Rule = iota
	InconsistentRecursion
	IfCondition
	IfBranches
	BinaryOperator
	SelfRecursive
)

var ruleNames = map[Rule]string{
	InvalidApply:          "InvalidApply",
	InconsistentRecursion: "InconsistentRecursion",
	IfCondition:           "IfCondition",
	IfBranches:            "IfBranches",
	BinaryOperator:        "BinaryOperator",
	SelfRecursive:         "SelfRecursive",
}

func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return "Unknown"
}

// Unify makes a and b describe the same type, binding free variables as
// needed, and reports a diagnostic under rule if they cannot be
// reconciled. a and b are the ORIGINAL (unpruned) types supplied by the
// caller, so error messages can describe what the caller actually wrote
// rather than an internal pruned fragment.
func (s *Store) Unify(sink *diagnostics.Sink, start, end int, rule Rule, a, b ID) {
	s.unify(sink, start, end, rule, a, b, a, b)
}

func (s *Store) unify(sink *diagnostics.Sink, start, end int, rule Rule, a, b, origA, origB ID) {
	a = s.Prune(a)
	b = s.Prune(b)

	if s.Kind(a) == ErrorKind || s.Kind(b) == ErrorKind {
		return
	}

	if s.Kind(b) == VarKind {
		a, b = b, a
	}

	if s.Kind(a) == VarKind {
		if a == b {
			return
		}
		if s.Occurs(a, b) {
			s.report(sink, start, end, SelfRecursive, origA, origB)
			return
		}
		s.SetInstance(a, b)
		return
	}

	if s.Kind(a) != s.Kind(b) {
		s.report(sink, start, end, rule, origA, origB)
		return
	}

	switch s.Kind(a) {
	case FuncKind:
		af, at := s.FuncParts(a)
		bf, bt := s.FuncParts(b)
		s.unify(sink, start, end, rule, af, bf, origA, origB)
		s.unify(sink, start, end, rule, at, bt, origA, origB)
	case TupleKind:
		af, at := s.TupleParts(a)
		bf, bt := s.TupleParts(b)
		s.unify(sink, start, end, rule, af, bf, origA, origB)
		s.unify(sink, start, end, rule, at, bt, origA, origB)
	case TupleFinalKind:
		s.unify(sink, start, end, rule, s.TupleFinalFirst(a), s.TupleFinalFirst(b), origA, origB)
	default:
		// Int, Bool: same kind and no children, already equal.
	}
}

func (s *Store) report(sink *diagnostics.Sink, start, end int, rule Rule, a, b ID) {
	var msg string
	switch rule {
	case InvalidApply:
		msg = "cannot apply a value of type " + s.Format(a) + " as a function of type " + s.Format(b)
	case InconsistentRecursion:
		msg = "recursive definition is inconsistent with its own use: " + s.Format(a) + " vs. " + s.Format(b)
	case IfCondition:
		msg = "if condition must have type bool, found " + s.Format(a)
	case IfBranches:
		msg = "if branches have different types: " + s.Format(a) + " vs. " + s.Format(b)
	case BinaryOperator:
		msg = "no valid binary operator for " + s.Format(a) + " and " + s.Format(b)
	case SelfRecursive:
		msg = "self-recursive type: " + s.Format(a) + " occurs within " + s.Format(b)
	default:
		msg = "type mismatch between " + s.Format(a) + " and " + s.Format(b)
	}
	sink.Addf(diagnostics.Type, rule.String(), start, end, "%s", msg)
}
