package types

import "strings"

// Format renders the pruned type tree reachable from t. Generic
// variables are named 'A, 'B, ... in first-occurrence order; the naming
// state is local to one Format call so repeated calls start over.
func (s *Store) Format(t ID) string {
	names := map[ID]string{}
	return s.format(t, names)
}

func (s *Store) format(t ID, names map[ID]string) string {
	t = s.Prune(t)
	switch s.Kind(t) {
	case IntKind:
		return "int"
	case BoolKind:
		return "bool"
	case ErrorKind:
		return "<error>"
	case VarKind:
		return s.nameFor(t, names)
	case GenericVarKind:
		return s.nameFor(t, names)
	case FuncKind:
		from, to := s.FuncParts(t)
		return "( " + s.format(from, names) + " -> " + s.format(to, names) + " )"
	case TupleKind, TupleFinalKind:
		var parts []string
		s.collectTupleParts(t, names, &parts)
		return "( " + strings.Join(parts, " * ") + " )"
	default:
		return "?"
	}
}

func (s *Store) collectTupleParts(t ID, names map[ID]string, out *[]string) {
	t = s.Prune(t)
	switch s.Kind(t) {
	case TupleKind:
		first, rest := s.TupleParts(t)
		*out = append(*out, s.format(first, names))
		s.collectTupleParts(rest, names, out)
	case TupleFinalKind:
		*out = append(*out, s.format(s.TupleFinalFirst(t), names))
	default:
		*out = append(*out, s.format(t, names))
	}
}

func (s *Store) nameFor(t ID, names map[ID]string) string {
	if n, ok := names[t]; ok {
		return n
	}
	n := nthVarName(len(names))
	names[t] = n
	return n
}

func nthVarName(n int) string {
	letter := byte('A' + n%26)
	suffix := n / 26
	if suffix == 0 {
		return "'" + string(letter)
	}
	return "'" + string(letter) + itoa(suffix)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
