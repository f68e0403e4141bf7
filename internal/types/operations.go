package types

// Occurs reports whether a (a Var) is structurally identical to t or to
// any child reachable from t, after pruning. Used to reject infinite
// types before binding a Var's instance.
func (s *Store) Occurs(a, t ID) bool {
	t = s.Prune(t)
	if t == a {
		return true
	}
	switch s.Kind(t) {
	case FuncKind, TupleKind:
		from, to := s.nodes[t].from, s.nodes[t].to
		return s.Occurs(a, from) || s.Occurs(a, to)
	case TupleFinalKind:
		return s.Occurs(a, s.nodes[t].from)
	default:
		return false
	}
}

// IsNonGeneric reports whether t (a pruned Var) is the Occurs-target of
// any type currently in the non-generic set.
func (s *Store) IsNonGeneric(t ID, nonGeneric []ID) bool {
	for _, ng := range nonGeneric {
		if s.Occurs(t, ng) {
			return true
		}
	}
	return false
}

// Instantiate copies t, replacing every reachable GenericVar with a
// fresh Var; plain Vars and Int/Bool/Error are shared, not copied.
// Scratch links used during the copy are cleared before returning.
func (s *Store) Instantiate(t ID) ID {
	var mapped []ID
	result := s.instantiateRec(t, &mapped)
	for _, id := range mapped {
		s.setScratch(id, NoType)
	}
	return result
}

func (s *Store) instantiateRec(t ID, mapped *[]ID) ID {
	t = s.Prune(t)
	switch s.Kind(t) {
	case GenericVarKind:
		if fresh := s.getScratch(t); fresh != NoType {
			return fresh
		}
		fresh := s.NewVar()
		s.setScratch(t, fresh)
		*mapped = append(*mapped, t)
		return fresh
	case FuncKind:
		from, to := s.FuncParts(t)
		return s.NewFunc(s.instantiateRec(from, mapped), s.instantiateRec(to, mapped))
	case TupleKind:
		first, rest := s.TupleParts(t)
		return s.NewTuple(s.instantiateRec(first, mapped), s.instantiateRec(rest, mapped))
	case TupleFinalKind:
		return s.NewTupleFinal(s.instantiateRec(s.TupleFinalFirst(t), mapped))
	default:
		return t // Var, Int, Bool, Error are shared
	}
}

// Generalize copies t, replacing every free Var that is not non-generic
// in nonGeneric with a fresh GenericVar. The original tree is untouched
// and scratch links are cleared before returning.
func (s *Store) Generalize(t ID, nonGeneric []ID) ID {
	var mapped []ID
	result := s.generalizeRec(t, nonGeneric, &mapped)
	for _, id := range mapped {
		s.setScratch(id, NoType)
	}
	return result
}

func (s *Store) generalizeRec(t ID, nonGeneric []ID, mapped *[]ID) ID {
	t = s.Prune(t)
	switch s.Kind(t) {
	case VarKind:
		if s.IsNonGeneric(t, nonGeneric) {
			return t
		}
		if fresh := s.getScratch(t); fresh != NoType {
			return fresh
		}
		fresh := s.NewGenericVar()
		s.setScratch(t, fresh)
		*mapped = append(*mapped, t)
		return fresh
	case FuncKind:
		from, to := s.FuncParts(t)
		return s.NewFunc(s.generalizeRec(from, nonGeneric, mapped), s.generalizeRec(to, nonGeneric, mapped))
	case TupleKind:
		first, rest := s.TupleParts(t)
		return s.NewTuple(s.generalizeRec(first, nonGeneric, mapped), s.generalizeRec(rest, nonGeneric, mapped))
	case TupleFinalKind:
		return s.NewTupleFinal(s.generalizeRec(s.TupleFinalFirst(t), nonGeneric, mapped))
	default:
		return t
	}
}
