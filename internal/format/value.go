// Package format renders a VM result value for display, driven entirely
// by its statically inferred type -- the runtime Word itself carries no
// tag, so the type tree tells the formatter how many tuple slots to
// walk and whether a Word is an Int, a Bool, or an (unprintable)
// function.
package format

import (
	"strconv"
	"strings"

	"millie/internal/types"
	"millie/internal/vm"
)

// Value renders the result of evaluating an expression of type t.
func Value(store *types.Store, t types.ID, m *vm.Machine, w vm.Word) string {
	t = store.Prune(t)
	switch store.Kind(t) {
	case types.IntKind:
		return strconv.FormatInt(int64(w), 10)
	case types.BoolKind:
		if w != 0 {
			return "true"
		}
		return "false"
	case types.FuncKind:
		return "A FUNCTION"
	case types.TupleKind, types.TupleFinalKind:
		var elemTypes []types.ID
		collectTupleTypes(store, t, &elemTypes)
		parts := make([]string, len(elemTypes))
		for i, et := range elemTypes {
			parts[i] = Value(store, et, m, m.TupleElem(w, i))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "<error>"
	}
}

func collectTupleTypes(store *types.Store, t types.ID, out *[]types.ID) {
	t = store.Prune(t)
	switch store.Kind(t) {
	case types.TupleKind:
		first, rest := store.TupleParts(t)
		*out = append(*out, first)
		collectTupleTypes(store, rest, out)
	case types.TupleFinalKind:
		*out = append(*out, store.TupleFinalFirst(t))
	default:
		*out = append(*out, t)
	}
}
