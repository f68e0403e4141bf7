package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaAssignsSequentialIDs(t *testing.T) {
	a := NewArena()
	id0 := a.New(IntLit, 0, 0)
	id1 := a.New(True, 1, 1)
	assert.Equal(t, ID(0), id0)
	assert.Equal(t, ID(1), id1)
	assert.Equal(t, 2, a.Len())
}

func TestTupleHeadCarriesLength(t *testing.T) {
	a := NewArena()

	final := a.New(TupleFinal, 0, 0)
	a.Get(final).First = a.New(True, 0, 0)

	head := a.New(Tuple, 0, 0)
	n := a.Get(head)
	n.First = a.New(IntLit, 0, 0)
	a.Get(n.First).IntValue = 1
	n.Rest = final
	n.Length = 2

	assert.Equal(t, 2, a.Get(head).Length)
	assert.Equal(t, NoID, a.Get(final).Rest)
}
