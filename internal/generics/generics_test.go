package generics

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	// Check inserting and recovery.
	s.Insert(3, 7)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.False(t, s2.Has(3))

	s3 := s.Sub(s2)
	assert.Len(t, s3, 1)
	assert.True(t, s3.Has(3))

	s.Delete(7, 11)
	assert.Len(t, s, 1)
	assert.True(t, s.Equal(s3))
	assert.False(t, s.Equal(s2))
	assert.False(t, s.Equal(SetWith(-3)))

	var nilSet Set[int]
	assert.True(t, nilSet.Equal(MakeSet[int]()))
	assert.Equal(t, 0, nilSet.Clone().Len())
}

func TestSetOperations(t *testing.T) {
	a := SetWith(1, 2, 3, 4)
	b := SetWith(3, 4, 5)
	assert.True(t, SetWith(3, 4).Equal(a.Intersect(b)))
	assert.True(t, SetWith(2, 4).Equal(a.Filter(func(v int) bool { return v%2 == 0 })))
	assert.Equal(t, []int{4, 3, 2, 1}, a.SortedFunc(func(x, y int) int { return cmp.Compare(y, x) }))

	c := a.Clone()
	c.Insert(10)
	assert.False(t, a.Has(10))

	evens := slices.Sorted(IterFilter(a.Iter(), func(v int) bool { return v%2 == 0 }))
	assert.Equal(t, []int{2, 4}, evens)
}
