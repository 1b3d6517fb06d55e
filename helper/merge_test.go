package helper

import (
	"cmp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	key   string
	owner string
}

func compareItems(x, y item) int { return cmp.Compare(x.key, y.key) }

func TestSetUnionMerge(t *testing.T) {
	a := []item{{"a1", "A"}, {"a2", "A"}}
	b := []item{{"a1", "B"}, {"b1", "B"}}

	merged := SetUnionMerge(a, b, compareItems, func(x, y item) item {
		return item{key: x.key, owner: x.owner + y.owner}
	})

	assert.Len(t, merged, 3)
	assert.Equal(t, []item{{"a1", "AB"}, {"a2", "A"}, {"b1", "B"}}, merged)
}

func TestSetUnionMergeEdges(t *testing.T) {
	keep := func(x, y item) item { return x }

	assert.Empty(t, SetUnionMerge[item](nil, nil, compareItems, keep))
	assert.Equal(t, []item{{"x", ""}}, SetUnionMerge(nil, []item{{"x", ""}}, compareItems, keep))
	assert.Equal(t, []item{{"x", ""}}, SetUnionMerge([]item{{"x", ""}}, nil, compareItems, keep))
}

func TestSetUnionMergeRejectsUnsortedInput(t *testing.T) {
	assert.PanicsWithValue(t, "SetUnionMerge: first input is not sorted at index 1", func() {
		SetUnionMerge([]string{"b", "a"}, nil, strings.Compare, func(x, y string) string { return x })
	})
}
