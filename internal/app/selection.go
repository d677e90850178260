package app

import (
	"sort"

	"github.com/verte-zerg/cetgrade/internal/library"
	"github.com/verte-zerg/cetgrade/internal/model"
)

// Selection is the set of vocabulary rows picked in the result panel plus the
// category they will be saved under.
type Selection struct {
	indices  map[int]struct{}
	Category string
}

// NewSelection returns an empty selection. Unknown categories fall back to the
// first library category.
func NewSelection(category string) Selection {
	if !model.IsCategory(category) {
		category = model.Categories[0]
	}
	return Selection{Category: category}
}

// Toggle flips the membership of index i.
func (s Selection) Toggle(i int) Selection {
	next := make(map[int]struct{}, len(s.indices)+1)
	for k := range s.indices {
		next[k] = struct{}{}
	}
	if _, ok := next[i]; ok {
		delete(next, i)
	} else {
		next[i] = struct{}{}
	}
	s.indices = next
	return s
}

// Has reports whether index i is selected.
func (s Selection) Has(i int) bool {
	_, ok := s.indices[i]
	return ok
}

// Len returns the number of selected rows.
func (s Selection) Len() int {
	return len(s.indices)
}

// Selected returns the chosen strings of vocab in row order. Indices past
// the end of vocab are skipped.
func (s Selection) Selected(vocab []string) []string {
	idx := make([]int, 0, len(s.indices))
	for i := range s.indices {
		if i >= 0 && i < len(vocab) {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, vocab[i])
	}
	return out
}

// Clear drops every selected row and keeps the category.
func (s Selection) Clear() Selection {
	s.indices = nil
	return s
}

// CycleCategory moves the target category by delta.
func (s Selection) CycleCategory(delta int) Selection {
	s.Category = library.Cycle(model.Categories, s.Category, delta)
	return s
}
