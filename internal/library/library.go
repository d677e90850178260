// Package library implements the vocabulary library operations. Every
// function returns a new slice and leaves its input untouched.
package library

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// FilterAll selects every category.
const FilterAll = "全部"

var (
	// ErrBlankContent is returned when an item would have no content.
	ErrBlankContent = errors.New("library: content is blank")
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("library: item not found")
	// ErrEmptyLibrary is returned when exporting an empty library.
	ErrEmptyLibrary = errors.New("library: nothing to export")
)

// IDFunc generates item ids.
type IDFunc func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// AddMany puts one new item per content string at the front of items, in the
// given order, all sharing category and creation time. It returns the updated
// collection and the created items.
func AddMany(items []model.VocabularyItem, contents []string, category string, now time.Time, newID IDFunc) ([]model.VocabularyItem, []model.VocabularyItem) {
	category = model.NormalizeCategory(category)
	added := make([]model.VocabularyItem, 0, len(contents))
	for _, content := range contents {
		added = append(added, model.VocabularyItem{
			ID:        newID(),
			Content:   content,
			Category:  category,
			CreatedAt: now,
		})
	}
	out := make([]model.VocabularyItem, 0, len(added)+len(items))
	out = append(out, added...)
	out = append(out, items...)
	return out, added
}

// Add puts a single trimmed item at the front of items.
func Add(items []model.VocabularyItem, content, category string, now time.Time, newID IDFunc) ([]model.VocabularyItem, model.VocabularyItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return items, model.VocabularyItem{}, ErrBlankContent
	}
	out, added := AddMany(items, []string{content}, category, now, newID)
	return out, added[0], nil
}

// Edit replaces content and category of the item with id. The id and
// creation time are kept.
func Edit(items []model.VocabularyItem, id, content, category string) ([]model.VocabularyItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return items, ErrBlankContent
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return items, ErrNotFound
	}
	out := make([]model.VocabularyItem, len(items))
	copy(out, items)
	out[idx].Content = content
	out[idx].Category = model.NormalizeCategory(category)
	return out, nil
}

// Delete removes the item with id.
func Delete(items []model.VocabularyItem, id string) ([]model.VocabularyItem, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, ErrNotFound
	}
	out := make([]model.VocabularyItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out, nil
}

// Find returns the item with id.
func Find(items []model.VocabularyItem, id string) (model.VocabularyItem, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return model.VocabularyItem{}, false
	}
	return items[idx], true
}

// Filter returns the items of category (or all items for FilterAll), newest
// first. Items created at the same instant keep their collection order.
func Filter(items []model.VocabularyItem, category string) []model.VocabularyItem {
	out := make([]model.VocabularyItem, 0, len(items))
	for _, item := range items {
		if category == FilterAll || item.Category == category {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of items in category, or all items for FilterAll.
func Count(items []model.VocabularyItem, category string) int {
	if category == FilterAll {
		return len(items)
	}
	n := 0
	for _, item := range items {
		if item.Category == category {
			n++
		}
	}
	return n
}

// Filters lists FilterAll followed by every category.
func Filters() []string {
	return append([]string{FilterAll}, model.Categories...)
}

func indexOf(items []model.VocabularyItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
