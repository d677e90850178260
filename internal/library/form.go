package library

import (
	"strings"
	"time"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// FormMode is the state of the add/edit form.
type FormMode int

// Form modes.
const (
	FormClosed FormMode = iota
	FormAdding
	FormEditing
)

// Form holds the add/edit form. At most one item is edited at a time;
// starting a new add or edit discards whatever was pending.
type Form struct {
	Mode      FormMode
	EditingID string
	Content   string
	Category  string
}

// Open reports whether the form is shown.
func (f Form) Open() bool {
	return f.Mode != FormClosed
}

// StartAdd opens a blank form. The category follows the active filter.
func (f Form) StartAdd(filter string) Form {
	category := model.Categories[0]
	if filter != FilterAll && model.IsCategory(filter) {
		category = filter
	}
	return Form{Mode: FormAdding, Category: category}
}

// StartEdit opens the form pre-filled with item.
func (f Form) StartEdit(item model.VocabularyItem) Form {
	return Form{
		Mode:      FormEditing,
		EditingID: item.ID,
		Content:   item.Content,
		Category:  model.NormalizeCategory(item.Category),
	}
}

// Cancel closes the form without saving.
func (f Form) Cancel() Form {
	return Form{}
}

// Submit applies the form to items. Blank content is a no-op that leaves the
// form open; otherwise the form closes and changed is true.
func (f Form) Submit(items []model.VocabularyItem, now time.Time, newID IDFunc) (out []model.VocabularyItem, next Form, changed bool, err error) {
	if strings.TrimSpace(f.Content) == "" {
		return items, f, false, nil
	}
	switch f.Mode {
	case FormAdding:
		out, _, err = Add(items, f.Content, f.Category, now, newID)
	case FormEditing:
		out, err = Edit(items, f.EditingID, f.Content, f.Category)
	default:
		return items, f, false, nil
	}
	if err != nil {
		return items, f, false, err
	}
	return out, Form{}, true, nil
}

// CycleCategory moves the form category by delta within model.Categories.
func (f Form) CycleCategory(delta int) Form {
	f.Category = Cycle(model.Categories, f.Category, delta)
	return f
}

// Cycle returns the value delta steps away from current in values, wrapping around.
func Cycle(values []string, current string, delta int) string {
	if len(values) == 0 {
		return current
	}
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(values) + len(values)) % len(values)
	return values[idx]
}
