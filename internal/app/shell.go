package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/cetgrade/internal/assess"
	"github.com/verte-zerg/cetgrade/internal/library"
	"github.com/verte-zerg/cetgrade/internal/model"
	"github.com/verte-zerg/cetgrade/internal/store"
)

// Shell applies user actions to State and persists after every mutation.
// It is driven from a single goroutine; only the assessment call runs
// elsewhere.
type Shell struct {
	state    State
	persist  *store.Persistence
	assessor assess.Assessor
	now      func() time.Time
	newID    library.IDFunc
	log      *zap.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithClock overrides the clock used for item creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// WithIDFunc overrides item id generation.
func WithIDFunc(fn library.IDFunc) Option {
	return func(s *Shell) { s.newID = fn }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Shell) { s.log = log }
}

// NewShell loads the persisted session and library and builds the shell.
func NewShell(ctx context.Context, persist *store.Persistence, assessor assess.Assessor, opts ...Option) *Shell {
	s := &Shell{
		persist:  persist,
		assessor: assessor,
		now:      time.Now,
		newID:    library.NewID,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = Initial(persist.LoadSession(ctx), persist.LoadVocabulary(ctx))
	s.log.Debug("shell loaded",
		zap.Stringer("status", s.state.Status),
		zap.Int("library_size", len(s.state.Library)))
	return s
}

// State returns the current snapshot.
func (s *Shell) State() State {
	return s.state
}

// SetInputs replaces the two input texts.
func (s *Shell) SetInputs(source, translation string) {
	s.state = s.state.WithInputs(source, translation)
}

// ToggleLibrary flips the library visibility.
func (s *Shell) ToggleLibrary() {
	s.state = s.state.ToggleLibrary()
}

// CloseLibrary hides the library.
func (s *Shell) CloseLibrary() {
	s.state.LibraryOpen = false
}

// Grade starts the assessment of the current inputs. The returned future
// settles when the assessor returns; pass it to Finish to apply the outcome.
func (s *Shell) Grade(ctx context.Context) (*Future, error) {
	next, err := s.state.BeginGrade()
	if err != nil {
		return nil, err
	}
	s.state = next
	req := next.Graded()
	f := newFuture(next.Attempt())
	s.log.Info("grading started", zap.Int("attempt", f.attempt),
		zap.Int("source_len", len([]rune(req.SourceText))),
		zap.Int("translation_len", len([]rune(req.TranslationText))))

	assessor := s.assessor
	go func() {
		result, err := assessor.Assess(ctx, req.SourceText, req.TranslationText)
		f.resolve(result, err)
	}()
	return f, nil
}

// Finish waits for f and applies its outcome. A successful grade is
// persisted; a failed one leaves storage untouched and returns the
// assessment error.
func (s *Shell) Finish(ctx context.Context, f *Future) error {
	result, err := f.Await(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if f.Outcome() == Pending {
			return err
		}
	}
	if s.state.Status != Loading || f.attempt != s.state.Attempt() {
		s.log.Debug("discarding stale grading outcome", zap.Int("attempt", f.attempt), zap.Error(err))
		return nil
	}
	if err != nil {
		s.log.Warn("grading failed", zap.Int("attempt", f.attempt), zap.Error(err))
		s.state = s.state.FailGrade(f.attempt, assess.UserMessage)
		return err
	}

	s.state = s.state.CompleteGrade(f.attempt, result)
	s.log.Info("grading finished", zap.Int("attempt", f.attempt), zap.Int("score", result.Score))
	return s.persistSession(ctx)
}

// Reset clears the grading state and removes the persisted session.
func (s *Shell) Reset(ctx context.Context) error {
	s.state = s.state.Reset()
	if err := s.persist.ClearSession(ctx); err != nil {
		s.log.Error("failed to clear session", zap.Error(err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// SaveSelection bulk-creates the selected vocabulary of the current result
// under the selection category. An empty selection is a no-op. The returned
// selection is cleared when anything was saved.
func (s *Shell) SaveSelection(ctx context.Context, sel Selection) (Selection, int, error) {
	if sel.Len() == 0 || s.state.Result == nil {
		return sel, 0, nil
	}
	contents := sel.Selected(s.state.Result.Vocabulary)
	added, err := s.SaveVocabulary(ctx, contents, sel.Category)
	if err != nil {
		return sel, len(added), err
	}
	return sel.Clear(), len(added), nil
}

// SaveVocabulary puts one new item per content at the front of the library.
func (s *Shell) SaveVocabulary(ctx context.Context, contents []string, category string) ([]model.VocabularyItem, error) {
	if len(contents) == 0 {
		return nil, nil
	}
	items, added := library.AddMany(s.state.Library, contents, category, s.now(), s.newID)
	s.state = s.state.WithLibrary(items)
	return added, s.persistLibrary(ctx)
}

// AddItem adds a single item.
func (s *Shell) AddItem(ctx context.Context, content, category string) (model.VocabularyItem, error) {
	items, item, err := library.Add(s.state.Library, content, category, s.now(), s.newID)
	if err != nil {
		return model.VocabularyItem{}, err
	}
	s.state = s.state.WithLibrary(items)
	return item, s.persistLibrary(ctx)
}

// EditItem changes content and category of the item with id.
func (s *Shell) EditItem(ctx context.Context, id, content, category string) error {
	items, err := library.Edit(s.state.Library, id, content, category)
	if err != nil {
		return err
	}
	s.state = s.state.WithLibrary(items)
	return s.persistLibrary(ctx)
}

// DeleteItem removes the item with id. Callers confirm with the user first.
func (s *Shell) DeleteItem(ctx context.Context, id string) error {
	items, err := library.Delete(s.state.Library, id)
	if err != nil {
		return err
	}
	s.state = s.state.WithLibrary(items)
	return s.persistLibrary(ctx)
}

// SubmitForm applies an add/edit form. The returned form stays open when
// nothing changed.
func (s *Shell) SubmitForm(ctx context.Context, form library.Form) (library.Form, bool, error) {
	items, next, changed, err := form.Submit(s.state.Library, s.now(), s.newID)
	if err != nil || !changed {
		return next, false, err
	}
	s.state = s.state.WithLibrary(items)
	return next, true, s.persistLibrary(ctx)
}

// Export writes the library into dir. An empty library returns
// library.ErrEmptyLibrary without touching the file system.
func (s *Shell) Export(dir string) (string, error) {
	doc, err := library.Export(s.state.Library, s.now())
	if err != nil {
		return "", err
	}
	path, err := library.WriteDocument(dir, doc)
	if err != nil {
		s.log.Error("failed to export library", zap.String("dir", dir), zap.Error(err))
		return "", err
	}
	s.log.Info("library exported", zap.String("path", path), zap.Int("items", len(s.state.Library)))
	return path, nil
}

func (s *Shell) persistSession(ctx context.Context) error {
	if err := s.persist.SaveSession(ctx, s.state.Session()); err != nil {
		s.log.Error("failed to save session", zap.Error(err))
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Shell) persistLibrary(ctx context.Context) error {
	if err := s.persist.SaveVocabulary(ctx, s.state.Library); err != nil {
		s.log.Error("failed to save vocabulary", zap.Error(err))
		return fmt.Errorf("failed to save vocabulary: %w", err)
	}
	return nil
}
