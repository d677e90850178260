package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// Storage keys.
const (
	SessionKey    = "cet6_grading_session"
	VocabularyKey = "cet6_vocab_library"
)

// DecodeError reports an unreadable stored record.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Repository stores one JSON-encoded record under a fixed key.
type Repository[T any] struct {
	kv  KV
	key string
}

// NewRepository binds a typed record to key.
func NewRepository[T any](kv KV, key string) *Repository[T] {
	return &Repository[T]{kv: kv, key: key}
}

// Load returns the stored record. It returns ErrNotFound when the key is
// absent and a *DecodeError when the stored value is not valid JSON for T.
func (r *Repository[T]) Load(ctx context.Context) (T, error) {
	var zero T
	raw, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return zero, err
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return zero, &DecodeError{Key: r.key, Err: err}
	}
	return v, nil
}

// Save encodes v and overwrites the stored record.
func (r *Repository[T]) Save(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.key, err)
	}
	return r.kv.Put(ctx, r.key, string(data))
}

// Clear removes the stored record.
func (r *Repository[T]) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, r.key)
}

// Persistence mirrors the session and vocabulary library to a KV store.
// Loads never fail: absent or corrupt records come back empty and are logged.
type Persistence struct {
	sessions   *Repository[model.Session]
	vocabulary *Repository[[]model.VocabularyItem]
	log        *zap.Logger
}

// NewPersistence wires both repositories to kv.
func NewPersistence(kv KV, log *zap.Logger) *Persistence {
	if log == nil {
		log = zap.NewNop()
	}
	return &Persistence{
		sessions:   NewRepository[model.Session](kv, SessionKey),
		vocabulary: NewRepository[[]model.VocabularyItem](kv, VocabularyKey),
		log:        log,
	}
}

// LoadSession returns the persisted session or nil. A stored value with no
// texts and no result, such as JSON null, counts as absent.
func (p *Persistence) LoadSession(ctx context.Context) *model.Session {
	session, err := p.sessions.Load(ctx)
	if err != nil {
		p.logLoadError(SessionKey, err)
		return nil
	}
	if session.Empty() {
		return nil
	}
	return &session
}

// SaveSession overwrites the persisted session.
func (p *Persistence) SaveSession(ctx context.Context, session model.Session) error {
	return p.sessions.Save(ctx, session)
}

// ClearSession removes the persisted session.
func (p *Persistence) ClearSession(ctx context.Context) error {
	return p.sessions.Clear(ctx)
}

// LoadVocabulary returns the persisted library, never nil.
func (p *Persistence) LoadVocabulary(ctx context.Context) []model.VocabularyItem {
	items, err := p.vocabulary.Load(ctx)
	if err != nil {
		p.logLoadError(VocabularyKey, err)
		return []model.VocabularyItem{}
	}
	if items == nil {
		return []model.VocabularyItem{}
	}
	return items
}

// SaveVocabulary overwrites the persisted library.
func (p *Persistence) SaveVocabulary(ctx context.Context, items []model.VocabularyItem) error {
	if items == nil {
		items = []model.VocabularyItem{}
	}
	return p.vocabulary.Save(ctx, items)
}

func (p *Persistence) logLoadError(key string, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		p.log.Warn("discarding unreadable stored record", zap.String("key", key), zap.Error(err))
		return
	}
	p.log.Error("failed to load stored record", zap.String("key", key), zap.Error(err))
}
