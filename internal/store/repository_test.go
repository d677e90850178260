package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/cetgrade/internal/model"
)

func sampleResult() *model.GradingResult {
	return &model.GradingResult{
		Score:               11,
		Comments:            "基本表达了原文意思。",
		StandardTranslation: "China's economy continues to grow.",
		Improvements: []model.ImprovementItem{
			{OriginalSnippet: "keeps growing", RevisedSnippet: "continues to grow", Explanation: "更正式"},
		},
		Vocabulary: []string{"sustained growth 持续增长"},
	}
}

func TestPersistenceSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory(), nil)

	assert.Nil(t, p.LoadSession(ctx))

	session := model.Session{SourceText: "中国的经济持续增长。", TranslationText: "China's economy keeps growing.", Result: sampleResult()}
	require.NoError(t, p.SaveSession(ctx, session))

	got := p.LoadSession(ctx)
	require.NotNil(t, got)
	assert.Equal(t, session, *got)

	require.NoError(t, p.ClearSession(ctx))
	assert.Nil(t, p.LoadSession(ctx))
}

func TestPersistenceNullSessionIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	p := NewPersistence(kv, nil)

	require.NoError(t, kv.Put(ctx, SessionKey, "null"))
	assert.Nil(t, p.LoadSession(ctx))

	require.NoError(t, kv.Put(ctx, SessionKey, "{}"))
	assert.Nil(t, p.LoadSession(ctx))
}

func TestPersistenceCorruptRecordsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	core, logs := observer.New(zap.WarnLevel)
	p := NewPersistence(kv, zap.New(core))

	require.NoError(t, kv.Put(ctx, SessionKey, "{not json"))
	require.NoError(t, kv.Put(ctx, VocabularyKey, `{"id":1}`))

	assert.Nil(t, p.LoadSession(ctx))
	items := p.LoadVocabulary(ctx)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 2, logs.FilterMessage("discarding unreadable stored record").Len())
}

func TestPersistenceVocabularyRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(NewMemory(), nil)

	assert.Empty(t, p.LoadVocabulary(ctx))

	created := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	items := []model.VocabularyItem{
		{ID: "b", Content: "a rich cultural heritage", Category: "历史文化", CreatedAt: created.Add(time.Minute)},
		{ID: "a", Content: "sustained growth", Category: "经济贸易", CreatedAt: created},
	}
	require.NoError(t, p.SaveVocabulary(ctx, items))
	assert.Equal(t, items, p.LoadVocabulary(ctx))

	require.NoError(t, p.SaveVocabulary(ctx, nil))
	got := p.LoadVocabulary(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepositoryLoadErrors(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	repo := NewRepository[model.Session](kv, SessionKey)

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Put(ctx, SessionKey, "[]"))
	_, err = repo.Load(ctx)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, SessionKey, decodeErr.Key)
}

func TestPersistenceOverSQLite(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	p := NewPersistence(st, nil)

	session := model.Session{SourceText: "原文", TranslationText: "译文"}
	require.NoError(t, p.SaveSession(ctx, session))
	got := p.LoadSession(ctx)
	require.NotNil(t, got)
	assert.Nil(t, got.Result)
	assert.Equal(t, "原文", got.SourceText)
}
