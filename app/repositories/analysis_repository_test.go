package repositories

import (
	"context"
	"testing"
	"time"

	"tagmind/app/models/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisUpsertKeepsOneRowPerDiary(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewAnalysisRepository()
	d := createDiary(t, 1, "제목", "", time.Time{})

	first, err := repo.Upsert(ctx, d.ID, analysis.Sentiment{Label: "neutral", Score: 0.5}, nil, true)
	require.NoError(t, err)
	assert.True(t, first.IsMock)
	assert.Empty(t, first.ParsedEntities())

	entities := []analysis.Entity{{Text: "서울", Type: "place"}}
	second, err := repo.Upsert(ctx, d.ID, analysis.Sentiment{Label: "positive", Score: 0.9}, entities, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsMock)

	s, ok := second.ParsedSentiment()
	require.True(t, ok)
	assert.Equal(t, "positive", s.Label)
	assert.InDelta(t, 0.9, s.Score, 1e-9)
	assert.Equal(t, entities, second.ParsedEntities())

	var count int64
	require.NoError(t, db.Model(&analysis.AnalysisResult{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAnalysisGetByDiaryIDAbsent(t *testing.T) {
	setupDB(t)

	_, err := NewAnalysisRepository().GetByDiaryID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
