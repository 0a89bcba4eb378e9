package tagging

import (
	"context"
	"errors"
	"testing"

	"tagmind/app/models/analysis"
	"tagmind/app/models/diary"
	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/app/repositories"
	"tagmind/pkg/ai"
	"tagmind/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAnalyzer struct {
	result *ai.Result
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, text string) (*ai.Result, error) {
	s.calls++
	return s.result, s.err
}

func newDiary(t *testing.T, title, content string) *diary.Diary {
	t.Helper()
	d := &diary.Diary{UserID: 1, Title: title, Content: &content}
	require.NoError(t, repositories.NewDiaryRepository().Create(context.Background(), d, nil))
	return d
}

func sources(t *testing.T, diaryID uint64) map[string]tag.Source {
	t.Helper()
	links, err := repositories.NewTagRepository().ListForDiary(context.Background(), diaryID)
	require.NoError(t, err)
	out := make(map[string]tag.Source, len(links))
	for _, l := range links {
		out[l.Tag.Name] = l.Source
	}
	return out
}

func analysisCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&analysis.AnalysisResult{}).Count(&n).Error)
	return n
}

func TestMatch(t *testing.T) {
	matched := Match(DefaultRules, "회의 끝나고 운동했다. 기쁨 그리고 행복")
	names := make([]string, 0, len(matched))
	for _, r := range matched {
		names = append(names, r.Tag)
	}
	assert.Equal(t, []string{"운동", "행복", "회의"}, names)
	assert.Empty(t, Match(DefaultRules, "nothing here"))
}

func TestEnrichAppliesRulesAndSkipsMock(t *testing.T) {
	db := dbtest.Setup(t)
	d := newDiary(t, "오늘", "운동을 해서 기쁨이 넘쳤다")

	require.NoError(t, NewEnricher(ai.Mock{}, nil).Enrich(context.Background(), d.ID))

	assert.Equal(t, map[string]tag.Source{"운동": tag.SourceAIRule, "행복": tag.SourceAIRule}, sources(t, d.ID))
	assert.EqualValues(t, 0, analysisCount(t, db))
}

func TestEnrichPersistsAnalysisAndEntities(t *testing.T) {
	db := dbtest.Setup(t)
	d := newDiary(t, "서울", "친구와 서울에서 공부")
	stub := &stubAnalyzer{result: &ai.Result{
		Sentiment: ai.Sentiment{Label: "positive", Score: 0.9},
		Entities:  []ai.Entity{{Text: "서울", Type: "place"}, {Text: "친구", Type: ""}},
	}}

	require.NoError(t, NewEnricher(stub, nil).Enrich(context.Background(), d.ID))
	// 重复执行不会产生重复数据
	require.NoError(t, NewEnricher(stub, nil).Enrich(context.Background(), d.ID))

	assert.Equal(t, map[string]tag.Source{
		"공부": tag.SourceAIRule,
		"서울": tag.SourceAIModel,
		"친구": tag.SourceAIModel,
	}, sources(t, d.ID))
	assert.EqualValues(t, 1, analysisCount(t, db))

	friend, err := repositories.NewTagRepository().GetByName(context.Background(), "친구")
	require.NoError(t, err)
	assert.Equal(t, tag.DefaultCategory, friend.Category)

	result, err := repositories.NewAnalysisRepository().GetByDiaryID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.False(t, result.IsMock)
	s, ok := result.ParsedSentiment()
	require.True(t, ok)
	assert.Equal(t, "positive", s.Label)
}

func TestEnrichKeepsManualSource(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()
	seoul, err := repositories.NewTagRepository().FindOrCreate(ctx, "서울", "place")
	require.NoError(t, err)
	d := &diary.Diary{UserID: 1, Title: "서울"}
	require.NoError(t, repositories.NewDiaryRepository().Create(ctx, d, []uint64{seoul.ID}))

	stub := &stubAnalyzer{result: &ai.Result{
		Sentiment: ai.Sentiment{Label: "neutral", Score: 0.5},
		Entities:  []ai.Entity{{Text: "서울", Type: "place"}},
	}}
	require.NoError(t, NewEnricher(stub, nil).Enrich(ctx, d.ID))

	assert.Equal(t, map[string]tag.Source{"서울": tag.SourceManual}, sources(t, d.ID))
}

func TestEnrichAnalyzerFailureIsNotPropagated(t *testing.T) {
	db := dbtest.Setup(t)
	d := newDiary(t, "우울한 날", "")
	stub := &stubAnalyzer{err: errors.New("unavailable")}

	require.NoError(t, NewEnricher(stub, nil).Enrich(context.Background(), d.ID))

	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, map[string]tag.Source{"슬픔": tag.SourceAIRule}, sources(t, d.ID))
	assert.EqualValues(t, 0, analysisCount(t, db))
}

func TestEnrichMissingDiaryIsNoop(t *testing.T) {
	dbtest.Setup(t)
	stub := &stubAnalyzer{result: &ai.Result{Sentiment: ai.Sentiment{Label: "positive", Score: 1}}}

	assert.NoError(t, NewEnricher(stub, nil).Enrich(context.Background(), 404))
	assert.Equal(t, 0, stub.calls)
}

func availableNames(t *testing.T, userID uint64) []string {
	t.Helper()
	tags, err := repositories.NewTagRepository().ListAvailable(context.Background(), userID)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tg := range tags {
		names = append(names, tg.Name)
	}
	return names
}

func TestEntityTagsVisibleOnlyToAuthor(t *testing.T) {
	dbtest.Setup(t)
	d := newDiary(t, "상담", "김철수 선생님과 정신과 상담 후 운동")
	stub := &stubAnalyzer{result: &ai.Result{
		Sentiment: ai.Sentiment{Label: "negative", Score: 0.2},
		Entities:  []ai.Entity{{Text: "김철수", Type: "person"}, {Text: "정신과", Type: "place"}},
	}}

	require.NoError(t, NewEnricher(stub, nil).Enrich(context.Background(), d.ID))

	assert.ElementsMatch(t, []string{"운동", "김철수", "정신과"}, availableNames(t, 1))
	// 规则标签是基础标签，其他用户也能看到；实体标签不能
	assert.Equal(t, []string{"운동"}, availableNames(t, 2))

	workout, err := repositories.NewTagRepository().GetByName(context.Background(), "운동")
	require.NoError(t, err)
	assert.True(t, workout.IsDefault)
}

func TestReanalysisDropsStaleEntityTags(t *testing.T) {
	dbtest.Setup(t)
	d := newDiary(t, "여름", "바다에 갔다")
	stub := &stubAnalyzer{result: &ai.Result{
		Sentiment: ai.Sentiment{Label: "positive", Score: 0.8},
		Entities:  []ai.Entity{{Text: "서울", Type: "place"}, {Text: "친구", Type: "person"}},
	}}
	enricher := NewEnricher(stub, nil)
	require.NoError(t, enricher.Enrich(context.Background(), d.ID))

	friend, err := repositories.NewTagRepository().GetByName(context.Background(), "친구")
	require.NoError(t, err)
	_, err = repositories.NewTagRepository().Attach(context.Background(), d.ID, friend.ID, tag.SourceUserFeedback)
	require.NoError(t, err)

	stub.result = &ai.Result{
		Sentiment: ai.Sentiment{Label: "positive", Score: 0.7},
		Entities:  []ai.Entity{{Text: "부산", Type: "place"}},
	}
	require.NoError(t, enricher.Enrich(context.Background(), d.ID))

	// 用户确认过的标签保留
	assert.Equal(t, map[string]tag.Source{
		"부산": tag.SourceAIModel,
		"친구": tag.SourceUserFeedback,
	}, sources(t, d.ID))
}

func TestEnrichSkipsUnownedPackTags(t *testing.T) {
	dbtest.Setup(t)
	ctx := context.Background()
	require.NoError(t, repositories.NewTagPackRepository().Create(ctx, &tagpack.TagPack{
		Name: "Travel", ProductID: "pack.travel", Price: 499,
		Tags: []tag.Tag{{Name: "여행", Category: "travel"}},
	}))
	d := newDiary(t, "여행", "운동 삼아 여행")
	rules := []Rule{
		{Tag: "여행", Category: "travel", Keywords: []string{"여행"}},
		{Tag: "운동", Category: "activity", Keywords: []string{"운동"}},
	}
	stub := &stubAnalyzer{result: &ai.Result{
		Sentiment: ai.Sentiment{Label: "positive", Score: 0.6},
		Entities:  []ai.Entity{{Text: "여행", Type: "travel"}},
	}}

	require.NoError(t, NewEnricher(stub, rules).Enrich(ctx, d.ID))

	assert.Equal(t, map[string]tag.Source{"운동": tag.SourceAIRule}, sources(t, d.ID))
}
