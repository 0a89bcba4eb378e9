package analytics

import (
	"strconv"
	"testing"
	"time"

	"tagmind/app/models"
	"tagmind/app/models/analysis"
	"tagmind/app/models/diary"
	"tagmind/app/models/tag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func analysed(label string, score float64, mock bool) *analysis.AnalysisResult {
	return &analysis.AnalysisResult{
		Sentiment: datatypes.JSON(`{"label":"` + label + `","score":` + strconv.FormatFloat(score, 'f', -1, 64) + `}`),
		IsMock:    mock,
	}
}

func entry(at time.Time, a *analysis.AnalysisResult, tags ...tag.DiaryTag) diary.Diary {
	return diary.Diary{
		CommonTimestampsField: models.CommonTimestampsField{CreatedAt: at},
		Analysis:              a,
		DiaryTags:             tags,
	}
}

func TestWindowStart(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	// UTC 15:30 在首尔已是次日
	now := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, seoul), WindowStart(now, 1, seoul))
	assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, seoul), WindowStart(now, 7, seoul))
}

func TestMoodTimeline(t *testing.T) {
	now := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	diaries := []diary.Diary{
		entry(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), analysed("positive", 0.9, false)),
		entry(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), analysed("negative", 0.1, false)),
		entry(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), analysed("positive", 0.5, false)),
		entry(time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC), nil),
		entry(time.Date(2024, 5, 3, 11, 0, 0, 0, time.UTC), analysed("neutral", 0.5, true)),
	}

	timeline := MoodTimeline(diaries, 3, now, time.UTC)
	require.Len(t, timeline, 3)

	assert.Equal(t, "2024-05-01", timeline[0].Date)
	assert.Equal(t, 3, timeline[0].Count)
	assert.Equal(t, 3, timeline[0].Analysed)
	require.NotNil(t, timeline[0].AvgScore)
	assert.InDelta(t, 0.5, *timeline[0].AvgScore, 1e-9)
	assert.Equal(t, "positive", timeline[0].Dominant)

	assert.Equal(t, "2024-05-02", timeline[1].Date)
	assert.Zero(t, timeline[1].Count)
	assert.Nil(t, timeline[1].AvgScore)

	// 未分析与模拟结果只计数
	assert.Equal(t, 2, timeline[2].Count)
	assert.Zero(t, timeline[2].Analysed)
	assert.Nil(t, timeline[2].AvgScore)
	assert.Empty(t, timeline[2].Dominant)
}

func TestTagCorrelation(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	happy := tag.DiaryTag{TagID: 1, Tag: &tag.Tag{Name: "행복", Category: "emotion"}}
	workout := tag.DiaryTag{TagID: 2, Tag: &tag.Tag{Name: "운동", Category: "activity"}}

	diaries := []diary.Diary{
		entry(at, analysed("positive", 0.9, false), happy, workout),
		entry(at, analysed("positive", 0.5, false), workout),
		entry(at, nil, workout),
	}

	stats := TagCorrelation(diaries)
	require.Len(t, stats, 2)

	assert.Equal(t, "운동", stats[0].Name)
	assert.Equal(t, 3, stats[0].Usage)
	assert.Equal(t, 2, stats[0].Analysed)
	require.NotNil(t, stats[0].AvgScore)
	assert.InDelta(t, 0.7, *stats[0].AvgScore, 1e-9)

	assert.Equal(t, "행복", stats[1].Name)
	assert.Equal(t, "emotion", stats[1].Category)
	assert.Equal(t, 1, stats[1].Usage)
	assert.InDelta(t, 0.9, *stats[1].AvgScore, 1e-9)
}

func TestTagCorrelationEmpty(t *testing.T) {
	assert.Empty(t, TagCorrelation(nil))
}
