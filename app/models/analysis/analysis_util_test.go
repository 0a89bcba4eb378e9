package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestParsedSentiment(t *testing.T) {
	result := AnalysisResult{Sentiment: datatypes.JSON(`{"label":"positive","score":0.8}`)}

	s, ok := result.ParsedSentiment()
	assert.True(t, ok)
	assert.Equal(t, "positive", s.Label)
	assert.InDelta(t, 0.8, s.Score, 1e-9)

	_, ok = (&AnalysisResult{}).ParsedSentiment()
	assert.False(t, ok)

	_, ok = (&AnalysisResult{Sentiment: datatypes.JSON(`not json`)}).ParsedSentiment()
	assert.False(t, ok)
}

func TestParsedEntities(t *testing.T) {
	result := AnalysisResult{Entities: datatypes.JSON(`[{"text":"서울","type":"place"}]`)}

	entities := result.ParsedEntities()
	if assert.Len(t, entities, 1) {
		assert.Equal(t, Entity{Text: "서울", Type: "place"}, entities[0])
	}
	assert.Empty(t, (&AnalysisResult{}).ParsedEntities())
}
