package analysis

import (
	"encoding/json"
)

// Sentiment 情感倾向
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Entity 文本中识别出的实体
type Entity struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// ParsedSentiment 解析 sentiment 字段，内容无效时返回 false
func (a *AnalysisResult) ParsedSentiment() (Sentiment, bool) {
	var s Sentiment
	if len(a.Sentiment) == 0 {
		return s, false
	}
	if err := json.Unmarshal(a.Sentiment, &s); err != nil {
		return s, false
	}
	return s, true
}

// ParsedEntities 解析 entities 字段
func (a *AnalysisResult) ParsedEntities() []Entity {
	var entities []Entity
	if len(a.Entities) == 0 {
		return entities
	}
	_ = json.Unmarshal(a.Entities, &entities)
	return entities
}
