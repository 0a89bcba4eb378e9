// Package analysis 日记的情感与实体分析结果
package analysis

import (
	"time"

	"tagmind/app/models"

	"gorm.io/datatypes"
)

// AnalysisResult 每篇日记最多一条分析结果
type AnalysisResult struct {
	models.BaseModel

	DiaryID    uint64         `gorm:"uniqueIndex;not null" json:"diary_id"`
	Sentiment  datatypes.JSON `json:"sentiment"`
	Entities   datatypes.JSON `json:"entities"`
	IsMock     bool           `gorm:"not null;default:false" json:"is_mock"`
	AnalyzedAt time.Time      `gorm:"not null" json:"analyzed_at"`

	models.CommonTimestampsField
}

// TableName 表名
func (AnalysisResult) TableName() string {
	return "analysis_results"
}
