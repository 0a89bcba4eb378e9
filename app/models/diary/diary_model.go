// Package diary 日记模型
package diary

import (
	"tagmind/app/models"
	"tagmind/app/models/analysis"
	"tagmind/app/models/tag"
)

// Diary 日记
type Diary struct {
	models.BaseModel

	UserID   uint64  `gorm:"index;not null" json:"user_id"`
	Title    string  `gorm:"type:varchar(255);not null" json:"title"`
	Content  *string `gorm:"type:text" json:"content"`
	ImageURL *string `gorm:"type:varchar(1024)" json:"image_url"`

	DiaryTags []tag.DiaryTag           `gorm:"foreignKey:DiaryID" json:"tags"`
	Analysis  *analysis.AnalysisResult `gorm:"foreignKey:DiaryID" json:"analysis,omitempty"`

	models.CommonTimestampsField
}

// TableName 表名
func (Diary) TableName() string {
	return "diaries"
}
