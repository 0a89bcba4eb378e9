// Package tag 标签与日记标签关联
package tag

import (
	"tagmind/app/models"
)

// Tag 标签，名称全局唯一且区分大小写
type Tag struct {
	models.BaseModel

	Name      string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Category  string  `gorm:"type:varchar(50);not null" json:"category"`
	IsDefault bool    `gorm:"not null;default:false" json:"is_default"`
	TagPackID *uint64 `gorm:"index" json:"tag_pack_id"` // 为空时是基础标签

	models.CommonTimestampsField
}

// TableName 表名
func (Tag) TableName() string {
	return "tags"
}

// DiaryTag 日记与标签的关联，每对 (diary_id, tag_id) 最多一行
type DiaryTag struct {
	DiaryID uint64 `gorm:"primaryKey;autoIncrement:false" json:"diary_id"`
	TagID   uint64 `gorm:"primaryKey;autoIncrement:false;index" json:"tag_id"`
	Source  Source `gorm:"type:varchar(20);not null" json:"source"`

	Tag *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`

	models.CommonTimestampsField
}

// TableName 表名
func (DiaryTag) TableName() string {
	return "diary_tags"
}
