// Package tagpack 可购买的标签包
package tagpack

import (
	"time"

	"tagmind/app/models"
	"tagmind/app/models/tag"
)

// TagPack 标签包，按 product_id 对应商店商品
type TagPack struct {
	models.BaseModel

	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
	Price       int     `gorm:"not null" json:"price"` // 最小货币单位
	ProductID   string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"product_id"`

	Tags []tag.Tag `gorm:"foreignKey:TagPackID" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;" json:"created_at,omitempty"`
}

// TableName 表名
func (TagPack) TableName() string {
	return "tag_packs"
}

// UserTagPack 用户已购买的标签包，复合主键保证同一用户只拥有一次
type UserTagPack struct {
	UserID      uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TagPackID   uint64    `gorm:"primaryKey;autoIncrement:false;index" json:"tag_pack_id"`
	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`

	TagPack *TagPack `gorm:"foreignKey:TagPackID" json:"tag_pack,omitempty"`
}

// TableName 表名
func (UserTagPack) TableName() string {
	return "user_tag_packs"
}
