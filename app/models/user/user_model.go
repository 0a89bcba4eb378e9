// Package user 存放用户 Model 相关逻辑
package user

import (
	"tagmind/app/models"
)

// User 用户模型
type User struct {
	models.BaseModel

	Email    string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string  `gorm:"type:varchar(255);not null" json:"-"`
	Nickname *string `gorm:"type:varchar(50);uniqueIndex" json:"nickname"`

	models.CommonTimestampsField
}

// TableName 表名
func (User) TableName() string {
	return "users"
}
