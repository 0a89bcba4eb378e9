// Package order 标签包购买订单
package order

import (
	"time"

	"tagmind/app/models"

	"gorm.io/datatypes"
)

// Order 支付订单
type Order struct {
	models.BaseModel

	OrderNo       string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	UserID        uint64            `gorm:"index;not null" json:"user_id"`
	TagPackID     uint64            `gorm:"index;not null" json:"tag_pack_id"`
	ProductID     string            `gorm:"type:varchar(100);not null" json:"product_id"`
	Provider      string            `gorm:"type:varchar(20);not null" json:"provider"`
	Amount        int64             `gorm:"not null" json:"amount"`
	Status        string            `gorm:"type:varchar(20);index;not null" json:"status"`
	TransactionID string            `gorm:"type:varchar(64)" json:"transaction_id"`
	PayAt         *time.Time        `json:"pay_at"`
	ExpireAt      *time.Time        `gorm:"index" json:"expire_at"`
	ExtraData     datatypes.JSONMap `json:"extra_data"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
