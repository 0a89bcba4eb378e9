package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tagmind/app/models/tagpack"
	"tagmind/pkg/database"

	"gorm.io/gorm"
)

// TagPackRepository 标签包目录与购买记录
type TagPackRepository struct {
	db *gorm.DB
}

// NewTagPackRepository 创建仓库实例
func NewTagPackRepository() *TagPackRepository {
	return &TagPackRepository{
		db: database.DB,
	}
}

// WithTx 在给定事务中执行
func (r *TagPackRepository) WithTx(tx *gorm.DB) *TagPackRepository {
	return &TagPackRepository{db: tx}
}

// Create 新增标签包
func (r *TagPackRepository) Create(ctx context.Context, pack *tagpack.TagPack) error {
	return r.db.WithContext(ctx).Create(pack).Error
}

// All 全部标签包，附带包内标签
func (r *TagPackRepository) All(ctx context.Context) ([]tagpack.TagPack, error) {
	var packs []tagpack.TagPack
	err := r.db.WithContext(ctx).Preload("Tags").Order("id ASC").Find(&packs).Error
	return packs, err
}

// GetByProductID 根据商品 ID 获取标签包
func (r *TagPackRepository) GetByProductID(ctx context.Context, productID string) (*tagpack.TagPack, error) {
	var pack tagpack.TagPack
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&pack).Error; err != nil {
		return nil, notFound(err)
	}
	return &pack, nil
}

// IsOwned 用户是否已拥有标签包
func (r *TagPackRepository) IsOwned(ctx context.Context, userID, tagPackID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&tagpack.UserTagPack{}).
		Where("user_id = ? AND tag_pack_id = ?", userID, tagPackID).
		Count(&count).Error
	return count > 0, err
}

// OwnedIDs 用户已拥有的标签包 ID 集合
func (r *TagPackRepository) OwnedIDs(ctx context.Context, userID uint64) (map[uint64]bool, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&tagpack.UserTagPack{}).
		Where("user_id = ?", userID).
		Pluck("tag_pack_id", &ids).Error
	if err != nil {
		return nil, err
	}
	owned := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Owned 用户的购买记录，按购买时间倒序
func (r *TagPackRepository) Owned(ctx context.Context, userID uint64) ([]tagpack.UserTagPack, error) {
	var records []tagpack.UserTagPack
	err := r.db.WithContext(ctx).
		Preload("TagPack").
		Preload("TagPack.Tags").
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&records).Error
	return records, err
}

// Purchase 按商品 ID 购买标签包
// 商品不存在返回 ErrNotFound，已拥有返回 ErrAlreadyOwned
func (r *TagPackRepository) Purchase(ctx context.Context, userID uint64, productID string) (*tagpack.UserTagPack, error) {
	pack, err := r.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return r.Grant(ctx, userID, pack)
}

// Grant 写入购买记录
// 复合主键是唯一的并发保护，并发请求的主键冲突同样视为 ErrAlreadyOwned
func (r *TagPackRepository) Grant(ctx context.Context, userID uint64, pack *tagpack.TagPack) (*tagpack.UserTagPack, error) {
	owned, err := r.IsOwned(ctx, userID, pack.ID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrAlreadyOwned
	}

	record := tagpack.UserTagPack{
		UserID:      userID,
		TagPackID:   pack.ID,
		PurchasedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Omit("TagPack").Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyOwned
		}
		return nil, fmt.Errorf("grant tag pack %d to user %d: %w", pack.ID, userID, err)
	}
	record.TagPack = pack
	return &record, nil
}
