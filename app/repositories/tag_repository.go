package repositories

import (
	"context"
	"errors"
	"fmt"

	"tagmind/app/models/diary"
	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository 标签与日记标签关联
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建仓库实例
func NewTagRepository() *TagRepository {
	return &TagRepository{
		db: database.DB,
	}
}

// WithTx 在给定事务中执行
func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{db: tx}
}

// GetByID 根据 ID 获取标签
func (r *TagRepository) GetByID(ctx context.Context, id uint64) (*tag.Tag, error) {
	var t tag.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// GetByName 按名称精确查找，区分大小写
func (r *TagRepository) GetByName(ctx context.Context, name string) (*tag.Tag, error) {
	var t tag.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// FindOrCreate 按名称查找标签，不存在则创建
// 并发创建同名标签时依赖唯一索引，冲突方重新读取同一行
func (r *TagRepository) FindOrCreate(ctx context.Context, name, category string) (*tag.Tag, error) {
	return r.findOrCreate(ctx, tag.Tag{Name: name, Category: category})
}

// FindOrCreateDefault 查找或创建基础标签，所有用户可见
// 已存在且不属于标签包的同名标签会被提升为基础标签
func (r *TagRepository) FindOrCreateDefault(ctx context.Context, name, category string) (*tag.Tag, error) {
	t, err := r.findOrCreate(ctx, tag.Tag{Name: name, Category: category, IsDefault: true})
	if err != nil {
		return nil, err
	}
	if t.IsDefault || t.TagPackID != nil {
		return t, nil
	}
	if err := r.db.WithContext(ctx).Model(t).Update("is_default", true).Error; err != nil {
		return nil, fmt.Errorf("mark tag %q default: %w", name, err)
	}
	t.IsDefault = true
	return t, nil
}

func (r *TagRepository) findOrCreate(ctx context.Context, t tag.Tag) (*tag.Tag, error) {
	if existing, err := r.GetByName(ctx, t.Name); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if t.Category == "" {
		t.Category = tag.DefaultCategory
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&t).Error
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", t.Name, err)
	}
	return r.GetByName(ctx, t.Name)
}

// ListAvailable 用户可见的标签：基础标签、已购标签包中的标签、自己日记上已关联的标签
// AI 从日记中提取的实体标签只对该日记的作者可见
func (r *TagRepository) ListAvailable(ctx context.Context, userID uint64) ([]tag.Tag, error) {
	owned := r.db.Model(&tagpack.UserTagPack{}).Select("tag_pack_id").Where("user_id = ?", userID)
	attached := r.db.Model(&tag.DiaryTag{}).
		Select("diary_tags.tag_id").
		Joins("JOIN diaries ON diaries.id = diary_tags.diary_id").
		Where("diaries.user_id = ?", userID)

	var tags []tag.Tag
	err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Or("tag_pack_id IN (?)", owned).
		Or("id IN (?)", attached).
		Order("category ASC, name ASC").
		Find(&tags).Error
	return tags, err
}

// Usable 校验 ids 中的标签都可被该用户使用：不属于标签包，或属于已购买的标签包
// 任意一个不可用时返回 ErrNotFound，与标签不存在的响应一致
func (r *TagRepository) Usable(ctx context.Context, userID uint64, ids []uint64) error {
	return checkUsable(r.db.WithContext(ctx), userID, uniqueIDs(ids))
}

// usableTags 限定为 owner 可用的标签，owner 为用户 ID 或返回用户 ID 的子查询
func usableTags(db *gorm.DB, owner interface{}) *gorm.DB {
	owned := db.Model(&tagpack.UserTagPack{}).Select("tag_pack_id").Where("user_id IN (?)", owner)
	return db.Model(&tag.Tag{}).Where("(tag_pack_id IS NULL OR tag_pack_id IN (?))", owned)
}

// diaryOwner 日记作者的子查询
func diaryOwner(db *gorm.DB, diaryID uint64) *gorm.DB {
	return db.Model(&diary.Diary{}).Select("user_id").Where("id = ?", diaryID)
}

func checkUsable(db *gorm.DB, owner interface{}, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := usableTags(db, owner).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return fmt.Errorf("tags %v: %w", ids, ErrNotFound)
	}
	return nil
}

// Attach 关联标签，重复调用不会产生多行
// 已存在时只在新来源优先级更高时覆盖 source
// 标签不存在或属于日记作者未购买的标签包时返回 ErrNotFound
func (r *TagRepository) Attach(ctx context.Context, diaryID, tagID uint64, source tag.Source) (*tag.DiaryTag, error) {
	var result tag.DiaryTag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUsable(tx, diaryOwner(tx, diaryID), []uint64{tagID}); err != nil {
			return err
		}
		row := tag.DiaryTag{DiaryID: diaryID, TagID: tagID, Source: source}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("diary_id = ? AND tag_id = ?", diaryID, tagID).First(&result).Error; err != nil {
			return err
		}
		if !source.Outranks(result.Source) {
			return nil
		}
		result.Source = source
		return tx.Model(&tag.DiaryTag{}).
			Where("diary_id = ? AND tag_id = ?", diaryID, tagID).
			Update("source", source).Error
	})
	if err != nil {
		return nil, fmt.Errorf("attach tag %d to diary %d: %w", tagID, diaryID, err)
	}
	return &result, nil
}

// Detach 移除关联，不存在时不报错
func (r *TagRepository) Detach(ctx context.Context, diaryID, tagID uint64) error {
	return r.db.WithContext(ctx).
		Where("diary_id = ? AND tag_id = ?", diaryID, tagID).
		Delete(&tag.DiaryTag{}).Error
}

// DetachSourceExcept 移除某一来源中不在 keep 里的关联，其他来源的关联不受影响
func (r *TagRepository) DetachSourceExcept(ctx context.Context, diaryID uint64, source tag.Source, keep []uint64) error {
	query := r.db.WithContext(ctx).Where("diary_id = ? AND source = ?", diaryID, source)
	if len(keep) > 0 {
		query = query.Where("tag_id NOT IN ?", keep)
	}
	if err := query.Delete(&tag.DiaryTag{}).Error; err != nil {
		return fmt.Errorf("prune %s tags of diary %d: %w", source, diaryID, err)
	}
	return nil
}

// ReplaceAll 在一个事务中用 tagIDs 替换日记的全部标签，来源记为 manual
// 空列表即清空；任意 ID 不存在或不可用时整体回滚并返回 ErrNotFound
func (r *TagRepository) ReplaceAll(ctx context.Context, diaryID uint64, tagIDs []uint64) ([]tag.DiaryTag, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDiaryTags(tx, diaryID, tagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.ListForDiary(ctx, diaryID)
}

// ListForDiary 日记的标签关联，附带标签信息
func (r *TagRepository) ListForDiary(ctx context.Context, diaryID uint64) ([]tag.DiaryTag, error) {
	var rows []tag.DiaryTag
	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("diary_id = ?", diaryID).
		Order("tag_id ASC").
		Find(&rows).Error
	return rows, err
}

// replaceDiaryTags 供 ReplaceAll 与日记的创建、更新在同一事务中复用
func replaceDiaryTags(tx *gorm.DB, diaryID uint64, tagIDs []uint64) error {
	ids := uniqueIDs(tagIDs)

	// 日记需先写入，才能通过作者判断标签包归属
	if err := checkUsable(tx, diaryOwner(tx, diaryID), ids); err != nil {
		return err
	}

	if err := tx.Where("diary_id = ?", diaryID).Delete(&tag.DiaryTag{}).Error; err != nil {
		return fmt.Errorf("clear tags of diary %d: %w", diaryID, err)
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]tag.DiaryTag, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, tag.DiaryTag{DiaryID: diaryID, TagID: id, Source: tag.SourceManual})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("attach tags to diary %d: %w", diaryID, err)
	}
	return nil
}
