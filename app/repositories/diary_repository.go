package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tagmind/app/models/analysis"
	"tagmind/app/models/diary"
	"tagmind/app/models/tag"
	"tagmind/pkg/database"

	"gorm.io/gorm"
)

// DiaryRepository 日记仓库，所有查询都按作者隔离
type DiaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository 创建仓库实例
func NewDiaryRepository() *DiaryRepository {
	return &DiaryRepository{
		db: database.DB,
	}
}

// WithTx 在给定事务中执行
func (r *DiaryRepository) WithTx(tx *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: tx}
}

// Create 创建日记并设置初始标签，二者在同一事务中
func (r *DiaryRepository) Create(ctx context.Context, d *diary.Diary, tagIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("DiaryTags", "Analysis").Create(d).Error; err != nil {
			return fmt.Errorf("create diary: %w", err)
		}
		return replaceDiaryTags(tx, d.ID, tagIDs)
	})
}

// Get 获取当前用户的日记，附带标签与分析结果
func (r *DiaryRepository) Get(ctx context.Context, userID, id uint64) (*diary.Diary, error) {
	var d diary.Diary
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&d).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// GetByID 不校验作者，后台任务使用
func (r *DiaryRepository) GetByID(ctx context.Context, id uint64) (*diary.Diary, error) {
	var d diary.Diary
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// Exists 日记是否仍然存在
func (r *DiaryRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&diary.Diary{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 分页获取用户日记，按创建时间倒序
// day 不为空时只返回 [day, day+1) 内创建的日记，day 需为所在时区的零点
func (r *DiaryRepository) List(ctx context.Context, userID uint64, page, perPage int, day *time.Time) ([]diary.Diary, int64, error) {
	var diaries []diary.Diary
	var total int64

	query := r.db.WithContext(ctx).Model(&diary.Diary{}).Where("user_id = ?", userID)
	if day != nil {
		start := day.UTC()
		end := day.AddDate(0, 0, 1).UTC()
		query = query.Where("created_at >= ? AND created_at < ?", start, end)
	}
	// 计数与分页共用同一组条件
	query = query.Session(&gorm.Session{})

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err := r.withRelations(query).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&diaries).Error

	return diaries, total, err
}

// ListSince 用户在 since 之后创建的全部日记，附带分析结果，统计使用
func (r *DiaryRepository) ListSince(ctx context.Context, userID uint64, since time.Time) ([]diary.Diary, error) {
	var diaries []diary.Diary
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("user_id = ? AND created_at >= ?", userID, since.UTC()).
		Order("created_at ASC, id ASC").
		Find(&diaries).Error
	return diaries, err
}

// Search 在标题、正文和标签名中查找关键词，忽略大小写
// 通过标签匹配的日记使用子查询，每篇日记只出现一次
func (r *DiaryRepository) Search(ctx context.Context, userID uint64, query string) ([]diary.Diary, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	tagged := r.db.Model(&tag.DiaryTag{}).
		Select("diary_tags.diary_id").
		Joins("JOIN tags ON tags.id = diary_tags.tag_id").
		Where(`LOWER(tags.name) LIKE ? ESCAPE '\'`, pattern)

	matches := r.db.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(content) LIKE ? ESCAPE '\'`, pattern).
		Or("id IN (?)", tagged)

	var diaries []diary.Diary
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Where(matches).
		Order("created_at DESC, id DESC").
		Find(&diaries).Error
	return diaries, err
}

// Update 更新日记字段，replaceTags 为 true 时在同一事务中替换标签
func (r *DiaryRepository) Update(ctx context.Context, userID, id uint64, fields map[string]interface{}, tagIDs []uint64, replaceTags bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d diary.Diary
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&d).Error; err != nil {
			return notFound(err)
		}
		if len(fields) > 0 {
			if err := tx.Model(&d).Updates(fields).Error; err != nil {
				return fmt.Errorf("update diary %d: %w", id, err)
			}
		}
		if replaceTags {
			return replaceDiaryTags(tx, id, tagIDs)
		}
		return nil
	})
}

// Delete 删除日记及其标签关联、分析结果
func (r *DiaryRepository) Delete(ctx context.Context, userID, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Limit(1).Find(&diary.Diary{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("diary_id = ?", id).Delete(&tag.DiaryTag{}).Error; err != nil {
			return fmt.Errorf("delete diary tags: %w", err)
		}
		if err := tx.Where("diary_id = ?", id).Delete(&analysis.AnalysisResult{}).Error; err != nil {
			return fmt.Errorf("delete analysis result: %w", err)
		}
		if err := tx.Delete(&diary.Diary{}, id).Error; err != nil {
			return fmt.Errorf("delete diary: %w", err)
		}
		return nil
	})
}

func (r *DiaryRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("DiaryTags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tag_id ASC")
		}).
		Preload("DiaryTags.Tag").
		Preload("Analysis")
}
