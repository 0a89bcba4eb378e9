package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tagmind/app/models/analysis"
	"tagmind/pkg/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalysisRepository 日记分析结果
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository 创建仓库实例
func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{
		db: database.DB,
	}
}

// WithTx 在给定事务中执行
func (r *AnalysisRepository) WithTx(tx *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: tx}
}

// Upsert 写入或覆盖日记的分析结果，单条 INSERT ... ON CONFLICT (diary_id) DO UPDATE
func (r *AnalysisRepository) Upsert(ctx context.Context, diaryID uint64, sentiment analysis.Sentiment, entities []analysis.Entity, isMock bool) (*analysis.AnalysisResult, error) {
	if entities == nil {
		entities = []analysis.Entity{}
	}
	sentimentJSON, err := json.Marshal(sentiment)
	if err != nil {
		return nil, err
	}
	entitiesJSON, err := json.Marshal(entities)
	if err != nil {
		return nil, err
	}

	result := analysis.AnalysisResult{
		DiaryID:    diaryID,
		Sentiment:  datatypes.JSON(sentimentJSON),
		Entities:   datatypes.JSON(entitiesJSON),
		IsMock:     isMock,
		AnalyzedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "diary_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"sentiment", "entities", "is_mock", "analyzed_at", "updated_at"}),
	}).Create(&result).Error
	if err != nil {
		return nil, fmt.Errorf("upsert analysis of diary %d: %w", diaryID, err)
	}
	return r.GetByDiaryID(ctx, diaryID)
}

// GetByDiaryID 获取日记的分析结果
func (r *AnalysisRepository) GetByDiaryID(ctx context.Context, diaryID uint64) (*analysis.AnalysisResult, error) {
	var result analysis.AnalysisResult
	if err := r.db.WithContext(ctx).Where("diary_id = ?", diaryID).First(&result).Error; err != nil {
		return nil, notFound(err)
	}
	return &result, nil
}
