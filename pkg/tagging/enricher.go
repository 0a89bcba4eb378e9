package tagging

import (
	"context"
	"fmt"
	"strings"

	"tagmind/app/models/analysis"
	"tagmind/app/models/tag"
	"tagmind/app/repositories"
	"tagmind/pkg/ai"
	"tagmind/pkg/database"
	"tagmind/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Enricher 对日记执行规则打标签与 AI 分析
type Enricher struct {
	analyzer ai.Analyzer
	rules    []Rule
}

// NewEnricher 创建 Enricher，rules 为空时使用 DefaultRules
func NewEnricher(analyzer ai.Analyzer, rules []Rule) *Enricher {
	if analyzer == nil {
		analyzer = ai.Mock{}
	}
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Enricher{analyzer: analyzer, rules: rules}
}

// Enrich 处理单篇日记
// 日记已被删除时直接返回；AI 分析失败或返回 mock 时只保留规则标签
func (e *Enricher) Enrich(ctx context.Context, diaryID uint64) error {
	d, err := repositories.NewDiaryRepository().GetByID(ctx, diaryID)
	if err != nil {
		if repositories.IsNotFound(err) {
			logger.DebugString("Enricher", "Skip", fmt.Sprintf("日记 %d 已不存在", diaryID))
			return nil
		}
		return err
	}
	text := d.Text()

	if err := e.applyRules(ctx, diaryID, text); err != nil {
		return err
	}

	result, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		logger.Warn("Enricher", zap.Uint64("diary_id", diaryID), zap.String("analyze", err.Error()))
		return nil
	}
	if result == nil || result.Mock {
		logger.DebugString("Enricher", "Skip", fmt.Sprintf("日记 %d 的分析结果为 mock，不入库", diaryID))
		return nil
	}

	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 事务内再次确认，避免为并发删除的日记写入分析结果
		exists, err := repositories.NewDiaryRepository().WithTx(tx).Exists(ctx, diaryID)
		if err != nil || !exists {
			return err
		}
		return e.saveAnalysis(ctx, tx, diaryID, result)
	})
}

// applyRules 规则命中的标签以 ai_rule 来源关联
func (e *Enricher) applyRules(ctx context.Context, diaryID uint64, text string) error {
	matched := Match(e.rules, text)
	if len(matched) == 0 {
		return nil
	}

	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := repositories.NewDiaryRepository().WithTx(tx).Exists(ctx, diaryID)
		if err != nil || !exists {
			return err
		}
		tags := repositories.NewTagRepository().WithTx(tx)
		for _, rule := range matched {
			t, err := tags.FindOrCreateDefault(ctx, rule.Tag, rule.Category)
			if err != nil {
				return fmt.Errorf("rule tag %s: %w", rule.Tag, err)
			}
			if _, err := tags.Attach(ctx, diaryID, t.ID, tag.SourceAIRule); err != nil {
				if repositories.IsNotFound(err) {
					skipLocked(diaryID, rule.Tag)
					continue
				}
				return fmt.Errorf("attach rule tag %s: %w", rule.Tag, err)
			}
		}
		return nil
	})
}

// saveAnalysis 写入分析结果，实体以 ai_model 来源关联为标签
// 上一次分析留下、本次不再出现的 ai_model 标签会被移除
func (e *Enricher) saveAnalysis(ctx context.Context, tx *gorm.DB, diaryID uint64, result *ai.Result) error {
	entities := make([]analysis.Entity, 0, len(result.Entities))
	for _, ent := range result.Entities {
		entities = append(entities, analysis.Entity{Text: ent.Text, Type: ent.Type})
	}
	sentiment := analysis.Sentiment{Label: result.Sentiment.Label, Score: result.Sentiment.Score}

	if _, err := repositories.NewAnalysisRepository().WithTx(tx).Upsert(ctx, diaryID, sentiment, entities, false); err != nil {
		return err
	}

	tags := repositories.NewTagRepository().WithTx(tx)
	keep := make([]uint64, 0, len(entities))
	for _, ent := range entities {
		name := strings.TrimSpace(ent.Text)
		if name == "" {
			continue
		}
		category := strings.TrimSpace(ent.Type)
		if category == "" {
			category = tag.DefaultCategory
		}
		t, err := tags.FindOrCreate(ctx, name, category)
		if err != nil {
			return fmt.Errorf("entity tag %s: %w", name, err)
		}
		if _, err := tags.Attach(ctx, diaryID, t.ID, tag.SourceAIModel); err != nil {
			if repositories.IsNotFound(err) {
				skipLocked(diaryID, name)
				continue
			}
			return fmt.Errorf("attach entity tag %s: %w", name, err)
		}
		keep = append(keep, t.ID)
	}
	return tags.DetachSourceExcept(ctx, diaryID, tag.SourceAIModel, keep)
}

// skipLocked 同名标签属于作者未购买的标签包，不自动关联
func skipLocked(diaryID uint64, name string) {
	logger.Debug("Enricher", zap.Uint64("diary_id", diaryID), zap.String("skip_locked_tag", name))
}
