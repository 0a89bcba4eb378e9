// Package seed 初始化基础标签与示例标签包
package seed

import (
	"context"
	"errors"

	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/app/repositories"
	"tagmind/pkg/logger"
	"tagmind/pkg/tagging"

	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

// Packs 示例标签包，价格单位为分
var Packs = []tagpack.TagPack{
	{
		Name:        "여행 패키지",
		Description: strPtr("여행과 맛집 기록용 태그"),
		Price:       499,
		ProductID:   "tagmind.pack.travel",
		Tags: []tag.Tag{
			{Name: "여행", Category: "travel"},
			{Name: "맛집", Category: "travel"},
			{Name: "카페", Category: "travel"},
		},
	},
	{
		Name:        "취미 패키지",
		Description: strPtr("독서와 영화 감상 태그"),
		Price:       299,
		ProductID:   "tagmind.pack.hobby",
		Tags: []tag.Tag{
			{Name: "독서", Category: "hobby"},
			{Name: "영화", Category: "hobby"},
		},
	},
}

// Run 写入基础标签与示例标签包，重复执行不会产生重复数据
func Run(ctx context.Context) error {
	tags := repositories.NewTagRepository()
	for _, rule := range tagging.DefaultRules {
		if _, err := tags.FindOrCreateDefault(ctx, rule.Tag, rule.Category); err != nil {
			return err
		}
	}

	packs := repositories.NewTagPackRepository()
	for _, p := range Packs {
		_, err := packs.GetByProductID(ctx, p.ProductID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		pack := p
		pack.Tags = append([]tag.Tag(nil), p.Tags...)
		if err := packs.Create(ctx, &pack); err != nil {
			return err
		}
		logger.Info("Seed", zap.String("tag_pack", pack.ProductID), zap.Int("tags", len(pack.Tags)))
	}
	return nil
}
