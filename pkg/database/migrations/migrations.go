// Package migrations 注册需要自动迁移的模型
package migrations

import (
	"tagmind/app/models/analysis"
	"tagmind/app/models/diary"
	"tagmind/app/models/order"
	"tagmind/app/models/tag"
	"tagmind/app/models/tagpack"
	"tagmind/app/models/user"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&user.User{},
		&tagpack.TagPack{},
		&tag.Tag{},
		&diary.Diary{},
		&tag.DiaryTag{},
		&tagpack.UserTagPack{},
		&analysis.AnalysisResult{},
		&order.Order{},
	}
}
