// Package repositories 数据访问层，所有写操作在 gorm 事务中完成
package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在或不属于当前用户
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyOwned 用户已拥有该标签包
	ErrAlreadyOwned = errors.New("tag pack already owned")
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrNicknameTaken 昵称已被使用
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrTagLocked 标签属于用户未购买的标签包
	ErrTagLocked = errors.New("tag belongs to a tag pack not owned")
	// ErrEmptyQuery 搜索关键词为空
	ErrEmptyQuery = errors.New("search query must not be empty")
)

// IsNotFound 便于控制器判断
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// notFound 将 gorm.ErrRecordNotFound 统一为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '\' 使用
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// uniqueIDs 去重并保持原有顺序
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
