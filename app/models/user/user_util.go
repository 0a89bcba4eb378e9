package user

import (
	"strings"

	"tagmind/pkg/hash"
)

// NormalizeEmail 邮箱统一去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ComparePassword 密码是否正确
func (userModel *User) ComparePassword(_password string) bool {
	return hash.BcryptCheck(_password, userModel.Password)
}

// DisplayName 昵称为空时使用邮箱前缀
func (userModel *User) DisplayName() string {
	if userModel.Nickname != nil && *userModel.Nickname != "" {
		return *userModel.Nickname
	}
	name, _, _ := strings.Cut(userModel.Email, "@")
	return name
}
