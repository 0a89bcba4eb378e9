// Package auth 授权相关逻辑
package auth

import (
	"context"
	"errors"

	"tagmind/app/models/user"
	"tagmind/app/repositories"
	"tagmind/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrInvalidCredentials 邮箱不存在或密码错误，两种情况不做区分
var ErrInvalidCredentials = errors.New("邮箱或密码错误")

// Attempt 尝试登录
func Attempt(ctx context.Context, email, password string) (*user.User, error) {
	userModel, err := repositories.NewUserRepository().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !userModel.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}
	return userModel, nil
}

// CurrentUser 从 gin.context 中获取当前登录用户
func CurrentUser(c *gin.Context) user.User {
	userModel, ok := c.MustGet("current_user").(user.User)
	if !ok {
		logger.LogIf(errors.New("无法获取用户"))
		return user.User{}
	}
	return userModel
}

// CurrentUID 从 gin.context 中获取当前登录用户 ID
func CurrentUID(c *gin.Context) uint64 {
	return c.GetUint64("current_user_id")
}
