// Package auth 处理用户注册、登录与令牌刷新
package auth

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/models/user"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/jwt"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthController 注册登录控制器
type AuthController struct {
	v1.BaseAPIController
}

// NewAuthController 创建控制器
func NewAuthController() *AuthController {
	return &AuthController{}
}

// Signup 注册新用户
func (ac *AuthController) Signup(c *gin.Context) {
	request := requests.SignupRequest{}
	if ok := requests.Validate(c, &request, requests.Signup); !ok {
		return
	}

	userModel := &user.User{
		Email:    request.Email,
		Password: request.Password,
	}
	if request.Nickname != "" {
		userModel.Nickname = &request.Nickname
	}

	if err := repositories.NewUserRepository().Create(c.Request.Context(), userModel); err != nil {
		ac.Fail(c, err)
		return
	}

	response.Created(c, userModel, "注册成功")
}

// IssueToken 使用邮箱和密码换取令牌，支持表单与 JSON
func (ac *AuthController) IssueToken(c *gin.Context) {
	request := requests.LoginRequest{}
	if ok := requests.Validate(c, &request, requests.Login); !ok {
		return
	}

	userModel, err := auth.Attempt(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		ac.Fail(c, err)
		return
	}

	pair, err := jwt.NewJWT().IssuePair(userModel.ID)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.JSON(c, pair)
}

// RefreshToken 使用 refresh token 换取新的令牌
func (ac *AuthController) RefreshToken(c *gin.Context) {
	request := requests.RefreshRequest{}
	if ok := requests.Validate(c, &request, requests.Refresh); !ok {
		return
	}

	j := jwt.NewJWT()
	claims, err := j.ParseRefreshToken(request.RefreshToken)
	if err != nil {
		response.Abort401(c, err.Error())
		return
	}

	// 用户已删除时不再签发
	if _, err := repositories.NewUserRepository().GetByID(c.Request.Context(), claims.UserID); err != nil {
		if repositories.IsNotFound(err) {
			response.Abort401(c, jwt.ErrTokenInvalid.Error())
			return
		}
		response.ServerError(c, err)
		return
	}

	pair, err := j.IssuePair(claims.UserID)
	if err != nil {
		response.ServerError(c, err)
		return
	}
	response.JSON(c, pair)
}
