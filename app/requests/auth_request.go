package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// SignupRequest 注册
type SignupRequest struct {
	Email    string `json:"email" form:"email" valid:"email"`
	Password string `json:"password" form:"password" valid:"password"`
	Nickname string `json:"nickname,omitempty" form:"nickname" valid:"nickname"`
}

// Signup 注册验证
func Signup(data interface{}, c *gin.Context) map[string][]string {
	rules := govalidator.MapData{
		"email":    []string{"required", "email", "max:255"},
		"password": []string{"required", "min:8", "max:72"},
		"nickname": []string{"min:2", "max:50"},
	}
	messages := govalidator.MapData{
		"email": []string{
			"required:邮箱为必填项",
			"email:邮箱格式不正确",
			"max:邮箱长度不能超过 255 个字符",
		},
		"password": []string{
			"required:密码为必填项",
			"min:密码长度需大于 8",
			"max:密码长度不能超过 72",
		},
		"nickname": []string{
			"min:昵称长度需大于 2",
			"max:昵称长度不能超过 50",
		},
	}
	req := data.(*SignupRequest)
	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)
	return validate(req, rules, messages)
}

// LoginRequest 登录，兼容 OAuth2 密码模式的表单字段 username
type LoginRequest struct {
	Username string `json:"username,omitempty" form:"username"`
	Email    string `json:"email,omitempty" form:"email" valid:"email"`
	Password string `json:"password" form:"password" valid:"password"`
}

// Login 登录验证
func Login(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*LoginRequest)
	if req.Email == "" {
		req.Email = req.Username
	}
	rules := govalidator.MapData{
		"email":    []string{"required"},
		"password": []string{"required"},
	}
	messages := govalidator.MapData{
		"email":    []string{"required:邮箱为必填项"},
		"password": []string{"required:密码为必填项"},
	}
	return validate(req, rules, messages)
}

// RefreshRequest 刷新令牌
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" valid:"refresh_token"`
}

// Refresh 刷新令牌验证
func Refresh(data interface{}, c *gin.Context) map[string][]string {
	rules := govalidator.MapData{
		"refresh_token": []string{"required"},
	}
	messages := govalidator.MapData{
		"refresh_token": []string{"required:refresh_token 为必填项"},
	}
	return validate(data, rules, messages)
}

// UpdateMeRequest 修改当前用户资料，目前只有昵称可修改
type UpdateMeRequest struct {
	Nickname string `json:"nickname" form:"nickname" valid:"nickname"`
}

// UpdateMe 修改资料验证
func UpdateMe(data interface{}, c *gin.Context) map[string][]string {
	req := data.(*UpdateMeRequest)
	req.Nickname = strings.TrimSpace(req.Nickname)
	rules := govalidator.MapData{
		"nickname": []string{"required", "min:2", "max:50"},
	}
	messages := govalidator.MapData{
		"nickname": []string{
			"required:昵称为必填项",
			"min:昵称长度需大于 2",
			"max:昵称长度不能超过 50",
		},
	}
	return validate(req, rules, messages)
}
