// Package v1 处理业务逻辑, v1 版本的控制器
package v1

import (
	"errors"

	"tagmind/app/repositories"
	"tagmind/pkg/auth"
	"tagmind/pkg/payment"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// BaseAPIController 基础控制器
type BaseAPIController struct {
}

// ParamID 读取路径中的数字 ID，格式错误时按资源不存在处理
func (ctrl *BaseAPIController) ParamID(c *gin.Context, name string) (uint64, bool) {
	id, err := cast.ToUint64E(c.Param(name))
	if err != nil || id == 0 {
		response.Abort404(c)
		return 0, false
	}
	return id, true
}

// Fail 按错误类型返回对应的 HTTP 状态
func (ctrl *BaseAPIController) Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.Abort404(c)
	case errors.Is(err, repositories.ErrAlreadyOwned):
		response.Abort400(c, "已拥有该标签包")
	case errors.Is(err, repositories.ErrTagLocked):
		response.Abort403(c, "该标签属于未购买的标签包")
	case errors.Is(err, repositories.ErrEmailTaken):
		response.Abort409(c, "邮箱已被注册")
	case errors.Is(err, repositories.ErrNicknameTaken):
		response.Abort409(c, "昵称已被使用")
	case errors.Is(err, repositories.ErrEmptyQuery):
		response.ValidationError(c, map[string][]string{"q": {"搜索关键词不能为空"}})
	case errors.Is(err, payment.ErrProviderUnavailable):
		response.Abort400(c, "支付渠道不可用")
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.Abort401(c, auth.ErrInvalidCredentials.Error())
	default:
		response.ServerError(c, err)
	}
}
