// Package user 当前用户资料
package user

import (
	v1 "tagmind/app/http/controllers/api/v1"
	"tagmind/app/repositories"
	"tagmind/app/requests"
	"tagmind/pkg/auth"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// UsersController 用户控制器
type UsersController struct {
	v1.BaseAPIController
}

// NewUsersController 创建控制器
func NewUsersController() *UsersController {
	return &UsersController{}
}

// CurrentUser 当前登录用户信息
func (ctrl *UsersController) CurrentUser(c *gin.Context) {
	userModel := auth.CurrentUser(c)
	response.Data(c, userModel)
}

// UpdateProfile 修改昵称
func (ctrl *UsersController) UpdateProfile(c *gin.Context) {
	request := requests.UpdateMeRequest{}
	if ok := requests.Validate(c, &request, requests.UpdateMe); !ok {
		return
	}

	userModel, err := repositories.NewUserRepository().UpdateNickname(c.Request.Context(), auth.CurrentUID(c), request.Nickname)
	if err != nil {
		ctrl.Fail(c, err)
		return
	}
	response.Data(c, userModel)
}
