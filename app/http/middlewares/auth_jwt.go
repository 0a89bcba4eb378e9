package middlewares

import (
	"errors"

	"tagmind/app/repositories"
	"tagmind/pkg/jwt"
	"tagmind/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthJWT 校验 access token，并将当前用户写入上下文
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := jwt.ParseHeaderToken(c)
		if err != nil {
			response.Abort401(c, err.Error())
			return
		}

		claims, err := jwt.NewJWT().ParseAccessToken(token)
		if err != nil {
			msg := jwt.ErrTokenInvalid.Error()
			if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenWrongType) {
				msg = err.Error()
			}
			response.Abort401(c, msg)
			return
		}

		userModel, err := repositories.NewUserRepository().GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if repositories.IsNotFound(err) {
				response.Abort401(c, "找不到对应用户，用户可能已删除")
				return
			}
			response.ServerError(c, err)
			return
		}

		// 将用户信息存入 gin.context 里，后续 auth 包将从这里拿到当前用户数据
		c.Set("current_user_id", userModel.ID)
		c.Set("current_user", *userModel)

		c.Next()
	}
}
