// Package jwt 处理 JWT 认证
package jwt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"tagmind/pkg/config"

	"github.com/gin-gonic/gin"
	jwtpkg "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired    = errors.New("令牌已过期")
	ErrTokenInvalid    = errors.New("令牌无效")
	ErrTokenWrongType  = errors.New("令牌类型不匹配")
	ErrHeaderEmpty     = errors.New("需要认证才能访问")
	ErrHeaderMalformed = errors.New("请求头中 Authorization 格式有误")
)

// 令牌类型，access 用于访问接口，refresh 只用于换取新令牌
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// JWT 定义一个 jwt 对象
type JWT struct {
	// 秘钥，用以加密 JWT，读取配置信息 jwt.secret，未配置时使用 app.key
	SignKey []byte

	// access token 有效期
	AccessTTL time.Duration

	// refresh token 有效期
	RefreshTTL time.Duration
}

// CustomClaims 自定义载荷
type CustomClaims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"typ"`

	// RegisteredClaims 结构体实现了 Claims 接口继承了 Valid() 方法
	// JWT 规定了7个官方字段，提供使用:
	// - iss (issuer)：发布者
	// - sub (subject)：主题
	// - iat (Issued At)：生成签名的时间
	// - exp (expiration time)：签名过期时间
	// - aud (audience)：观众，相当于接受者
	// - nbf (Not Before)：生效时间
	// - jti (JWT ID)：编号
	jwtpkg.RegisteredClaims
}

// TokenPair 登录与刷新时返回给客户端的令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewJWT 按配置创建
func NewJWT() *JWT {
	secret := config.GetString("jwt.secret")
	if secret == "" {
		secret = config.GetString("app.key")
	}
	return &JWT{
		SignKey:    []byte(secret),
		AccessTTL:  time.Duration(config.GetInt64("jwt.expire_time", 30)) * time.Minute,
		RefreshTTL: time.Duration(config.GetInt64("jwt.refresh_expire_days", 7)) * 24 * time.Hour,
	}
}

// IssuePair 签发一对 access / refresh token
func (jwt *JWT) IssuePair(userID uint64) (*TokenPair, error) {
	access, err := jwt.issue(userID, TypeAccess, jwt.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.issue(userID, TypeRefresh, jwt.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(jwt.AccessTTL.Seconds()),
	}, nil
}

// ParseAccessToken 解析 access token
func (jwt *JWT) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	return jwt.parse(tokenString, TypeAccess)
}

// ParseRefreshToken 解析 refresh token
func (jwt *JWT) ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	return jwt.parse(tokenString, TypeRefresh)
}

// ParseHeaderToken 从请求头 Authorization: Bearer xxx 中获取令牌
func ParseHeaderToken(c *gin.Context) (string, error) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrHeaderEmpty
	}
	// 按空格分割
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrHeaderMalformed
	}
	return strings.TrimSpace(parts[1]), nil
}

func (jwt *JWT) issue(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwtpkg.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			Issuer:    config.GetString("app.name", "TagMind"),
			IssuedAt:  jwtpkg.NewNumericDate(now),
			NotBefore: jwtpkg.NewNumericDate(now),
			ExpiresAt: jwtpkg.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtpkg.NewWithClaims(jwtpkg.SigningMethodHS256, claims)
	return token.SignedString(jwt.SignKey)
}

func (jwt *JWT) parse(tokenString, tokenType string) (*CustomClaims, error) {
	token, err := jwtpkg.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwtpkg.Token) (interface{}, error) {
		return jwt.SignKey, nil
	}, jwtpkg.WithValidMethods([]string{jwtpkg.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwtpkg.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenWrongType
	}
	return claims, nil
}
