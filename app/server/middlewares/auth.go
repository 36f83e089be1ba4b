package middlewares

import (
	"bug-tracker/app/server/constants"
	"bug-tracker/app/server/jwt"
	"bug-tracker/app/server/models"
	"bug-tracker/app/server/serialize"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const authUserKey = "authUser"

// 认证后挂在请求上下文里的身份，下游只做范围检查，不再重复验证
type AuthUser struct {
	UserName string
	IsDev    bool
}

func RequireAuth(db *gorm.DB, j *jwt.JWT, l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rctx := c.Request().Context()

			// 提取 token
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, &serialize.ErrorMessage{Error: constants.ErrMissingBearerToken})
			}

			splits := strings.Split(authHeader, " ")
			if len(splits) != 2 || strings.ToLower(splits[0]) != "bearer" {
				return c.JSON(http.StatusUnauthorized, &serialize.ErrorMessage{Error: constants.ErrMissingBearerToken})
			}

			// 验证 token
			jwtUser, err := j.ParseUser(splits[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, &serialize.ErrorMessage{Error: constants.ErrUnauthorizedReq})
			}

			// 查询数据库，确认用户仍然存在并拿到最新的权限位
			var user models.User
			if err = db.WithContext(rctx).First(&user, "user_name = ?", jwtUser.UserName).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return c.JSON(http.StatusUnauthorized, &serialize.ErrorMessage{Error: constants.ErrUnauthorizedReq})
				}
				l.Error("failed to resolve auth user", zap.String("user_name", jwtUser.UserName), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, &serialize.ErrorMessage{Error: http.StatusText(http.StatusInternalServerError)})
			}

			// 设置 context
			c.Set(authUserKey, &AuthUser{
				UserName: user.UserName,
				IsDev:    user.IsDev,
			})

			// 继续处理
			return next(c)
		}
	}
}

func GetAuthUser(c echo.Context) *AuthUser {
	user, _ := c.Get(authUserKey).(*AuthUser)
	return user
}
