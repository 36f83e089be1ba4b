package handlers

import (
	"bug-tracker/app/server/constants"
	"bug-tracker/app/server/jwt"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"authToken"`
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind json body", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "")
	}

	// 没有写用户名或密码
	if req.UserName == "" || req.Password == "" {
		return a.er(c, http.StatusBadRequest, "Missing 'user_name' or 'password' in request body")
	}

	user, err := a.users.GetByUserName(rctx, req.UserName)
	if err != nil {
		a.l.Error("failed to find user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if user == nil {
		return a.er(c, http.StatusUnauthorized, "Incorrect user_name or password")
	}

	// 提取密码 hash 并进行校验
	if match, _, err := argon2id.CheckHash(req.Password, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	} else if !match {
		// 密码不一致
		return a.er(c, http.StatusUnauthorized, "Incorrect user_name or password")
	}

	// 签出 JWT
	expires := time.Now().Add(constants.AuthTokenDuration)
	token, err := a.jwt.SignToken(&jwt.User{
		UserName: user.UserName,
		IsDev:    user.IsDev,
		Expires:  expires.Unix(),
	})
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	// 返回
	return c.JSON(http.StatusOK, &loginResponse{
		AuthToken: token,
	})
}
