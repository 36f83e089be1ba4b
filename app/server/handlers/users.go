package handlers

import (
	"bug-tracker/app/server/constants"
	"bug-tracker/app/server/middlewares"
	"bug-tracker/app/server/models"
	"bug-tracker/app/server/serialize"
	"net/http"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type userCreateRequest struct {
	UserName  string `json:"user_name"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a *App) UserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req userCreateRequest
	_ = c.Bind(&req)

	for _, field := range []struct {
		name  string
		value string
	}{
		{"user_name", req.UserName},
		{"password", req.Password},
		{"email", req.Email},
	} {
		if field.value == "" {
			return a.er(c, http.StatusBadRequest, "Missing '"+field.name+"' in request body")
		}
	}

	// 用户名全局唯一
	if existing, err := a.users.GetByUserName(rctx, req.UserName); err != nil {
		a.l.Error("failed to check user_name", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	} else if existing != nil {
		return a.er(c, http.StatusBadRequest, "Username already taken")
	}

	// 处理密码
	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	// 创建用户，注册的都是普通用户，开发者权限只能由已有开发者在库里授予
	user := models.User{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  passwordHash,
	}
	if err := a.users.Create(rctx, &user); err != nil {
		a.l.Error("failed to create user", zap.String("user_name", req.UserName), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"newUser": serialize.FormatUser(&user),
	})
}

func (a *App) UserList(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	// 只有开发者可以列出所有用户
	if !authUser.IsDev {
		return a.er(c, http.StatusUnauthorized, constants.ErrUnauthorizedReq)
	}

	users, err := a.users.ListAll(rctx)
	if err != nil {
		a.l.Error("failed to get user list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": serialize.FormatUsers(users),
	})
}
