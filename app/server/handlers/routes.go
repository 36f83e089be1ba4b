package handlers

import (
	"bug-tracker/app/server/middlewares"

	"github.com/labstack/echo/v4"
)

func (a *App) Register(e *echo.Echo) {
	e.GET("/", a.HealthCheck)

	requireAuth := middlewares.RequireAuth(a.db, a.jwt, a.l)

	auth := e.Group("/api/auth")
	auth.POST("/login", a.AuthLogin)

	users := e.Group("/api/users")
	users.POST("", a.UserCreate) // 注册，不需要认证
	users.POST("/login", a.AuthLogin)
	users.GET("", a.UserList, requireAuth)

	bugs := e.Group("/api/bugs", requireAuth)
	bugs.GET("", a.BugList)
	bugs.POST("", a.BugCreate, middlewares.BugBody)
	bugs.PATCH("/:id", a.BugUpdate)
	bugs.GET("/user/:userName", a.BugListByUser)
	bugs.GET("/app/:app", a.BugListByApp)
	bugs.GET("/status/:status", a.BugListByStatus)
	bugs.GET("/severity/:level", a.BugListBySeverity)

	comments := e.Group("/api/comments", requireAuth)
	comments.GET("", a.CommentList)
	comments.POST("", a.CommentCreate, middlewares.CommentBody)
	comments.GET("/:id", a.CommentGet)
	comments.PATCH("/:id", a.CommentUpdate, middlewares.CommentBody)
	comments.DELETE("/:id", a.CommentDelete)
	comments.GET("/bug/:bugId", a.CommentListByBug)
	comments.GET("/user/:userName", a.CommentListByUser)
}
