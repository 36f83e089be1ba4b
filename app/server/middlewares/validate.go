package middlewares

import (
	"bug-tracker/app/server/serialize"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	newBugKey     = "newBug"
	newCommentKey = "newComment"
)

type BugBodyRequest struct {
	UserName    string `json:"user_name"`
	BugName     string `json:"bug_name"`
	Description string `json:"description"`
	AppName     string `json:"app_name"`
	Level       string `json:"level"`
}

type CommentBodyRequest struct {
	BugID   uint   `json:"bug_id"`
	Comment string `json:"comment"`
}

func missingField(c echo.Context, field string) error {
	return c.JSON(http.StatusBadRequest, &serialize.ErrorMessage{
		Error: fmt.Sprintf("Missing '%s' in request body", field),
	})
}

// 只检查必填字段是否存在，语义正确性（比如 bug 是否真的存在）由下游负责

func BugBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &BugBodyRequest{}
		// 空请求体按全部字段缺失处理
		_ = c.Bind(req)

		for _, field := range []struct {
			name  string
			value string
		}{
			{"user_name", req.UserName},
			{"bug_name", req.BugName},
			{"description", req.Description},
			{"app_name", req.AppName},
			{"level", req.Level},
		} {
			if field.value == "" {
				return missingField(c, field.name)
			}
		}

		c.Set(newBugKey, req)
		return next(c)
	}
}

func CommentBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &CommentBodyRequest{}
		_ = c.Bind(req)

		if req.BugID == 0 {
			return missingField(c, "bug_id")
		}
		if req.Comment == "" {
			return missingField(c, "comment")
		}

		c.Set(newCommentKey, req)
		return next(c)
	}
}

func GetBugBody(c echo.Context) *BugBodyRequest {
	req, _ := c.Get(newBugKey).(*BugBodyRequest)
	return req
}

func GetCommentBody(c echo.Context) *CommentBodyRequest {
	req, _ := c.Get(newCommentKey).(*CommentBodyRequest)
	return req
}
