package handlers

import (
	"bug-tracker/app/server/middlewares"
	"bug-tracker/app/server/models"
	"bug-tracker/app/server/serialize"
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 评论引用的 bug 对当前用户可见时返回它的名称，否则返回 nil
func (a *App) bugNameFor(ctx context.Context, bugID uint, authUser *middlewares.AuthUser) (*string, error) {
	bug, err := a.bugs.GetByID(ctx, bugID)
	if err != nil {
		return nil, err
	}
	if bug == nil {
		return nil, nil
	}
	if authUser.IsDev || bug.UserName == authUser.UserName {
		return &bug.BugName, nil
	}
	return nil, nil
}

func (a *App) CommentList(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	var (
		rawComments []models.Comment
		err         error
	)
	if authUser.IsDev {
		rawComments, err = a.comments.ListAll(rctx)
	} else {
		rawComments, err = a.comments.ListByUser(rctx, authUser.UserName)
	}
	if err != nil {
		a.l.Error("failed to get comment list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	records := make([]serialize.CommentRecord, 0, len(rawComments))
	for _, comment := range rawComments {
		bugName, err := a.bugNameFor(rctx, comment.BugID, authUser)
		if err != nil {
			a.l.Error("failed to resolve bug name", zap.Uint("bug_id", comment.BugID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
		records = append(records, serialize.CommentRecord{Comment: comment, BugName: bugName})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"comments": serialize.FormatComments(records),
	})
}

func (a *App) CommentCreate(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)
	req := middlewares.GetCommentBody(c)

	bugName, err := a.bugNameFor(rctx, req.BugID, authUser)
	if err != nil {
		a.l.Error("failed to resolve bug name", zap.Uint("bug_id", req.BugID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if bugName == nil {
		return a.er(c, http.StatusUnauthorized, "Bug not found/unauthorized comment query")
	}

	comment := models.Comment{
		BugID:    req.BugID,
		UserName: authUser.UserName,
		Comment:  req.Comment,
	}
	if err := a.comments.Create(rctx, &comment); err != nil {
		a.l.Error("failed to create comment", zap.Uint("bug_id", req.BugID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"newComment": serialize.FormatComment(serialize.CommentRecord{
			Comment: comment,
			BugName: bugName,
		}),
	})
}

// /:id 路由共用的前置检查：评论要存在且属于当前用户（或当前用户是开发者）
func (a *App) ownedComment(c echo.Context) (*serialize.CommentRecord, error) {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, a.er(c, http.StatusUnauthorized, "Comment not found/unauthorized comment query")
	}

	comment, err := a.comments.GetByID(rctx, uint(id))
	if err != nil {
		a.l.Error("failed to get comment", zap.Uint64("id", id), zap.Error(err))
		return nil, a.er(c, http.StatusInternalServerError, "")
	}
	if comment == nil || (!authUser.IsDev && comment.UserName != authUser.UserName) {
		return nil, a.er(c, http.StatusUnauthorized, "Comment not found/unauthorized comment query")
	}

	bugName, err := a.bugNameFor(rctx, comment.BugID, authUser)
	if err != nil {
		a.l.Error("failed to resolve bug name", zap.Uint("bug_id", comment.BugID), zap.Error(err))
		return nil, a.er(c, http.StatusInternalServerError, "")
	}

	return &serialize.CommentRecord{Comment: *comment, BugName: bugName}, nil
}

func (a *App) CommentGet(c echo.Context) error {
	rec, err := a.ownedComment(c)
	if rec == nil {
		return err
	}

	return c.JSON(http.StatusOK, serialize.FormatComment(*rec))
}

func (a *App) CommentUpdate(c echo.Context) error {
	rctx := c.Request().Context()
	req := middlewares.GetCommentBody(c)

	rec, err := a.ownedComment(c)
	if rec == nil {
		return err
	}

	// 请求体不允许把评论挪到别的 bug 下
	if rec.Comment.BugID != req.BugID {
		return a.er(c, http.StatusUnauthorized, "Bug ID conflict in body")
	}

	updated, err := a.comments.UpdateByID(rctx, rec.Comment.ID, map[string]any{
		"comment": req.Comment,
	})
	if err != nil {
		a.l.Error("failed to update comment", zap.Uint("id", rec.Comment.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if updated == nil {
		// 并发删除抢先了，空结果按未找到处理
		return a.er(c, http.StatusUnauthorized, "Comment not found/unauthorized comment query")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"updComment": serialize.FormatComment(serialize.CommentRecord{
			Comment: *updated,
			BugName: rec.BugName,
		}),
	})
}

func (a *App) CommentDelete(c echo.Context) error {
	rctx := c.Request().Context()

	rec, err := a.ownedComment(c)
	if rec == nil {
		return err
	}

	deleted, err := a.comments.DeleteByID(rctx, rec.Comment.ID)
	if err != nil {
		a.l.Error("failed to delete comment", zap.Uint("id", rec.Comment.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if deleted == nil {
		// 并发删除抢先了，空结果按未找到处理
		return a.er(c, http.StatusUnauthorized, "Comment not found/unauthorized comment query")
	}

	// 回显被删除的评论
	return c.JSON(http.StatusOK, echo.Map{
		"delComment": serialize.FormatComment(serialize.CommentRecord{
			Comment: *deleted,
			BugName: rec.BugName,
		}),
	})
}

func (a *App) CommentListByBug(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	bugID, err := strconv.ParseUint(c.Param("bugId"), 10, 64)
	if err != nil {
		return a.er(c, http.StatusUnauthorized, "Unauthorized comment query")
	}

	bugName, err := a.bugNameFor(rctx, uint(bugID), authUser)
	if err != nil {
		a.l.Error("failed to resolve bug name", zap.Uint64("bug_id", bugID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if bugName == nil {
		return a.er(c, http.StatusUnauthorized, "Unauthorized comment query")
	}

	rawComments, err := a.comments.ListByBug(rctx, uint(bugID))
	if err != nil {
		a.l.Error("failed to get comment list", zap.Uint64("bug_id", bugID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	records := make([]serialize.CommentRecord, 0, len(rawComments))
	for _, comment := range rawComments {
		records = append(records, serialize.CommentRecord{Comment: comment, BugName: bugName})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bugComments": serialize.FormatComments(records),
	})
}

func (a *App) CommentListByUser(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)
	userName := c.Param("userName")

	if !authUser.IsDev && authUser.UserName != userName {
		return a.er(c, http.StatusUnauthorized, "Unauthorized comment query")
	}

	rawComments, err := a.comments.ListByUser(rctx, userName)
	if err != nil {
		a.l.Error("failed to get comment list", zap.String("user_name", userName), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	records := make([]serialize.CommentRecord, 0, len(rawComments))
	for _, comment := range rawComments {
		bugName, err := a.bugNameFor(rctx, comment.BugID, authUser)
		if err != nil {
			a.l.Error("failed to resolve bug name", zap.Uint("bug_id", comment.BugID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
		records = append(records, serialize.CommentRecord{Comment: comment, BugName: bugName})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userComments": serialize.FormatComments(records),
	})
}
