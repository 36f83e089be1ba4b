package handlers

import (
	"bug-tracker/app/server/middlewares"
	"bug-tracker/app/server/models"
	"bug-tracker/app/server/repos"
	"bug-tracker/app/server/serialize"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 把解析好的关联名称挂到每一行上，保持输入顺序
func (a *App) resolveLinks(ctx context.Context, bugs []models.Bug) ([]serialize.BugRecord, error) {
	records := make([]serialize.BugRecord, 0, len(bugs))
	for _, bug := range bugs {
		links, err := a.linkages.GrabBugLinkages(ctx, bug.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, serialize.BugRecord{
			Bug:      bug,
			Status:   links.StatusName,
			App:      links.AppName,
			Severity: links.Level,
		})
	}
	return records, nil
}

// 开发者看全部，普通用户只看自己的
func (a *App) scopedBugs(ctx context.Context, authUser *middlewares.AuthUser) ([]models.Bug, error) {
	if authUser.IsDev {
		return a.bugs.ListAll(ctx)
	}
	return a.bugs.ListByUser(ctx, authUser.UserName)
}

func (a *App) BugList(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	rawBugs, err := a.scopedBugs(rctx, authUser)
	if err != nil {
		a.l.Error("failed to get bug list", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	if len(rawBugs) == 0 {
		return a.er(c, http.StatusBadRequest, fmt.Sprintf("No bugs found for user: '%s'", authUser.UserName))
	}

	records, err := a.resolveLinks(rctx, rawBugs)
	if err != nil {
		a.l.Error("failed to resolve bug linkages", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bugs": serialize.FormatBugs(records),
	})
}

func (a *App) BugCreate(c echo.Context) error {
	rctx := c.Request().Context()
	req := middlewares.GetBugBody(c)

	bug := models.Bug{
		UserName:    req.UserName,
		BugName:     req.BugName,
		Description: req.Description,
	}

	// bug 和默认关联行在同一个事务里创建
	if err := a.bugs.CreateWithLinkages(rctx, &bug, req.AppName); err != nil {
		if errors.Is(err, repos.ErrUnknownApp) {
			return a.er(c, http.StatusBadRequest, fmt.Sprintf("Unknown app: '%s'", req.AppName))
		}
		a.l.Error("failed to create bug", zap.String("bug_name", req.BugName), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	links, err := a.linkages.GrabBugLinkages(rctx, bug.ID)
	if err != nil {
		a.l.Error("failed to resolve bug linkages", zap.Uint("id", bug.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"newBug": serialize.FormatBug(serialize.BugRecord{
			Bug:      bug,
			Status:   links.StatusName,
			App:      links.AppName,
			Severity: links.Level,
		}),
	})
}

type bugUpdateRequest struct {
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	AppName        *string `json:"app_name"`
	Level          *string `json:"level"`
	CompletedNotes *string `json:"completed_notes"`
}

func (a *App) BugUpdate(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return a.er(c, http.StatusUnauthorized, "Bug not found/unauthorized bug query")
	}

	bug, err := a.bugs.GetByID(rctx, uint(id))
	if err != nil {
		a.l.Error("failed to get bug", zap.Uint64("id", id), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
	if bug == nil || (!authUser.IsDev && bug.UserName != authUser.UserName) {
		return a.er(c, http.StatusUnauthorized, "Bug not found/unauthorized bug query")
	}

	// 绑定请求体
	var req bugUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest, "")
	}

	// 关联行原地更新
	if req.Status != nil {
		if err := a.linkages.SetStatus(rctx, bug.ID, *req.Status); err != nil {
			if errors.Is(err, repos.ErrUnknownStatus) {
				return a.er(c, http.StatusBadRequest, fmt.Sprintf("Unknown status: '%s'", *req.Status))
			}
			a.l.Error("failed to set bug status", zap.Uint("id", bug.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
	}
	if req.AppName != nil {
		if err := a.linkages.SetApp(rctx, bug.ID, *req.AppName); err != nil {
			if errors.Is(err, repos.ErrUnknownApp) {
				return a.er(c, http.StatusBadRequest, fmt.Sprintf("Unknown app: '%s'", *req.AppName))
			}
			a.l.Error("failed to set bug app", zap.Uint("id", bug.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
	}
	if req.Level != nil {
		if err := a.linkages.SetSeverity(rctx, bug.ID, *req.Level); err != nil {
			if errors.Is(err, repos.ErrUnknownSeverity) {
				return a.er(c, http.StatusBadRequest, fmt.Sprintf("Unknown severity level: '%s'", *req.Level))
			}
			a.l.Error("failed to set bug severity", zap.Uint("id", bug.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
	}

	// bug 行本身的字段
	fields := map[string]any{}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.CompletedNotes != nil {
		fields["completed_notes"] = *req.CompletedNotes
	}
	if req.Status != nil && (*req.Status == "completed" || *req.Status == "closed") {
		fields["completed_at"] = time.Now()
	}

	updated := bug
	if len(fields) > 0 {
		if updated, err = a.bugs.UpdateByID(rctx, bug.ID, fields); err != nil {
			a.l.Error("failed to update bug", zap.Uint("id", bug.ID), zap.Error(err))
			return a.er(c, http.StatusInternalServerError, "")
		}
	}

	links, err := a.linkages.GrabBugLinkages(rctx, bug.ID)
	if err != nil {
		a.l.Error("failed to resolve bug linkages", zap.Uint("id", bug.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"updBug": serialize.FormatBug(serialize.BugRecord{
			Bug:      *updated,
			Status:   links.StatusName,
			App:      links.AppName,
			Severity: links.Level,
		}),
	})
}

func (a *App) BugListByUser(c echo.Context) error {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)
	userName := c.Param("userName")

	if !authUser.IsDev && authUser.UserName != userName {
		return a.er(c, http.StatusUnauthorized, "Unauthorized filter request")
	}

	filtBugs, err := a.bugs.ListByUser(rctx, userName)
	if err != nil {
		a.l.Error("failed to get bug list", zap.String("user_name", userName), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	records, err := a.resolveLinks(rctx, filtBugs)
	if err != nil {
		a.l.Error("failed to resolve bug linkages", zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userBugs": serialize.FormatBugs(records),
	})
}

// 关联过滤都在内存里做：先取开发者或本人范围内的行，再按解析出的名称筛。
// 数据量大了以后应该换成带索引的查询
func (a *App) bugsFilteredByLinkage(c echo.Context, keep func(*repos.Links) bool) ([]serialize.BugRecord, error) {
	rctx := c.Request().Context()
	authUser := middlewares.GetAuthUser(c)

	rawBugs, err := a.scopedBugs(rctx, authUser)
	if err != nil {
		return nil, err
	}

	records := make([]serialize.BugRecord, 0, len(rawBugs))
	for _, bug := range rawBugs {
		links, err := a.linkages.GrabBugLinkages(rctx, bug.ID)
		if err != nil {
			return nil, err
		}
		if keep(links) {
			records = append(records, serialize.BugRecord{
				Bug:      bug,
				Status:   links.StatusName,
				App:      links.AppName,
				Severity: links.Level,
			})
		}
	}
	return records, nil
}

func (a *App) BugListByApp(c echo.Context) error {
	// 路径参数里的连字符代表空格
	app := strings.ReplaceAll(c.Param("app"), "-", " ")

	records, err := a.bugsFilteredByLinkage(c, func(links *repos.Links) bool {
		return links.AppName == app
	})
	if err != nil {
		a.l.Error("failed to filter bugs by app", zap.String("app", app), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"appBugs": serialize.FormatBugs(records),
	})
}

func (a *App) BugListByStatus(c echo.Context) error {
	status := c.Param("status")

	records, err := a.bugsFilteredByLinkage(c, func(links *repos.Links) bool {
		return links.StatusName == status
	})
	if err != nil {
		a.l.Error("failed to filter bugs by status", zap.String("status", status), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"statBugs": serialize.FormatBugs(records),
	})
}

func (a *App) BugListBySeverity(c echo.Context) error {
	level := c.Param("level")

	records, err := a.bugsFilteredByLinkage(c, func(links *repos.Links) bool {
		return links.Level == level
	})
	if err != nil {
		a.l.Error("failed to filter bugs by severity", zap.String("level", level), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"bugs": serialize.FormatBugs(records),
	})
}
