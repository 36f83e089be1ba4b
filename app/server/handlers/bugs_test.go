package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"bug-tracker/app/server/models"
)

type bugViewBody struct {
	ID             uint    `json:"id"`
	BugName        string  `json:"bugName"`
	BugPostedBy    string  `json:"bugPostedBy"`
	Status         string  `json:"status"`
	App            string  `json:"app"`
	Severity       string  `json:"severity"`
	CompletedDate  *string `json:"completedDate"`
	CompletedNotes *string `json:"completedNotes"`
}

func TestBugListScopes(t *testing.T) {
	ta := newTestApp(t)

	// 开发者看到所有人的 bug
	w := ta.do(t, http.MethodGet, "/api/bugs", ta.devHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dev code = %d, want 200: %s", w.Code, w.Body.String())
	}
	var devBody struct {
		Bugs []bugViewBody `json:"bugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &devBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(devBody.Bugs) != 2 {
		t.Fatalf("dev got %d bugs, want 2", len(devBody.Bugs))
	}
	// 每个 bug 都带解析好的名称，不带关联 id
	for _, bug := range devBody.Bugs {
		if bug.Status != "pending" || bug.App != "bug tracker" || bug.Severity != "pending" {
			t.Errorf("bug %d linkages = %q/%q/%q", bug.ID, bug.Status, bug.App, bug.Severity)
		}
	}

	// 普通用户只看到自己的
	w = ta.do(t, http.MethodGet, "/api/bugs", ta.nonDevHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("non-dev code = %d, want 200", w.Code)
	}
	var userBody struct {
		Bugs []bugViewBody `json:"bugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &userBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(userBody.Bugs) != 1 || userBody.Bugs[0].BugPostedBy != "user_name2" {
		t.Fatalf("non-dev bugs = %+v", userBody.Bugs)
	}
}

func TestBugListEmptyScope(t *testing.T) {
	ta := newTestApp(t)

	w := ta.do(t, http.MethodGet, "/api/bugs", ta.authHeader(t, "user_name3", false), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "No bugs found for user: 'user_name3'" {
		t.Errorf("error = %q", msg)
	}
}

func TestBugCreate(t *testing.T) {
	ta := newTestApp(t)

	// 缺字段，报第一个缺的
	w := ta.do(t, http.MethodPost, "/api/bugs", ta.nonDevHeader(t), map[string]any{
		"user_name": "user_name2",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Missing 'bug_name' in request body" {
		t.Errorf("error = %q", msg)
	}

	// 正常创建，默认状态 pending
	w = ta.do(t, http.MethodPost, "/api/bugs", ta.nonDevHeader(t), map[string]any{
		"user_name":   "user_name2",
		"bug_name":    "fresh bug",
		"description": "something broke",
		"app_name":    "bug tracker",
		"level":       "high",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", w.Code, w.Body.String())
	}
	var created struct {
		NewBug bugViewBody `json:"newBug"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.NewBug.Status != "pending" {
		t.Errorf("status = %q, want pending", created.NewBug.Status)
	}
	if created.NewBug.Severity != "pending" {
		t.Errorf("severity = %q, want pending", created.NewBug.Severity)
	}
	if created.NewBug.App != "bug tracker" {
		t.Errorf("app = %q, want bug tracker", created.NewBug.App)
	}

	// 创建后立刻能解析出全部三个关联
	links, err := ta.app.linkages.GrabBugLinkages(context.Background(), created.NewBug.ID)
	if err != nil {
		t.Fatalf("grab linkages: %v", err)
	}
	if links.StatusName == "" || links.AppName == "" || links.Level == "" {
		t.Errorf("unresolved linkages: %+v", links)
	}
}

func TestBugCreateUnknownAppRollsBack(t *testing.T) {
	ta := newTestApp(t)

	w := ta.do(t, http.MethodPost, "/api/bugs", ta.nonDevHeader(t), map[string]any{
		"user_name":   "user_name2",
		"bug_name":    "orphan bug",
		"description": "desc",
		"app_name":    "no such app",
		"level":       "high",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400: %s", w.Code, w.Body.String())
	}

	// 不能留下孤儿 bug
	var count int64
	if err := ta.db.Model(&models.Bug{}).Where("bug_name = ?", "orphan bug").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("found %d orphan bugs, want 0", count)
	}
}

func TestBugUpdate(t *testing.T) {
	ta := newTestApp(t)

	// 非开发者改别人的 bug
	w := ta.do(t, http.MethodPatch, fmt.Sprintf("/api/bugs/%d", ta.bug1.ID), ta.nonDevHeader(t), map[string]any{
		"status": "completed",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}

	// 本人更新状态到 completed ，盖上完成时间
	w = ta.do(t, http.MethodPatch, fmt.Sprintf("/api/bugs/%d", ta.bug2.ID), ta.nonDevHeader(t), map[string]any{
		"status":          "completed",
		"completed_notes": "all fixed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200: %s", w.Code, w.Body.String())
	}
	var updated struct {
		UpdBug bugViewBody `json:"updBug"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.UpdBug.Status != "completed" {
		t.Errorf("status = %q, want completed", updated.UpdBug.Status)
	}
	if updated.UpdBug.CompletedDate == nil {
		t.Error("completedDate not stamped")
	}
	if updated.UpdBug.CompletedNotes == nil || *updated.UpdBug.CompletedNotes != "all fixed" {
		t.Errorf("completedNotes = %v", updated.UpdBug.CompletedNotes)
	}

	// 关联行原地更新，没有新增
	var count int64
	if err := ta.db.Model(&models.BugStatus{}).Where("bug_id = ?", ta.bug2.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("found %d bug_status rows, want 1", count)
	}

	// 未知状态
	w = ta.do(t, http.MethodPatch, fmt.Sprintf("/api/bugs/%d", ta.bug2.ID), ta.nonDevHeader(t), map[string]any{
		"status": "bogus",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestBugFilterByUser(t *testing.T) {
	ta := newTestApp(t)

	// 非开发者查别人
	w := ta.do(t, http.MethodGet, "/api/bugs/user/user_name1", ta.nonDevHeader(t), nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("code = %d, want 401", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Unauthorized filter request" {
		t.Errorf("error = %q", msg)
	}

	// 开发者随便查
	w = ta.do(t, http.MethodGet, "/api/bugs/user/user_name2", ta.devHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	var body struct {
		UserBugs []bugViewBody `json:"userBugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.UserBugs) != 1 || body.UserBugs[0].BugName != "bug_name2" {
		t.Fatalf("userBugs = %+v", body.UserBugs)
	}
}

func TestBugFilterByApp(t *testing.T) {
	ta := newTestApp(t)

	// 路径里的连字符代表空格
	w := ta.do(t, http.MethodGet, "/api/bugs/app/bug-tracker", ta.devHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	var body struct {
		AppBugs []bugViewBody `json:"appBugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.AppBugs) != 2 {
		t.Fatalf("got %d bugs, want 2", len(body.AppBugs))
	}
}

func TestBugFilterByStatusAndSeverity(t *testing.T) {
	ta := newTestApp(t)

	w := ta.do(t, http.MethodGet, "/api/bugs/status/pending", ta.devHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	var statBody struct {
		StatBugs []bugViewBody `json:"statBugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statBody.StatBugs) != 2 {
		t.Fatalf("got %d pending bugs, want 2", len(statBody.StatBugs))
	}

	// 没有匹配时回空数组
	w = ta.do(t, http.MethodGet, "/api/bugs/status/closed", ta.devHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	decoded := decodeBody(t, w)
	if string(decoded["statBugs"]) != "[]" {
		t.Errorf("empty filter = %s, want []", decoded["statBugs"])
	}

	w = ta.do(t, http.MethodGet, "/api/bugs/severity/pending", ta.nonDevHeader(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	var sevBody struct {
		Bugs []bugViewBody `json:"bugs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sevBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 普通用户的过滤范围仍然只有自己的 bug
	if len(sevBody.Bugs) != 1 || sevBody.Bugs[0].BugPostedBy != "user_name2" {
		t.Fatalf("bugs = %+v", sevBody.Bugs)
	}
}
