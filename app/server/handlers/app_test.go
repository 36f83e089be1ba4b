package handlers

import (
	"bug-tracker/app/server/inits"
	"bug-tracker/app/server/jwt"
	"bug-tracker/app/server/models"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSignKey  = "test-signature-secret-key"
	testPassword = "password123"
)

type testApp struct {
	app *App
	e   *echo.Echo
	db  *gorm.DB
	jwt *jwt.JWT

	bug1 *models.Bug // user_name1 的 bug
	bug2 *models.Bug // user_name2 的 bug
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := inits.Mig(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := inits.InitData(db); err != nil {
		t.Fatalf("seed init data: %v", err)
	}

	j, err := jwt.New(testSignKey)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	a := NewApp(zap.NewNop(), db, j)
	e := echo.New()
	a.Register(e)

	ta := &testApp{app: a, e: e, db: db, jwt: j}
	ta.seed(t)
	return ta
}

// 测试数据：一个开发者、两个普通用户、各自的 bug 与评论。
// 评论 id 从 1 开始依次递增，id 2 是 user_name2 在 bug_name2 下的评论
func (ta *testApp) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	hash, err := argon2id.CreateHash(testPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	for _, user := range []*models.User{
		{UserName: "user_name1", Email: "u1@example.com", IsDev: true, Password: hash},
		{UserName: "user_name2", Email: "u2@example.com", Password: hash},
		{UserName: "user_name3", Email: "u3@example.com", Password: hash},
	} {
		if err := ta.app.users.Create(ctx, user); err != nil {
			t.Fatalf("seed user %s: %v", user.UserName, err)
		}
	}

	ta.bug1 = &models.Bug{UserName: "user_name1", BugName: "bug_name1", Description: "desc1"}
	ta.bug2 = &models.Bug{UserName: "user_name2", BugName: "bug_name2", Description: "desc2"}
	for _, bug := range []*models.Bug{ta.bug1, ta.bug2} {
		if err := ta.app.bugs.CreateWithLinkages(ctx, bug, "bug tracker"); err != nil {
			t.Fatalf("seed bug %s: %v", bug.BugName, err)
		}
	}

	for _, comment := range []*models.Comment{
		{BugID: ta.bug1.ID, UserName: "user_name1", Comment: "comment1"},
		{BugID: ta.bug2.ID, UserName: "user_name2", Comment: "comment2"},
		{BugID: ta.bug1.ID, UserName: "user_name1", Comment: "comment3"},
	} {
		if err := ta.app.comments.Create(ctx, comment); err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}
}

func (ta *testApp) authHeader(t *testing.T, userName string, dev bool) string {
	t.Helper()
	token, err := ta.jwt.SignToken(&jwt.User{
		UserName: userName,
		IsDev:    dev,
		Expires:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func (ta *testApp) devHeader(t *testing.T) string {
	return ta.authHeader(t, "user_name1", true)
}

func (ta *testApp) nonDevHeader(t *testing.T) string {
	return ta.authHeader(t, "user_name2", false)
}

func (ta *testApp) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}

	w := httptest.NewRecorder()
	ta.e.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return decoded
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return decoded.Error
}
