package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/db"
)

// setupAuthRouter 组装带会话中间件的引擎，会话依赖中间件，
// 不能用 CreateTestContext 单独调用处理函数。
func setupAuthRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()

	api, cleanup := setupTestDB(t)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("weightlog_session", store))
	r.POST("/login", Login)
	r.POST("/logout", Logout)

	auth := r.Group("/api", AuthRequired())
	auth.GET("/records", api.ListRecords)

	return r, cleanup
}

func performLogin(t *testing.T, r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRoundTrip(t *testing.T) {
	r, cleanup := setupAuthRouter(t)
	defer cleanup()

	if err := db.EnsureUser("admin", "secret"); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	// 密码错误不建立会话
	w := performLogin(t, r, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad password, got %d", w.Code)
	}

	w = performLogin(t, r, "admin", "secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	loginCookies := w.Result().Cookies()
	if len(loginCookies) == 0 {
		t.Fatal("expected session cookie after login")
	}

	// 无会话访问被拒绝
	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without session, got %d", w.Code)
	}

	// 携带会话访问放行
	req = httptest.NewRequest(http.MethodGet, "/api/records", nil)
	for _, c := range loginCookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 with session, got %d", w.Code)
	}

	// 登出后会话失效
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range loginCookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for logout, got %d", w.Code)
	}
	logoutCookies := w.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/api/records", nil)
	for _, c := range logoutCookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 after logout, got %d", w.Code)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	r, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performLogin(t, r, "nobody", "secret")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for unknown user, got %d", w.Code)
	}
}
