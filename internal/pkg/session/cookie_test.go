package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetAdminCookieAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/admin-auth", nil)

	expires := time.Now().Add(24 * time.Hour)
	SetAdminCookie(c, "tok", expires, true)

	res := w.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != CookieName || ck.Value != "tok" {
		t.Fatalf("unexpected cookie %s=%s", ck.Name, ck.Value)
	}
	if ck.Path != "/admin" {
		t.Fatalf("cookie path = %q, want /admin", ck.Path)
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags wrong: httpOnly=%v secure=%v sameSite=%v", ck.HttpOnly, ck.Secure, ck.SameSite)
	}
	if ck.MaxAge <= 23*60*60 {
		t.Fatalf("max age %d shorter than a day", ck.MaxAge)
	}
}

func TestClearAdminCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/logout", nil)

	ClearAdminCookie(c, false)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Path != CookiePath {
		t.Fatalf("expected a deleting cookie on %s, got %+v", CookiePath, cookies)
	}
}

func TestAdminToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	if _, ok := AdminToken(c); ok {
		t.Fatalf("no cookie should mean no token")
	}

	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})
	token, ok := AdminToken(c)
	if !ok || token != "abc" {
		t.Fatalf("AdminToken = %q, %v", token, ok)
	}
}
