package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/vishnupprajapat/nextfast/internal/domain/admin"
	"github.com/vishnupprajapat/nextfast/internal/domain/product"
	"github.com/vishnupprajapat/nextfast/internal/middleware"
	"github.com/vishnupprajapat/nextfast/internal/pkg/session"
	authUsecase "github.com/vishnupprajapat/nextfast/internal/service/auth"
	"github.com/vishnupprajapat/nextfast/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth knows one admin, root/secret, whose session token is "tok".
type fakeAuth struct {
	signInErr error
	signIns   int
}

func (f *fakeAuth) SignIn(_ context.Context, req *admin.LoginRequest) (*admin.LoginResult, error) {
	f.signIns++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if req.Username == "" || req.Password == "" {
		return nil, authUsecase.ErrMissingCredentials
	}
	if req.Username != "root" || req.Password != "secret" {
		return nil, authUsecase.ErrInvalidCredentials
	}
	return &admin.LoginResult{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		Admin:     admin.AdminInfo{ID: 1, Username: "root"},
	}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*authUsecase.Authenticated, error) {
	if token != "tok" {
		return nil, authUsecase.ErrInvalidToken
	}
	return &authUsecase.Authenticated{AdminID: 1, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuth) Resolve(_ context.Context, a *authUsecase.Authenticated) (*authUsecase.ResolvedAdmin, error) {
	return &authUsecase.ResolvedAdmin{Authenticated: *a, Admin: &admin.Admin{ID: a.AdminID, Username: "root"}}, nil
}

type fakeCounts struct{}

func (fakeCounts) Counts(context.Context) (*product.StatusCounts, error) {
	return &product.StatusCounts{Total: 3, InStock: 1, LowStock: 1, OutOfStock: 1}, nil
}

type recordingCloser struct {
	closed []int64
}

func (r *recordingCloser) DisconnectAdmin(adminID int64, _ string) {
	r.closed = append(r.closed, adminID)
}

func newTestRouter(t *testing.T, svc *fakeAuth, closer *recordingCloser) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	h := NewAuthHandler(svc, fakeCounts{}, closer, false, zap.NewNop())
	m := middleware.NewAuthMiddleware(svc, false, zap.NewNop())

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	g := r.Group("/admin", m.AdminGate())
	g.GET("/admin-auth", h.LoginPage)
	g.POST("/admin-auth", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/", h.Home)
	g.GET("/dashboard", m.RequireAdmin(), h.Dashboard)
	return r
}

func postLogin(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/admin-auth", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccessSetsCookieAndRedirects(t *testing.T) {
	r := newTestRouter(t, &fakeAuth{}, &recordingCloser{})

	w := postLogin(r, "root", "secret")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("location = %q", loc)
	}
	c := sessionCookie(w)
	if c == nil || c.Value != "tok" {
		t.Fatalf("session cookie = %+v", c)
	}
	if !c.HttpOnly || c.Path != session.CookiePath {
		t.Fatalf("cookie attributes = %+v", c)
	}
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		signInErr error
		status    int
		message   string
	}{
		{"missing password", "root", "", nil, http.StatusBadRequest, msgMissingCredentials},
		{"wrong password", "root", "nope", nil, http.StatusUnauthorized, msgInvalidCredentials},
		{"unknown user", "ghost", "secret", nil, http.StatusUnauthorized, msgInvalidCredentials},
		{"rate limited", "root", "secret", authUsecase.ErrRateLimited, http.StatusTooManyRequests, msgRateLimited},
		{"store down", "root", "secret", errors.New("connection refused"), http.StatusInternalServerError, msgSignInFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeAuth{signInErr: tt.signInErr}, &recordingCloser{})

			w := postLogin(r, tt.username, tt.password)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.Contains(w.Body.String(), tt.message) {
				t.Fatalf("body does not contain %q", tt.message)
			}
			if strings.Contains(w.Body.String(), "connection refused") {
				t.Fatalf("internal error leaked to the page")
			}
			if c := sessionCookie(w); c != nil && c.Value != "" {
				t.Fatalf("failed login set a session cookie")
			}
		})
	}
}

func TestLoginRejectsBlankFieldsBeforeSignIn(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "secret"},
		{"missing password", "root", ""},
		{"both missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuth{}
			r := newTestRouter(t, svc, &recordingCloser{})

			w := postLogin(r, tt.username, tt.password)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), msgMissingCredentials) {
				t.Fatalf("body does not contain %q", msgMissingCredentials)
			}
			if svc.signIns != 0 {
				t.Fatalf("sign in called %d times for an incomplete form", svc.signIns)
			}
		})
	}
}

func TestFailedLoginLeavesDashboardLocked(t *testing.T) {
	r := newTestRouter(t, &fakeAuth{}, &recordingCloser{})

	w := postLogin(r, "root", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusFound || w.Header().Get("Location") != middleware.LoginPath {
		t.Fatalf("dashboard = %d %q, want redirect to login", w.Code, w.Header().Get("Location"))
	}
}

func TestDashboardRendersCounts(t *testing.T) {
	r := newTestRouter(t, &fakeAuth{}, &recordingCloser{})

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "root") || !strings.Contains(body, `id="total"`) {
		t.Fatalf("dashboard body missing admin or counters")
	}
}

func TestHomeRedirectsToDashboard(t *testing.T) {
	r := newTestRouter(t, &fakeAuth{}, &recordingCloser{})

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("home = %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogoutClearsCookieAndClosesFeeds(t *testing.T) {
	closer := &recordingCloser{}
	r := newTestRouter(t, &fakeAuth{}, closer)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != middleware.LoginPath {
		t.Fatalf("logout = %d %q", w.Code, w.Header().Get("Location"))
	}
	c := sessionCookie(w)
	if c == nil || c.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", c)
	}
	if len(closer.closed) != 1 || closer.closed[0] != 1 {
		t.Fatalf("closed = %v", closer.closed)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	closer := &recordingCloser{}
	r := newTestRouter(t, &fakeAuth{}, closer)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if len(closer.closed) != 0 {
		t.Fatalf("closed = %v", closer.closed)
	}
}
