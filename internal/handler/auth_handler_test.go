package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/fitlife/internal/auth"
	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/view"
)

// --- モック定義 ---

type mockAuthService struct {
	registerFn     func(ctx context.Context, input auth.RegisterInput) (*model.Session, error)
	authenticateFn func(ctx context.Context, username, password string) (*model.Session, error)
	logoutFn       func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) Register(ctx context.Context, input auth.RegisterInput) (*model.Session, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, input)
	}
	return nil, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*model.Session, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, username, password)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

var _ AuthServiceInterface = (*mockAuthService)(nil)

// mockRenderer はRender呼び出しを記録するスタブ。
type mockRenderer struct {
	status int
	page   string
	data   any
}

func (m *mockRenderer) Render(w http.ResponseWriter, status int, page string, data any) {
	m.status = status
	m.page = page
	m.data = data
	w.WriteHeader(status)
}

var _ Renderer = (*mockRenderer)(nil)

// mockAuthMetrics は認証メトリクスの呼び出し回数を記録するスタブ。
type mockAuthMetrics struct {
	logins       int
	failedLogins int
	regs         int
}

func (m *mockAuthMetrics) RecordLogin()        { m.logins++ }
func (m *mockAuthMetrics) RecordFailedLogin()  { m.failedLogins++ }
func (m *mockAuthMetrics) RecordRegistration() { m.regs++ }

var _ AuthMetrics = (*mockAuthMetrics)(nil)

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		CookieDomain:  "",
		CookieSecure:  false,
		SessionMaxAge: 86400,
	}
}

// postForm はapplication/x-www-form-urlencodedのPOSTリクエストを組み立てる。
func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func testSession() *model.Session {
	return &model.Session{
		ID:     "session-abc",
		UserID: 1,
		User: model.SessionUser{
			ID:        1,
			Username:  "alice",
			Email:     "alice@example.com",
			FirstName: "Alice",
			LastName:  "Smith",
		},
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// --- テスト ---

func TestAuthHandler_Login_Success_SetsCookieAndRedirects(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*model.Session, error) {
			if username != "alice" || password != "secret1" {
				t.Errorf("Authenticate(%q, %q), want (alice, secret1)", username, password)
			}
			return testSession(), nil
		},
	}
	metrics := &mockAuthMetrics{}
	h := NewAuthHandler(svc, &mockRenderer{}, metrics, testAuthConfig())

	req := postForm("/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if location := resp.Header.Get("Location"); location != "/" {
		t.Errorf("Location = %q, want %q", location, "/")
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "session-abc" {
		t.Errorf("cookie value = %q, want %q", cookie.Value, "session-abc")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if cookie.MaxAge != 86400 {
		t.Errorf("cookie MaxAge = %d, want %d", cookie.MaxAge, 86400)
	}
	if metrics.logins != 1 {
		t.Errorf("logins recorded = %d, want 1", metrics.logins)
	}
}

func TestAuthHandler_Login_InvalidCredentials_RendersSameMessage(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*model.Session, error) {
			// ユーザー未登録でもパスワード不一致でもサービスは同じエラーを返す
			return nil, model.NewInvalidCredentialsError()
		},
	}
	renderer := &mockRenderer{}
	metrics := &mockAuthMetrics{}
	h := NewAuthHandler(svc, renderer, metrics, testAuthConfig())

	req := postForm("/auth/login", url.Values{
		"username": {"nobody"},
		"password": {"wrong"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	if renderer.page != "login" {
		t.Errorf("rendered page = %q, want %q", renderer.page, "login")
	}
	data, ok := renderer.data.(view.LoginData)
	if !ok {
		t.Fatalf("data = %T, want view.LoginData", renderer.data)
	}
	if data.Error != "Invalid username or password" {
		t.Errorf("error message = %q, want %q", data.Error, "Invalid username or password")
	}
	if metrics.failedLogins != 1 {
		t.Errorf("failed logins recorded = %d, want 1", metrics.failedLogins)
	}
	if cookie := sessionCookie(w.Result()); cookie != nil {
		t.Error("no session cookie should be set on failed login")
	}
}

func TestAuthHandler_Login_ValidationError_ShowsFirstMessage(t *testing.T) {
	renderer := &mockRenderer{}
	h := NewAuthHandler(&mockAuthService{}, renderer, &mockAuthMetrics{}, testAuthConfig())

	req := postForm("/auth/login", url.Values{
		"password": {"secret1"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	data, ok := renderer.data.(view.LoginData)
	if !ok {
		t.Fatalf("data = %T, want view.LoginData", renderer.data)
	}
	if data.Error != "Username is required" {
		t.Errorf("error message = %q, want %q", data.Error, "Username is required")
	}
}

func TestAuthHandler_Login_ServiceFailure_RendersGenericMessage(t *testing.T) {
	svc := &mockAuthService{
		authenticateFn: func(ctx context.Context, username, password string) (*model.Session, error) {
			return nil, errors.New("db down")
		},
	}
	renderer := &mockRenderer{}
	h := NewAuthHandler(svc, renderer, &mockAuthMetrics{}, testAuthConfig())

	req := postForm("/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	data, ok := renderer.data.(view.LoginData)
	if !ok {
		t.Fatalf("data = %T, want view.LoginData", renderer.data)
	}
	if data.Error != "An error occurred. Please try again." {
		t.Errorf("error message = %q", data.Error)
	}
}

func TestAuthHandler_ShowLogin_LoggedIn_RedirectsHome(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockRenderer{}, &mockAuthMetrics{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	ctx := middleware.ContextWithSessionUser(req.Context(), &model.SessionUser{ID: 1, Username: "alice"})
	w := httptest.NewRecorder()

	h.ShowLogin(w, req.WithContext(ctx))

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if location := resp.Header.Get("Location"); location != "/" {
		t.Errorf("Location = %q, want %q", location, "/")
	}
}

func TestAuthHandler_Register_Success_SetsCookieAndRedirects(t *testing.T) {
	var got auth.RegisterInput
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.Session, error) {
			got = input
			return testSession(), nil
		},
	}
	metrics := &mockAuthMetrics{}
	h := NewAuthHandler(svc, &mockRenderer{}, metrics, testAuthConfig())

	req := postForm("/auth/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
		"first_name":       {"Alice"},
		"last_name":        {"Smith"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("RegisterInput = %+v", got)
	}
	if sessionCookie(resp) == nil {
		t.Fatal("expected session cookie")
	}
	if metrics.regs != 1 {
		t.Errorf("registrations recorded = %d, want 1", metrics.regs)
	}
}

func TestAuthHandler_Register_ValidationErrors_EchoesForm(t *testing.T) {
	renderer := &mockRenderer{}
	h := NewAuthHandler(&mockAuthService{}, renderer, &mockAuthMetrics{}, testAuthConfig())

	// ユーザー名が短すぎ、パスワード確認が不一致
	req := postForm("/auth/register", url.Values{
		"username":         {"ab"},
		"email":            {"alice@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"different"},
		"first_name":       {"Alice"},
		"last_name":        {"Smith"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	data, ok := renderer.data.(view.RegisterData)
	if !ok {
		t.Fatalf("data = %T, want view.RegisterData", renderer.data)
	}
	if len(data.Errors) == 0 {
		t.Fatal("expected validation errors")
	}
	wantMsgs := map[string]bool{
		"Username must be between 3 and 50 characters": false,
		"Passwords do not match":                       false,
	}
	for _, msg := range data.Errors {
		if _, ok := wantMsgs[msg]; ok {
			wantMsgs[msg] = true
		}
	}
	for msg, seen := range wantMsgs {
		if !seen {
			t.Errorf("errors %v should contain %q", data.Errors, msg)
		}
	}
	// 入力値（パスワード以外）がフォームにエコーバックされること
	if data.Form.Username != "ab" || data.Form.Email != "alice@example.com" {
		t.Errorf("form echo = %+v", data.Form)
	}
}

func TestAuthHandler_Register_DuplicateUser_RendersMessage(t *testing.T) {
	svc := &mockAuthService{
		registerFn: func(ctx context.Context, input auth.RegisterInput) (*model.Session, error) {
			return nil, model.NewDuplicateUserError()
		},
	}
	renderer := &mockRenderer{}
	h := NewAuthHandler(svc, renderer, &mockAuthMetrics{}, testAuthConfig())

	req := postForm("/auth/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
		"first_name":       {"Alice"},
		"last_name":        {"Smith"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	data, ok := renderer.data.(view.RegisterData)
	if !ok {
		t.Fatalf("data = %T, want view.RegisterData", renderer.data)
	}
	if len(data.Errors) != 1 || data.Errors[0] != "Username or email already exists" {
		t.Errorf("errors = %v, want [Username or email already exists]", data.Errors)
	}
}

func TestAuthHandler_Logout_ClearsCookieAndRedirects(t *testing.T) {
	var deletedID string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedID = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, &mockRenderer{}, &mockAuthMetrics{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if location := resp.Header.Get("Location"); location != "/auth/login" {
		t.Errorf("Location = %q, want %q", location, "/auth/login")
	}
	if deletedID != "session-abc" {
		t.Errorf("deleted session = %q, want %q", deletedID, "session-abc")
	}

	cookie := sessionCookie(resp)
	if cookie == nil {
		t.Fatal("expected clearing cookie")
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want negative", cookie.MaxAge)
	}
}

func TestAuthHandler_Logout_ServiceFailure_StillRedirects(t *testing.T) {
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			return errors.New("session already gone")
		},
	}
	h := NewAuthHandler(svc, &mockRenderer{}, &mockAuthMetrics{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Result().StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusSeeOther)
	}
}
