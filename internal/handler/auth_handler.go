package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/fitlife/internal/auth"
	"github.com/hitoshi/fitlife/internal/middleware"
	"github.com/hitoshi/fitlife/internal/model"
	"github.com/hitoshi/fitlife/internal/view"
)

// Renderer はページレンダリングのインターフェース。
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any)
}

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Register は新規ユーザーを登録し、セッションを発行する。
	Register(ctx context.Context, input auth.RegisterInput) (*model.Session, error)
	// Authenticate はユーザー名とパスワードで認証し、セッションを発行する。
	Authenticate(ctx context.Context, username, password string) (*model.Session, error)
	// Logout はセッションを破棄する。
	Logout(ctx context.Context, sessionID string) error
}

// AuthMetrics は認証ハンドラーが記録するメトリクスのインターフェース。
type AuthMetrics interface {
	RecordLogin()
	RecordFailedLogin()
	RecordRegistration()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はフォームログイン・登録・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer Renderer
	metrics  AuthMetrics
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer Renderer, metrics AuthMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		metrics:  metrics,
		config:   config,
	}
}

// --- フォーム入力 ---

// loginForm はログインフォームの入力。
type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// loginMessages はログインフォームの検証メッセージ。
var loginMessages = map[string]string{
	"Username.required": "Username is required",
	"Password.required": "Password is required",
}

// registerForm は登録フォームの入力。
type registerForm struct {
	Username        string `validate:"required,min=3,max=50,alphanum"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	FirstName       string `validate:"required,alpha"`
	LastName        string `validate:"required,alpha"`
}

// registerMessages は登録フォームの検証メッセージ。
var registerMessages = map[string]string{
	"Username.required":        "Username must be between 3 and 50 characters",
	"Username.min":             "Username must be between 3 and 50 characters",
	"Username.max":             "Username must be between 3 and 50 characters",
	"Username.alphanum":        "Username must contain only letters and numbers",
	"Email.required":           "Please enter a valid email address",
	"Email.email":              "Please enter a valid email address",
	"Password.required":        "Password must be at least 6 characters long",
	"Password.min":             "Password must be at least 6 characters long",
	"ConfirmPassword.required": "Passwords do not match",
	"ConfirmPassword.eqfield":  "Passwords do not match",
	"FirstName.required":       "First name is required",
	"FirstName.alpha":          "First name must contain only letters",
	"LastName.required":        "Last name is required",
	"LastName.alpha":           "Last name must contain only letters",
}

// ShowLogin はログインページを表示する。ログイン済みの場合はホームへ戻す。
// GET /auth/login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if user, err := middleware.SessionUserFromContext(r.Context()); err == nil && user != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "login", view.LoginData{
		Base: view.Base{Title: "Login - FitLife Tracker"},
	})
}

// Login はログインフォームを処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, "An error occurred. Please try again.")
		return
	}

	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := validate.Struct(form); err != nil {
		// 最初に違反したルールのメッセージのみを表示する
		h.renderLoginError(w, validationMessages(err, loginMessages)[0])
		return
	}

	session, err := h.service.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeInvalidCredentials {
			// ユーザー名不一致とパスワード不一致を区別しないメッセージ
			h.metrics.RecordFailedLogin()
			h.renderLoginError(w, apiErr.Message)
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		h.renderLoginError(w, "An error occurred. Please try again.")
		return
	}

	h.metrics.RecordLogin()
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowRegister は登録ページを表示する。ログイン済みの場合はホームへ戻す。
// GET /auth/register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if user, err := middleware.SessionUserFromContext(r.Context()); err == nil && user != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "register", view.RegisterData{
		Base: view.Base{Title: "Register - FitLife Tracker"},
	})
}

// Register は登録フォームを処理する。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegisterErrors(w, []string{"An error occurred. Please try again."}, view.RegisterForm{})
		return
	}

	form := registerForm{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
	}
	echo := view.RegisterForm{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}

	if err := validate.Struct(form); err != nil {
		h.renderRegisterErrors(w, validationMessages(err, registerMessages), echo)
		return
	}

	session, err := h.service.Register(r.Context(), auth.RegisterInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeDuplicateUser {
			h.renderRegisterErrors(w, []string{apiErr.Message}, echo)
			return
		}
		slog.Error("registration failed", slog.String("error", err.Error()))
		h.renderRegisterErrors(w, []string{"An error occurred. Please try again."}, echo)
		return
	}

	h.metrics.RecordRegistration()
	h.setSessionCookie(w, session.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout はセッションを破棄してログインページへ戻す。
// GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			// セッションが既に消えていてもログアウト自体は成功扱い
			slog.Warn("failed to delete session", slog.String("error", err.Error()))
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, msg string) {
	h.renderer.Render(w, http.StatusOK, "login", view.LoginData{
		Base:  view.Base{Title: "Login - FitLife Tracker"},
		Error: msg,
	})
}

func (h *AuthHandler) renderRegisterErrors(w http.ResponseWriter, msgs []string, form view.RegisterForm) {
	h.renderer.Render(w, http.StatusOK, "register", view.RegisterData{
		Base:   view.Base{Title: "Register - FitLife Tracker"},
		Errors: msgs,
		Form:   form,
	})
}

// setSessionCookie はセッショントークンをHTTP Only Cookieに設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを削除する。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
