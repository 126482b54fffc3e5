// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/fitlife/internal/model"
)

// SessionCookieName はセッショントークンを保持するCookie名。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionUserContextKey はリクエストコンテキストにユーザースナップショットを
// 格納するためのキー。
var sessionUserContextKey = contextKey("session_user")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// resolveSession はCookieからセッションを解決してスナップショットを返す。
// 未認証・期限切れ・検索失敗のいずれもnilを返す（検索失敗はログに残す）。
func resolveSession(r *http.Request, finder SessionFinder) *model.SessionUser {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := finder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to find session",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if session == nil {
		return nil
	}

	user := session.User
	return &user
}

// NewAPISessionMiddleware はAPIルート用のセッションミドルウェアを返す。
// セッションが有効な場合はユーザースナップショットをコンテキストに注入し、
// 未認証リクエストには401とJSONの {"error":"Unauthorized"} を返す。
func NewAPISessionMiddleware(finder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolveSession(r, finder)
			if user == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			ctx := ContextWithSessionUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewPageSessionMiddleware はページルート用のセッションミドルウェアを返す。
// 未認証リクエストはログインページへリダイレクトする。
func NewPageSessionMiddleware(finder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := resolveSession(r, finder)
			if user == nil {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}

			ctx := ContextWithSessionUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewOptionalSessionMiddleware はセッションがあれば注入し、なくても通す
// ミドルウェアを返す。ダッシュボードなど、ゲストにも応答するページ用。
func NewOptionalSessionMiddleware(finder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := resolveSession(r, finder); user != nil {
				r = r.WithContext(ContextWithSessionUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionUserFromContext はリクエストコンテキストからユーザースナップショットを
// 取得する。セッションミドルウェアを通過したリクエストでのみ有効。
func SessionUserFromContext(ctx context.Context) (*model.SessionUser, error) {
	user, ok := ctx.Value(sessionUserContextKey).(*model.SessionUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("session user not found in context")
	}
	return user, nil
}

// ContextWithSessionUser はコンテキストにユーザースナップショットを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithSessionUser(ctx context.Context, user *model.SessionUser) context.Context {
	return context.WithValue(ctx, sessionUserContextKey, user)
}
