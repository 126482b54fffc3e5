// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ユーザーにそのまま表示できるメッセージと原因カテゴリを含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は入力検証エラーを生成する。
// msgには最初に違反したルールのメッセージをそのまま渡す。
func NewValidationError(msg string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  msg,
		Category: "validation",
	}
}

// NewDuplicateUserError は登録時の重複エラーを生成する。
// 事前チェックでの検出も、INSERT時の一意制約違反（良性の競合）も、
// 同一のこのエラーとして報告する。
func NewDuplicateUserError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  "Username or email already exists",
		Category: "conflict",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名不一致とパスワード不一致のどちらでも常に同一のメッセージを返し、
// どちらが誤っていたかを漏らさない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid username or password",
		Category: "auth",
	}
}

// NewUnauthorizedError は未認証アクセスのエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
	}
}
