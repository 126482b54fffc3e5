// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はフォームから受け取った自由入力テキストを
// サニタイズし、マークアップ・スクリプト注入からユーザーを保護する。
// SQLインジェクションはパラメータバインディングが防ぐが、保存データが
// 後でビューに表示される際のXSSはこのサニタイズが防ぐ。両方を常に適用する。
package security

import "github.com/microcosm-cc/bluemonday"

// InputSanitizerService は自由入力テキストのサニタイズ機能のインターフェース。
// 運動名・食事名・メモ・検索キーワード等の保存前に使用される。
type InputSanitizerService interface {
	// Sanitize は入力からすべてのHTMLタグとスクリプトを除去したテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは一切のタグを許可しないため、テキストのみが通過する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からすべてのHTMLタグとスクリプトを除去したテキストを返す。
func (s *inputSanitizer) Sanitize(input string) string {
	return s.policy.Sanitize(input)
}
