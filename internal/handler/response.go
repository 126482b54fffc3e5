// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// apiErrorResponse はJSON APIの統一エラーフォーマット。
type apiErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIError はJSON APIのエラーレスポンスを書き込む。
func writeAPIError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiErrorResponse{Error: message})
}

// handleAPIError は永続化エラーをログに残し、詳細を伏せた500を返す。
// エラーの内部情報（SQL・ドライバメッセージ）はレスポンスに含めない。
func handleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("api request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeAPIError(w, http.StatusInternalServerError, "Database error")
}
