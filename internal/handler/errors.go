// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// 分類済みエラー（APIError）以外はすべて内部情報を漏らさない500として扱う。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapErrorKindToHTTPStatus(apiErr.Kind), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapErrorKindToHTTPStatus はエラー分類からHTTPステータスコードにマッピングする。
func mapErrorKindToHTTPStatus(kind model.ErrorKind) int {
	switch kind {
	case model.ErrorKindValidation:
		return http.StatusBadRequest
	case model.ErrorKindConflict:
		return http.StatusConflict
	case model.ErrorKindAuth:
		return http.StatusUnauthorized
	case model.ErrorKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
