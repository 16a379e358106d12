package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// UserServiceInterface は現在ユーザー解決のインターフェース。
type UserServiceInterface interface {
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

// UserHandler はユーザー情報エンドポイントのハンドラー。
type UserHandler struct {
	userService UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me はGET /api/userを処理する。
// トークンのsubjectに対応するユーザーのプロフィールを返す。
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	user, err := h.userService.CurrentUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
