package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/model"
)

// AuthServiceInterface は認証サービスのインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, email, name, password string) (*auth.Result, error)
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	GoogleLogin(ctx context.Context, idToken string) (*auth.Result, error)
}

// AuthHandler は認証エンドポイントのハンドラー。
type AuthHandler struct {
	authService AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(authService AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// registerRequest はユーザー登録リクエスト。
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginRequest はログインリクエスト。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// googleAuthRequest はGoogle認証リクエスト。
type googleAuthRequest struct {
	Token string `json:"token"`
}

// userResponse はレスポンスに含めるユーザー情報。
// パスワードハッシュ等の内部フィールドは含めない。
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// authResponse は認証成功レスポンス。
type authResponse struct {
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

func newAuthResponse(result *auth.Result) authResponse {
	return authResponse{
		AccessToken: result.AccessToken,
		User:        newUserResponse(result.User),
	}
}

func newUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// Register はPOST /api/registerを処理する。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, model.NewMissingFieldsError())
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAuthResponse(result))
}

// Login はPOST /api/loginを処理する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, model.NewInvalidCredentialsError())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}

// GoogleAuth はPOST /api/google-authを処理する。
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	var req googleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		handleServiceError(w, model.NewGoogleAuthFailedError())
		return
	}

	result, err := h.authService.GoogleLogin(r.Context(), req.Token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(result))
}
