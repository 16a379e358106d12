// Package auth はユーザー登録・ログイン・Google認証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/repository"
)

// GoogleTokenVerifier はGoogle IDトークン検証のインターフェース。
type GoogleTokenVerifier interface {
	// VerifyIDToken はIDトークンを検証し、検証済みのユーザー情報を返す。
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// TokenIssuer はアクセストークン発行のインターフェース。
// token.Issuerの部分集合として定義する。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Result は認証成功時のレスポンスを表す。
type Result struct {
	AccessToken string
	User        *model.User
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	verifier GoogleTokenVerifier
	issuer   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, verifier GoogleTokenVerifier, issuer TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
	}
}

// Register はローカルパスワードでユーザーを新規登録し、トークンを発行する。
// いずれかのフィールドが空の場合はValidationエラー、
// メールアドレスが登録済みの場合はConflictエラーを返す。
// 登録時にメール通知は送らない。
func (s *Service) Register(ctx context.Context, email, name, password string) (*Result, error) {
	if email == "" || name == "" || password == "" {
		return nil, model.NewMissingFieldsError()
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェックとINSERTの間の競合はストアの一意制約で捕捉する
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueResult(user)
}

// Login はメールアドレスとパスワードでログインし、トークンを発行する。
// ユーザー不在・パスワードハッシュ不在（Google認証のみのアカウント）・
// パスワード不一致はすべて同一の汎用Authエラーに収束させ、
// エラー内容からのユーザー列挙を防ぐ。
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return s.issueResult(user)
}

// GoogleLogin はGoogle IDトークンでログインし、トークンを発行する。
// 初回ログイン時は検証済みのメールアドレスと名前でパスワードなしの
// ユーザーを自動作成する。検証済みメールアドレスが既存のローカル
// パスワードアカウントと衝突する場合は、暗黙のアカウント連携は行わず
// Conflictエラーで明示的に拒否する。
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*Result, error) {
	identity, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		slog.Warn("google token verification failed", slog.String("error", err.Error()))
		return nil, model.NewGoogleAuthFailedError()
	}

	user, err := s.userRepo.FindByGoogleID(ctx, identity.GoogleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by google ID: %w", err)
	}

	if user == nil {
		now := time.Now()
		user = &model.User{
			ID:        uuid.New().String(),
			Email:     identity.Email,
			Name:      identity.Name,
			GoogleID:  identity.GoogleID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, model.NewEmailTakenError()
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new user created via google auth",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
	}

	return s.issueResult(user)
}

// CurrentUser はトークンのsubjectからユーザーを解決する。
// 解決できない場合はNotFoundエラーを返す。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// issueResult はユーザーに対してトークンを発行しResultを組み立てる。
func (s *Service) issueResult(user *model.User) (*Result, error) {
	accessToken, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &Result{AccessToken: accessToken, User: user}, nil
}
