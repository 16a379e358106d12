package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string

	// メトリクス（nilの場合は収集と/metricsの公開を行わない）
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// サービス
	AuthService AuthServiceInterface
	TodoService TodoServiceInterface
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → Metrics
//
// 認証ルート（/api/register等）と/healthは認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	authHandler := NewAuthHandler(deps.AuthService)
	todoHandler := NewTodoHandler(deps.TodoService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// ヘルスチェック（プロセス生存確認のみ）
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/google-auth", authHandler.GoogleAuth)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenValidator))

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", todoHandler.List)
				r.Post("/", todoHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", todoHandler.Update)
					r.Delete("/", todoHandler.Delete)
				})
			})

			r.Get("/user", userHandler.Me)
		})
	})

	return r
}
