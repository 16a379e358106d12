package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// TodoServiceInterface はTodoサービスのインターフェース。
type TodoServiceInterface interface {
	List(ctx context.Context, userID string) ([]*model.Todo, error)
	Create(ctx context.Context, userID, title, description string) (*model.Todo, error)
	Update(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}

// TodoHandler はTodoエンドポイントのハンドラー。
type TodoHandler struct {
	todoService TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(todoService TodoServiceInterface) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// createTodoRequest はTodo作成リクエスト。
type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTodoRequest はTodo部分更新リクエスト。
// 省略されたフィールドは変更しない。
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// todoResponse はレスポンスに含めるTodo情報。
// 所有者IDはトークンから自明なため含めない。
type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTodoResponse(todo *model.Todo) todoResponse {
	return todoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// List はGET /api/todosを処理する。
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	todos, err := h.todoService.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// Todoが0件でもnullではなく空配列を返す
	resp := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		resp = append(resp, newTodoResponse(todo))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create はPOST /api/todosを処理する。
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, model.NewTitleRequiredError())
		return
	}

	todo, err := h.todoService.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newTodoResponse(todo))
}

// Update はPUT /api/todos/{id}を処理する。
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "id")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, model.NewTitleRequiredError())
		return
	}

	patch := &model.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	todo, err := h.todoService.Update(r.Context(), userID, todoID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

// Delete はDELETE /api/todos/{id}を処理する。
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteUnauthorized(w)
		return
	}

	todoID := chi.URLParam(r, "id")

	if err := h.todoService.Delete(r.Context(), userID, todoID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}
