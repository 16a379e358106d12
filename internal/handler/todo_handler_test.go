package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
)

// --- モック ---

type mockTodoService struct {
	listFn   func(ctx context.Context, userID string) ([]*model.Todo, error)
	createFn func(ctx context.Context, userID, title, description string) (*model.Todo, error)
	updateFn func(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error)
	deleteFn func(ctx context.Context, userID, todoID string) error
}

func (m *mockTodoService) List(ctx context.Context, userID string) ([]*model.Todo, error) {
	return m.listFn(ctx, userID)
}
func (m *mockTodoService) Create(ctx context.Context, userID, title, description string) (*model.Todo, error) {
	return m.createFn(ctx, userID, title, description)
}
func (m *mockTodoService) Update(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error) {
	return m.updateFn(ctx, userID, todoID, patch)
}
func (m *mockTodoService) Delete(ctx context.Context, userID, todoID string) error {
	return m.deleteFn(ctx, userID, todoID)
}

// authedRequest は認証ミドルウェア通過後と同じコンテキストを持つ
// リクエストを生成する。
func authedRequest(method, target, body, userID string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// withURLParam はchiのURLパラメータをリクエストコンテキストに注入する。
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// --- テスト ---

// TestTodoHandler_List は一覧取得の200レスポンスを検証する。
func TestTodoHandler_List(t *testing.T) {
	now := time.Now()
	svc := &mockTodoService{
		listFn: func(ctx context.Context, userID string) ([]*model.Todo, error) {
			if userID != "user-1" {
				t.Errorf("userID = %q, want %q", userID, "user-1")
			}
			return []*model.Todo{
				{ID: "todo-1", UserID: userID, Title: "牛乳を買う", CreatedAt: now, UpdatedAt: now},
			}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodGet, "/api/todos", "", "user-1")
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(resp))
	}
	if resp[0].Title != "牛乳を買う" {
		t.Errorf("title = %q, want %q", resp[0].Title, "牛乳を買う")
	}
}

// TestTodoHandler_List_Empty はTodoが0件の場合にnullではなく空配列が
// 返ることを検証する。
func TestTodoHandler_List_Empty(t *testing.T) {
	svc := &mockTodoService{
		listFn: func(ctx context.Context, userID string) ([]*model.Todo, error) {
			return []*model.Todo{}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodGet, "/api/todos", "", "user-1")
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want %q", got, "[]")
	}
}

// TestTodoHandler_Create は作成の201レスポンスを検証する。
func TestTodoHandler_Create(t *testing.T) {
	svc := &mockTodoService{
		createFn: func(ctx context.Context, userID, title, description string) (*model.Todo, error) {
			return &model.Todo{
				ID:          "todo-1",
				UserID:      userID,
				Title:       title,
				Description: description,
			}, nil
		},
	}
	h := NewTodoHandler(svc)

	body := `{"title":"牛乳を買う","description":"スーパーで"}`
	req := authedRequest(http.MethodPost, "/api/todos", body, "user-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var resp todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != "todo-1" {
		t.Errorf("id = %q, want %q", resp.ID, "todo-1")
	}
	if resp.Completed {
		t.Error("new todo should not be completed")
	}
	// 所有者IDはレスポンスに含めない
	if strings.Contains(rec.Body.String(), "user_id") {
		t.Error("response should not contain user_id")
	}
}

// TestTodoHandler_Create_EmptyTitle はタイトル空で400が返ることを検証する。
func TestTodoHandler_Create_EmptyTitle(t *testing.T) {
	svc := &mockTodoService{
		createFn: func(ctx context.Context, userID, title, description string) (*model.Todo, error) {
			return nil, model.NewTitleRequiredError()
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPost, "/api/todos", `{"description":"説明のみ"}`, "user-1")
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestTodoHandler_Update は部分更新の200レスポンスを検証する。
// 省略されたフィールドはnilのままサービス層に渡される。
func TestTodoHandler_Update(t *testing.T) {
	svc := &mockTodoService{
		updateFn: func(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error) {
			if todoID != "todo-1" {
				t.Errorf("todoID = %q, want %q", todoID, "todo-1")
			}
			if patch.Completed == nil || !*patch.Completed {
				t.Error("patch.Completed should be true")
			}
			if patch.Title != nil {
				t.Error("patch.Title should be nil for omitted field")
			}
			if patch.Description != nil {
				t.Error("patch.Description should be nil for omitted field")
			}
			return &model.Todo{ID: todoID, UserID: userID, Title: "牛乳を買う", Completed: true}, nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPut, "/api/todos/todo-1", `{"completed":true}`, "user-1")
	req = withURLParam(req, "id", "todo-1")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp todoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Completed {
		t.Error("completed should be true")
	}
}

// TestTodoHandler_Update_NotFound は他ユーザー所有・存在しないTodoの更新で
// 404が返ることを検証する。
func TestTodoHandler_Update_NotFound(t *testing.T) {
	svc := &mockTodoService{
		updateFn: func(ctx context.Context, userID, todoID string, patch *model.TodoPatch) (*model.Todo, error) {
			return nil, model.NewTodoNotFoundError(todoID)
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodPut, "/api/todos/todo-x", `{"completed":true}`, "user-1")
	req = withURLParam(req, "id", "todo-x")
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// TestTodoHandler_Delete は削除の200レスポンスを検証する。
func TestTodoHandler_Delete(t *testing.T) {
	svc := &mockTodoService{
		deleteFn: func(ctx context.Context, userID, todoID string) error {
			if userID != "user-1" || todoID != "todo-1" {
				t.Errorf("Delete(%q, %q), want (%q, %q)", userID, todoID, "user-1", "todo-1")
			}
			return nil
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/todos/todo-1", "", "user-1")
	req = withURLParam(req, "id", "todo-1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["message"] == "" {
		t.Error("expected non-empty message")
	}
}

// TestTodoHandler_Delete_NotFound は存在しないTodoの削除で404が
// 返ることを検証する。
func TestTodoHandler_Delete_NotFound(t *testing.T) {
	svc := &mockTodoService{
		deleteFn: func(ctx context.Context, userID, todoID string) error {
			return model.NewTodoNotFoundError(todoID)
		},
	}
	h := NewTodoHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/todos/todo-x", "", "user-1")
	req = withURLParam(req, "id", "todo-x")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

// TestTodoHandler_Unauthenticated は未認証コンテキストで401が返ることを検証する。
func TestTodoHandler_Unauthenticated(t *testing.T) {
	h := NewTodoHandler(&mockTodoService{})

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
