package database

import (
	"io/fs"
	"strings"
	"testing"
)

// TestMigrationsEmbedded はマイグレーションファイルがバイナリに
// 埋め込まれていることを検証する。
func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration file")
	}

	// up/downのペアが揃っていること
	ups := 0
	downs := 0
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups++
		case strings.HasSuffix(name, ".down.sql"):
			downs++
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("migration files should come in up/down pairs, got %d up and %d down", ups, downs)
	}
}

// TestMigrationSchema は初期マイグレーションに必要なテーブルと制約が
// 含まれることを検証する。
func TestMigrationSchema(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_create_users_and_todos.up.sql")
	if err != nil {
		t.Fatalf("failed to read initial migration: %v", err)
	}
	content := string(data)

	wantFragments := []string{
		"CREATE TABLE users",
		"CREATE TABLE todos",
		// メールアドレスの一意性はストアの制約で保証する
		"UNIQUE",
		// 所有者削除時にTodoも削除される
		"ON DELETE CASCADE",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(content, fragment) {
			t.Errorf("initial migration should contain %q", fragment)
		}
	}
}

// TestNewMigrator_InvalidURL は不正な接続URLでエラーが返ることを検証する。
func TestNewMigrator_InvalidURL(t *testing.T) {
	if _, err := NewMigrator("not-a-url"); err == nil {
		t.Error("expected error for invalid database URL, got nil")
	}
}
