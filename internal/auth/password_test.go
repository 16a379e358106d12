package auth

import (
	"strings"
	"testing"
)

// TestHashPassword_VerifyRoundTrip は生成したハッシュで元のパスワードが
// 検証できることを確認する。
func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "secret-password" {
		t.Error("hash should not equal the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash should be in bcrypt format, got %q", hash)
	}

	if !VerifyPassword("secret-password", hash) {
		t.Error("VerifyPassword should succeed for correct password")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Error("VerifyPassword should fail for wrong password")
	}
}

// TestHashPassword_Salted は同じパスワードでも毎回異なるハッシュに
// なることを確認する。
func TestHashPassword_Salted(t *testing.T) {
	hash1, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	hash2, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("two hashes of the same password should differ (salt)")
	}
}

// TestVerifyPassword_EmptyStoredHash はGoogle認証のみのアカウント
// （パスワードハッシュ不在）に対する検証が必ず失敗することを確認する。
func TestVerifyPassword_EmptyStoredHash(t *testing.T) {
	if VerifyPassword("anything", "") {
		t.Error("VerifyPassword should always fail for empty stored hash")
	}
	if VerifyPassword("", "") {
		t.Error("VerifyPassword should fail even for empty password and empty hash")
	}
}
