// Package token はステートレスなベアラートークンの発行と検証を提供する。
//
// トークンはHS256署名のJWTで、subjectにユーザーIDを持つ。
// サーバー側にセッション状態は持たず、有効性は署名と有効期限のみで決まる。
// リフレッシュ機構と失効リストは持たない。漏洩したトークンは
// 自然期限まで有効である（仕様上の既知の制約）。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer はトークンの発行と検証を行う。
// 署名鍵はプロセス起動時に1回読み込み、ローテーションは行わない。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	// now はテストで時刻を固定するためのフック。
	now func() time.Time
}

// NewIssuer はIssuerを生成する。ttlは発行するトークンの有効期間。
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue は指定ユーザーIDをsubjectとする署名付きトークンを発行する。
// 有効期限は発行時刻 + TTLの絶対時刻。
func (i *Issuer) Issue(userID string) (string, error) {
	now := i.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate はトークンを検証し、subjectのユーザーIDを返す。
// 署名不正・形式不正・期限切れのいずれもエラーとなり、種別は区別しない。
func (i *Issuer) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("token is invalid")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, nil
}
