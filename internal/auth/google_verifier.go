package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// defaultTokenInfoURL はGoogleのIDトークン検証エンドポイント。
// 署名と有効期限の検証はGoogle側で行われる。
const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// allowedIssuers はGoogleがIDトークンのissクレームとして
// 公式に使用する発行者文字列。
var allowedIssuers = []string{
	"accounts.google.com",
	"https://accounts.google.com",
}

// GoogleIdentity はGoogle IDトークンから検証済みで取り出した
// ユーザー情報を表す。
type GoogleIdentity struct {
	GoogleID string // subクレーム
	Email    string
	Name     string
}

// GoogleVerifierConfig はGoogle IDトークン検証の設定。
type GoogleVerifierConfig struct {
	ClientID string

	// テスト用にオーバーライド可能なURL
	TokenInfoURL string
}

// GoogleVerifier はGoogleのtokeninfoエンドポイントに委譲して
// IDトークンを検証する。
type GoogleVerifier struct {
	config GoogleVerifierConfig
}

// NewGoogleVerifier はGoogleVerifierを生成する。
func NewGoogleVerifier(config GoogleVerifierConfig) *GoogleVerifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultTokenInfoURL
	}
	return &GoogleVerifier{config: config}
}

// tokenInfoResponse はtokeninfoエンドポイントのレスポンス。
type tokenInfoResponse struct {
	Aud   string `json:"aud"`
	Iss   string `json:"iss"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// VerifyIDToken はIDトークンを検証し、検証済みのユーザー情報を返す。
// 署名・有効期限の検証に加えて、audが自クライアントID、
// issがGoogleの発行者文字列であることを確認する。
// いずれかの検証に失敗した場合はエラーを返し、失敗理由は呼び出し側に
// 区別させない。リトライは行わない。
func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	reqURL := v.config.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}

	// 署名不正・期限切れはGoogle側で非200となる
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	if info.Aud != v.config.ClientID {
		return nil, fmt.Errorf("token audience mismatch")
	}

	if !isAllowedIssuer(info.Iss) {
		return nil, fmt.Errorf("wrong issuer: %s", info.Iss)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("empty sub in tokeninfo response")
	}

	return &GoogleIdentity{
		GoogleID: info.Sub,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}

// isAllowedIssuer はissクレームがGoogleの発行者文字列かを判定する。
func isAllowedIssuer(iss string) bool {
	for _, allowed := range allowedIssuers {
		if iss == allowed {
			return true
		}
	}
	return false
}

// compile-time interface check
var _ GoogleTokenVerifier = (*GoogleVerifier)(nil)
