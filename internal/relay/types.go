package relay

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nao1215/authrelay/internal/config"
)

var validate = validator.New()

// Mode は中継する認証フローの種別。
type Mode string

const (
	// ModeLogin はクライアント認証情報によるログイン。
	ModeLogin Mode = "login"
	// ModeRefresh はリフレッシュトークンによるアクセストークン更新。
	ModeRefresh Mode = "refresh"
)

// ParseMode はクエリパラメータ type の値をModeに変換する。
// "refresh" 以外（未指定を含む）はすべてログインとして扱う。
func ParseMode(s string) Mode {
	if s == string(ModeRefresh) {
		return ModeRefresh
	}
	return ModeLogin
}

// RefreshRequest はトークン更新時にフロントエンドから受け取るリクエストボディ。
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	AuthToken    string `json:"auth_token" binding:"required"`
}

// loginBody は上流のログインエンドポイントに送るボディ。
type loginBody struct {
	config.Credentials
}

// refreshBody は上流のトークン更新エンドポイントに送るボディ。
type refreshBody struct {
	config.Credentials
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

// AuthToken は上流の認証APIが返すトークン。
// 有効期限は上流の数値表現（3600, 3600.0, "3600"）をそのまま保持する。
type AuthToken struct {
	AccessToken      string      `json:"access_token" validate:"required"`
	RefreshToken     string      `json:"refresh_token"`
	ExpiresIn        json.Number `json:"expires_in"`
	RefreshExpiresIn json.Number `json:"refresh_expires_in"`
}

// Validate は上流のレスポンスにアクセストークンが含まれているかを検証する。
func (t AuthToken) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("上流のレスポンスにaccess_tokenが含まれていません: %w", err)
	}
	return nil
}

// PublicToken はフロントエンドに返してよいトークン情報。
type PublicToken struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// Sanitize はリフレッシュ系のフィールドを除いたトークンを返す。
func (t AuthToken) Sanitize() PublicToken {
	return PublicToken{
		AccessToken: t.AccessToken,
		ExpiresIn:   t.ExpiresIn,
	}
}

// AuthReturnType はリレーが返すレスポンスのエンベロープ。
// Successがtrueの場合Dataは PublicToken、falseの場合はエラーメッセージ文字列。
type AuthReturnType struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// レスポンスメッセージ。
const (
	msgMethodNotAllowed    = "Method Not Allowed"
	msgMissingCredentials  = "Missing EKA credentials in environment variables"
	msgMissingRefreshToken = "Missing refresh or access token in request body"
	msgAuthFailed          = "Auth failed"
	msgUpstreamTimeout     = "Upstream request timed out"
	msgBodyTooLarge        = "Request Entity Too Large"
)

func failure(msg string) AuthReturnType {
	return AuthReturnType{Success: false, Data: msg}
}

func success(token PublicToken) AuthReturnType {
	return AuthReturnType{Success: true, Data: token}
}
