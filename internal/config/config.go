package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 環境変数名。
const (
	EnvClientID        = "EKA_CLIENT_ID"
	EnvClientSecret    = "EKA_CLIENT_SECRET"
	EnvAPIKey          = "EKA_API_KEY"
	EnvBaseURL         = "EKA_BASE_URL"
	EnvUpstreamTimeout = "UPSTREAM_TIMEOUT"
	EnvCORSAllowOrigin = "CORS_ALLOW_ORIGIN"
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvConfigFile      = "RELAY_CONFIG_FILE"
	EnvMaxBodyBytes    = "MAX_BODY_BYTES"
)

// 既定値。
const (
	DefaultPort            = "8080"
	DefaultBaseURL         = "https://api.eka.care/connect-auth/v1"
	DefaultLoginPath       = "/account/login"
	DefaultRefreshPath     = "/account/refresh"
	DefaultUpstreamTimeout = 30 * time.Second
	DefaultCORSAllowOrigin = "*"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultMaxBodyBytes    = 100 * 1024
)

var validate = validator.New()

// Credentials はEKA認証APIに送るクライアント認証情報。
// 3項目すべてが空でない場合のみ上流へのリクエストを許可する。
type Credentials struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	APIKey       string `json:"api_key" validate:"required"`
}

// Validate は認証情報が揃っているかを検証する。
func (c Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("EKA認証情報が不足しています: %w", err)
	}
	return nil
}

// Upstream は上流の認証APIへの接続設定。
type Upstream struct {
	// BaseURL は認証APIのベースURL。
	BaseURL string `yaml:"base_url" validate:"required,url"`
	// LoginPath はログインエンドポイントのパス。
	LoginPath string `yaml:"login_path" validate:"required,startswith=/"`
	// RefreshPath はトークン更新エンドポイントのパス。
	RefreshPath string `yaml:"refresh_path" validate:"required,startswith=/"`
	// Timeout は上流1リクエストあたりのタイムアウト。
	Timeout time.Duration `yaml:"-" validate:"gt=0"`
}

// Log はロガーの設定。
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// Config はリレーサービス全体の設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string `yaml:"port" validate:"required,numeric"`
	// CORSAllowOrigin はAccess-Control-Allow-Originに設定する値。
	CORSAllowOrigin string `yaml:"cors_allow_origin" validate:"required"`
	// MaxBodyBytes はリレーが受け付けるリクエストボディの上限バイト数。
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gt=0"`
	// Upstream は上流APIの接続設定。
	Upstream Upstream `yaml:"upstream"`
	// Log はロガー設定。
	Log Log `yaml:"log"`
	// Credentials は環境変数から読み込んだEKA認証情報。YAMLからは読まない。
	Credentials Credentials `yaml:"-" validate:"-"`
}

// fileConfig はYAMLファイル上の表現。タイムアウトは "10s" のような文字列で書く。
type fileConfig struct {
	Config          `yaml:",inline"`
	UpstreamTimeout string `yaml:"upstream_timeout"`
}

// Default は既定値で埋めたConfigを返す。
func Default() Config {
	return Config{
		Port:            DefaultPort,
		CORSAllowOrigin: DefaultCORSAllowOrigin,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		Upstream: Upstream{
			BaseURL:     DefaultBaseURL,
			LoginPath:   DefaultLoginPath,
			RefreshPath: DefaultRefreshPath,
			Timeout:     DefaultUpstreamTimeout,
		},
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load はプロセスの環境変数から設定を読み込む。
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom はgetenvで与えられた環境から設定を読み込む。
// RELAY_CONFIG_FILE が指定されていればYAMLファイルを先に適用し、
// その後に環境変数で上書きする。
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		if cfg, err = parseYAML(cfg, data); err != nil {
			return Config{}, err
		}
	}

	overrideString(&cfg.Port, getenv(EnvPort))
	overrideString(&cfg.CORSAllowOrigin, getenv(EnvCORSAllowOrigin))
	overrideString(&cfg.Upstream.BaseURL, getenv(EnvBaseURL))
	overrideString(&cfg.Log.Level, getenv(EnvLogLevel))
	overrideString(&cfg.Log.Format, getenv(EnvLogFormat))

	if v := getenv(EnvUpstreamTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sの解析に失敗: %w", EnvUpstreamTimeout, err)
		}
		cfg.Upstream.Timeout = d
	}

	if v := getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%sの解析に失敗: %w", EnvMaxBodyBytes, err)
		}
		cfg.MaxBodyBytes = n
	}

	cfg.Credentials = Credentials{
		ClientID:     getenv(EnvClientID),
		ClientSecret: getenv(EnvClientSecret),
		APIKey:       getenv(EnvAPIKey),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は認証情報以外の設定値を検証する。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("設定値が不正です: %s (%s)", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("設定値が不正です: %w", err)
	}
	return nil
}

// parseYAML はYAMLの内容をbaseに重ねて返す。
func parseYAML(base Config, data []byte) (Config, error) {
	fc := fileConfig{Config: base}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("設定ファイルのパースに失敗: %w", err)
	}
	if fc.UpstreamTimeout != "" {
		d, err := time.ParseDuration(fc.UpstreamTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("upstream_timeoutの解析に失敗: %w", err)
		}
		fc.Config.Upstream.Timeout = d
	}
	return fc.Config, nil
}

// overrideString はvが空でなければdstを上書きする。
func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
