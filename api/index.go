// Package handler はVercelのGoランタイム向けのエントリポイント。
//
// コールドスタート時に一度だけ設定とルーターを組み立て、
// 以降のリクエストはすべて同じルーターに委譲する。
package handler

import (
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/authrelay/internal/config"
	"github.com/nao1215/authrelay/internal/relay"
	"github.com/nao1215/authrelay/pkg/logging"
	"github.com/nao1215/authrelay/pkg/middleware"
)

// msgMisconfigured は設定の読み込みに失敗した場合に返すメッセージ。
const msgMisconfigured = "relay is misconfigured"

var (
	once   sync.Once
	router http.Handler
)

// build はgetenvで与えられた環境からルーターを組み立てる。
// 設定やロガーの初期化に失敗した場合は、プリフライトにだけ応答し
// それ以外を500で返すルーターを返す。
func build(getenv func(string) string) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.LoadFrom(getenv)
	if err != nil {
		return misconfigured(getenv, err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: logging.Format(cfg.Log.Format)})
	if err != nil {
		return misconfigured(getenv, err)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		logger.Warn("EKA認証情報が揃っていません。リクエストは400で拒否されます", zap.Error(err))
	}
	return relay.NewServer(cfg, logger).Handler()
}

// misconfigured は設定エラー時のルーターを返す。
// CORSヘッダーは常に付け、OPTIONSには200で応答する。
func misconfigured(getenv func(string) string, cause error) http.Handler {
	if logger, err := logging.New(logging.Config{}); err == nil {
		logger.Error("リレーの初期化に失敗", zap.Error(cause))
	}

	r := gin.New()
	r.Use(middleware.CORS(getenv(config.EnvCORSAllowOrigin)))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusOK)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "data": msgMisconfigured})
	})
	return r
}

// Handler はVercelから呼び出されるHTTPハンドラ。
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		router = build(os.Getenv)
	})
	router.ServeHTTP(w, r)
}
