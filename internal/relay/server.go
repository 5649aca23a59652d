package relay

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/authrelay/internal/config"
	"github.com/nao1215/authrelay/pkg/httpclient"
	"github.com/nao1215/authrelay/pkg/middleware"
)

// livenessMessage は GET / が返す固定文字列。
const livenessMessage = "Express is working"

// Server はリレーサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// handler は認証リレーハンドラ。
	handler *Handler
	// corsAllowOrigin はリレーのレスポンスに付けるAccess-Control-Allow-Origin。
	corsAllowOrigin string
	// maxBodyBytes はリレーが受け付けるリクエストボディの上限。
	maxBodyBytes int64
	metrics      *Metrics
}

// NewServer は設定から上流クライアントを組み立て、新しいリレーサーバーを生成する。
func NewServer(cfg config.Config, logger *zap.Logger) *Server {
	upstream := httpclient.New(cfg.Upstream.BaseURL, httpclient.WithTimeout(cfg.Upstream.Timeout))
	return NewServerWithUpstream(cfg, upstream, logger)
}

// NewServerWithUpstream は指定した上流クライアントでリレーサーバーを生成する。
// loggerがnilの場合はログを出力しない。
func NewServerWithUpstream(cfg config.Config, upstream Upstream, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := NewMetrics()

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))

	s := &Server{
		router:          router,
		port:            cfg.Port,
		handler:         NewHandler(cfg, upstream, logger, metrics),
		corsAllowOrigin: cfg.CORSAllowOrigin,
		maxBodyBytes:    cfg.MaxBodyBytes,
		metrics:         metrics,
	}
	s.setupRoutes()

	return s
}

// Handler はサーバーのhttp.Handlerを返す。サーバーレス環境から直接呼び出す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", handleLiveness)

	api := s.router.Group("/api")
	{
		api.GET("/", handleLiveness)
		// メソッドの検証はハンドラ側で行う
		api.Any("/manage-auth",
			middleware.CORS(s.corsAllowOrigin),
			middleware.BodyLimit(s.maxBodyBytes),
			s.handler.Handle(),
		)
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "auth-relay"})
	})

	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

func handleLiveness(c *gin.Context) {
	c.String(http.StatusOK, livenessMessage)
}
