package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nao1215/authrelay/internal/config"
	"github.com/nao1215/authrelay/pkg/httpclient"
	"github.com/nao1215/authrelay/pkg/middleware"
)

// Upstream は上流の認証APIにJSONをPOSTするクライアント。
// *httpclient.Client が満たす。
type Upstream interface {
	PostJSON(ctx context.Context, path string, body any, result any) error
}

// Handler は認証リクエストを上流に中継するハンドラ。
// リクエスト間で可変な状態は持たない。
type Handler struct {
	// credentials は上流に送るクライアント認証情報。
	credentials config.Credentials
	// upstream は上流APIのクライアント。
	upstream Upstream
	// loginPath はログインエンドポイントのパス。
	loginPath string
	// refreshPath はトークン更新エンドポイントのパス。
	refreshPath string
	logger      *zap.Logger
	metrics     *Metrics
}

// NewHandler は新しいリレーハンドラを生成する。
func NewHandler(cfg config.Config, upstream Upstream, logger *zap.Logger, metrics *Metrics) *Handler {
	return &Handler{
		credentials: cfg.Credentials,
		upstream:    upstream,
		loginPath:   cfg.Upstream.LoginPath,
		refreshPath: cfg.Upstream.RefreshPath,
		logger:      logger,
		metrics:     metrics,
	}
}

// Handle はリレーのGinハンドラを返す。
// CORSヘッダーはルーター側のミドルウェアで設定済みであること。
func (h *Handler) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			h.metrics.observeResponse(modeNone, http.StatusOK)
			c.Status(http.StatusOK)
			return
		}

		if c.Request.Method != http.MethodPost {
			h.respond(c, modeNone, http.StatusMethodNotAllowed, failure(msgMethodNotAllowed))
			return
		}

		mode := ParseMode(c.Query("type"))

		if err := h.credentials.Validate(); err != nil {
			h.logger.Warn("EKA認証情報が設定されていません",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err),
			)
			h.respond(c, string(mode), http.StatusBadRequest, failure(msgMissingCredentials))
			return
		}

		path, body, err := h.buildUpstreamRequest(c, mode)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.respond(c, string(mode), http.StatusRequestEntityTooLarge, failure(msgBodyTooLarge))
				return
			}
			h.respond(c, string(mode), http.StatusBadRequest, failure(msgMissingRefreshToken))
			return
		}

		var token AuthToken
		start := time.Now()
		err = h.upstream.PostJSON(c.Request.Context(), path, body, &token)
		h.metrics.observeUpstream(mode, time.Since(start))
		if err == nil {
			err = token.Validate()
		}
		if err != nil {
			h.respondError(c, mode, err)
			return
		}

		h.respond(c, string(mode), http.StatusOK, success(token.Sanitize()))
	}
}

// buildUpstreamRequest はモードに応じて上流のパスとボディを組み立てる。
// トークン更新でボディが不足・不正な場合はバインドのエラーを返す。
func (h *Handler) buildUpstreamRequest(c *gin.Context, mode Mode) (string, any, error) {
	if mode != ModeRefresh {
		return h.loginPath, loginBody{Credentials: h.credentials}, nil
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", nil, err
	}
	return h.refreshPath, refreshBody{
		Credentials:  h.credentials,
		RefreshToken: req.RefreshToken,
		AccessToken:  req.AuthToken,
	}, nil
}

// respondError は上流呼び出しのエラーをHTTPステータスに対応付けて返す。
func (h *Handler) respondError(c *gin.Context, mode Mode, err error) {
	var statusErr *httpclient.StatusError
	switch {
	case errors.As(err, &statusErr):
		msg := statusErr.Body
		if msg == "" {
			msg = msgAuthFailed
		}
		h.respond(c, string(mode), http.StatusBadRequest, failure(msg))
	case errors.Is(err, httpclient.ErrTimeout):
		h.logger.Warn("上流の認証APIがタイムアウトしました",
			zap.String("mode", string(mode)),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.respond(c, string(mode), http.StatusGatewayTimeout, failure(msgUpstreamTimeout))
	default:
		h.logger.Error("認証の中継に失敗しました",
			zap.String("mode", string(mode)),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		h.respond(c, string(mode), http.StatusInternalServerError, failure(err.Error()))
	}
}

// respond はエンベロープをJSONで書き込み、メトリクスを記録する。
func (h *Handler) respond(c *gin.Context, mode string, status int, body AuthReturnType) {
	h.metrics.observeResponse(mode, status)
	c.JSON(status, body)
}
