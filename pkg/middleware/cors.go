package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// corsAllowMethods はプリフライトに応答する許可メソッド一覧。
	corsAllowMethods = "GET,POST,OPTIONS,PUT,PATCH,DELETE"
	// corsAllowHeaders はブラウザに許可するリクエストヘッダー一覧。
	corsAllowHeaders = "Content-Type, Authorization"
)

// CORS はすべてのレスポンスにCORSヘッダーを無条件で設定するGinミドルウェアを返す。
// allowOriginが空の場合は "*" を使う。
// OPTIONSリクエストの応答はハンドラー側で行うため、ここでは中断しない。
func CORS(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Next()
	}
}
