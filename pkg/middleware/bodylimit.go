package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit はリクエストボディのサイズをmaxBytesに制限するGinミドルウェアを返す。
// Content-Lengthが上限を超える場合は413を返して中断する。
// Content-Lengthが無い場合はhttp.MaxBytesReaderで読み取り時に打ち切る。
// プリフライトは常にハンドラーへ通す。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || maxBytes <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"data":    "Request Entity Too Large",
			})
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
