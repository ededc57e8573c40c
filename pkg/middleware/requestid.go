package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopstack/gateway/pkg/backend"
)

// headerKeyRequestID はリクエストIDを伝播するためのHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// RequestID はリクエストごとに一意なIDを付与するGinミドルウェアを返す。
// クライアントがX-Request-IDを指定した場合はそれを引き継ぎ、
// 未指定の場合は新規に生成する。IDはレスポンスヘッダーと
// バックエンド呼び出し用のコンテキストに設定される。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerKeyRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header(headerKeyRequestID, requestID)
		c.Request = c.Request.WithContext(backend.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GetRequestID はGinコンテキストからリクエストIDを取得する。
// RequestIDミドルウェアが事前に適用されている必要がある。
func GetRequestID(c *gin.Context) string {
	requestID, _ := c.Get("request_id")
	if id, ok := requestID.(string); ok {
		return id
	}
	return ""
}
