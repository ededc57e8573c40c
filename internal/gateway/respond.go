package gateway

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/gateway/pkg/backend"
)

// respondError はバックエンド呼び出しの失敗をHTTPレスポンスに正規化する。
// バックエンド由来のエラーは失敗コードのマッピング表に従ったステータスと
// {error, code} エンベロープで返し、それ以外のローカル障害は汎用の500として
// 診断用の詳細を添えて返す。
func respondError(c *gin.Context, err error) {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		log.Printf("バックエンドエラー: %s %s: code=%s, detail=%s",
			c.Request.Method, c.Request.URL.Path, backendErr.Code, backendErr.Detail)
		c.JSON(backendErr.Code.HTTPStatus(), gin.H{
			"error": backendErr.Detail,
			"code":  string(backendErr.Code),
		})
		return
	}

	log.Printf("ローカルエラー: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":  "内部サーバーエラーが発生しました",
		"detail": err.Error(),
	})
}

// respondValidationError は入力検証の失敗を400として報告する。
// バインディングが検出した全フィールドのエラーをまとめて返す。
// 検証に失敗したリクエストはバックエンドへ転送されない。
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": fmt.Sprintf("リクエストが不正です: %v", err),
	})
}
