package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles は許可ロール集合に基づく認可ミドルウェアを返す。
// JWTAuthの後段に配置し、クレームのロールが集合に含まれない場合は403で遮断する。
// ディスパッチ前の単一の認可ステージとして、全保護ルートで共通に使用する。
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		// 許可ロール集合が空のルートは認可をスキップする
		if len(allowed) == 0 {
			c.Next()
			return
		}

		if _, ok := allowed[GetRole(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "この操作を行う権限がありません",
			})
			return
		}
		c.Next()
	}
}
