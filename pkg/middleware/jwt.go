package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin は管理者ロール。在庫一覧や商品・注文の管理操作が許可される。
const RoleAdmin = "ADMIN"

// RoleClient は一般クライアントロール。商品閲覧と注文操作が許可される。
const RoleClient = "CLIENT"

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
// 認証サービスが発行するトークンと同じ形式で、ロール情報を含む。
type JWTClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーの一意識別子。
	UserID string `json:"user_id"`
	// Username はユーザーの表示名。
	Username string `json:"username"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Role はユーザーのロール（ADMIN または CLIENT）。
	Role string `json:"role"`
}

// GenerateJWT はユーザー情報からJWTトークンを生成する。
// 認証サービスの署名形式を再現するもので、主にテストで使用する。
func GenerateJWT(secret, issuer, audience, userID, username, email, role string) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   userID,
		},
		UserID:   userID,
		Username: username,
		Email:    email,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
// 発行者とオーディエンスも検証し、成功時はコンテキストにクレームを設定する。
func JWTAuth(secret, issuer, audience string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": authErrorMessage(err),
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// authErrorMessage はトークン検証エラーを失敗理由ごとのメッセージに変換する。
func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "トークンの有効期限が切れています"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "トークンの署名が不正です"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "トークンの発行者が不正です"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "トークンのオーディエンスが不正です"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "トークンの形式が不正です"
	default:
		return "トークンが無効です"
	}
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetRole はGinコンテキストからユーザーのロールを取得する。
// JWTAuthミドルウェアが適用されていない場合は空文字列を返す。
func GetRole(c *gin.Context) string {
	role, _ := c.Get("role")
	if r, ok := role.(string); ok {
		return r
	}
	return ""
}
