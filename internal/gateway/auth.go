package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// fixtureCredentials はログイン照合に使用する固定の認証情報ペア。
// 実ユーザーストアの代わりとなる開発用フィクスチャで、環境変数から
// 管理者とクライアントの2組のメールアドレス・パスワードを設定する。
type fixtureCredentials struct {
	// adminEmail は管理者のメールアドレス。
	adminEmail string
	// adminPassword は管理者のパスワード。
	adminPassword string
	// clientEmail はクライアントのメールアドレス。
	clientEmail string
	// clientPassword はクライアントのパスワード。
	clientPassword string
}

// fixtureIdentity はログイン成功時に合成される固定のユーザー情報。
// 認証サービスにトークン発行を依頼するためだけに使用する。
type fixtureIdentity struct {
	// ID はユーザーの一意識別子。
	ID string `json:"id"`
	// Username はユーザーの表示名。
	Username string `json:"username"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Role はユーザーのロール。
	Role string `json:"role"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はユーザーのメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password はユーザーのパスワード。
	Password string `json:"password" binding:"required"`
}

// validateTokenRequest はトークン検証リクエストのJSON構造。
type validateTokenRequest struct {
	// Token は検証対象のトークン。
	Token string `json:"token" binding:"required"`
}

// logoutRequest はログアウトリクエストのJSON構造。
type logoutRequest struct {
	// Token は失効させるトークン。
	Token string `json:"token"`
}

// matchIdentity は提出された認証情報を設定済みの2組と厳密な文字列比較で照合する。
// 一致した場合は固定のユーザー情報を合成して返し、不一致の場合はnilを返す。
func (f fixtureCredentials) matchIdentity(email, password string) *fixtureIdentity {
	if email == f.adminEmail && password == f.adminPassword {
		return &fixtureIdentity{
			ID:       "12345",
			Username: "Admin",
			Email:    email,
			Role:     "ADMIN",
		}
	}
	if email == f.clientEmail && password == f.clientPassword {
		return &fixtureIdentity{
			ID:       "67890",
			Username: "ClientUser",
			Email:    email,
			Role:     "CLIENT",
		}
	}
	return nil
}

// handleLogin はログインを処理するハンドラを返す。
// 認証情報の照合はGateway内で完結し、一致した場合のみ認証サービスへ
// トークン発行を依頼する。不一致の場合はバックエンドを呼び出さずに401を返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		identity := s.credentials.matchIdentity(req.Email, req.Password)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "メールアドレスまたはパスワードが正しくありません",
			})
			return
		}

		var result json.RawMessage
		if err := s.auth.PostJSON(c.Request.Context(), "/api/auth/login", identity, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleValidateToken はトークン検証を処理するハンドラを返す。
// ローカルポリシーは持たず、認証サービスへの純粋なパススルーとして動作する。
func (s *Server) handleValidateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var result json.RawMessage
		if err := s.auth.PostJSON(c.Request.Context(), "/api/auth/validate-token", req, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleLogout はログアウトを処理するハンドラを返す。
// 認証サービスへの純粋なパススルーとして動作する。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req logoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var result json.RawMessage
		if err := s.auth.PostJSON(c.Request.Context(), "/api/auth/logout", req, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
