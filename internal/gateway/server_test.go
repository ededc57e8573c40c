package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/gateway/pkg/backend"
	"github.com/shopstack/gateway/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testJWTSecret はテスト用のJWT署名秘密鍵。
const testJWTSecret = "test-secret-key"

// testJWTIssuer はテスト用のJWT発行者。
const testJWTIssuer = "test-auth-service"

// testJWTAudience はテスト用のJWTオーディエンス。
const testJWTAudience = "test-api"

// テスト用のフィクスチャ認証情報。
const (
	testAdminEmail     = "admin@example.com"
	testAdminPassword  = "admin-pass"
	testClientEmail    = "client@example.com"
	testClientPassword = "client-pass"
)

// newTestServer はテスト用のGatewayサーバーを生成する。
// backendHandlerがnilでない場合、モックバックエンドとして全サービスに応答する。
func newTestServer(t *testing.T, backendHandler http.Handler) *Server {
	t.Helper()

	registerCustomValidations()

	backendURL := "http://localhost:19999"
	if backendHandler != nil {
		mock := httptest.NewServer(backendHandler)
		t.Cleanup(mock.Close)
		backendURL = mock.URL
	}

	router := gin.New()
	s := &Server{
		router:      router,
		port:        "0",
		jwtSecret:   testJWTSecret,
		jwtIssuer:   testJWTIssuer,
		jwtAudience: testJWTAudience,
		credentials: fixtureCredentials{
			adminEmail:     testAdminEmail,
			adminPassword:  testAdminPassword,
			clientEmail:    testClientEmail,
			clientPassword: testClientPassword,
		},
		inventory: backend.New(backendURL),
		product:   backend.New(backendURL),
		order:     backend.New(backendURL),
		auth:      backend.New(backendURL),
	}
	s.setupRoutes()

	return s
}

// generateTestJWT は指定ロールのテスト用JWTトークンを生成する。
func generateTestJWT(t *testing.T, role string) string {
	t.Helper()

	token, err := middleware.GenerateJWT(testJWTSecret, testJWTIssuer, testJWTAudience, "user-1", "テストユーザー", "user@example.com", role)
	if err != nil {
		t.Fatalf("テスト用JWT生成に失敗: %v", err)
	}
	return token
}

// jsonBackend は固定のJSONボディを返すモックバックエンドハンドラを生成する。
func jsonBackend(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// TestRouteAuthorization はルートテーブルの認可ポリシーを検証する。
func TestRouteAuthorization(t *testing.T) {
	t.Parallel()

	// 保護ルートと許可されないロールの組み合わせ
	tests := []struct {
		name   string
		method string
		path   string
		role   string
	}{
		{name: "在庫一覧はCLIENTに許可されない", method: http.MethodGet, path: "/api/inventory", role: middleware.RoleClient},
		{name: "注文作成はADMINに許可されない", method: http.MethodPost, path: "/api/orders", role: middleware.RoleAdmin},
		{name: "注文一覧はCLIENTに許可されない", method: http.MethodGet, path: "/api/orders", role: middleware.RoleClient},
		{name: "注文ステータス取得はADMINに許可されない", method: http.MethodGet, path: "/api/orders/TRK-1/status", role: middleware.RoleAdmin},
		{name: "注文ステータス更新はCLIENTに許可されない", method: http.MethodPatch, path: "/api/orders/order-1/status", role: middleware.RoleClient},
		{name: "注文履歴はADMINに許可されない", method: http.MethodGet, path: "/api/orders/history/user-1", role: middleware.RoleAdmin},
		{name: "商品作成はCLIENTに許可されない", method: http.MethodPost, path: "/api/products", role: middleware.RoleClient},
		{name: "商品一覧はADMINに許可されない", method: http.MethodGet, path: "/api/products", role: middleware.RoleAdmin},
		{name: "商品取得はADMINに許可されない", method: http.MethodGet, path: "/api/products/p1", role: middleware.RoleAdmin},
		{name: "商品更新はCLIENTに許可されない", method: http.MethodPatch, path: "/api/products/p1", role: middleware.RoleClient},
		{name: "商品削除はCLIENTに許可されない", method: http.MethodDelete, path: "/api/products/p1", role: middleware.RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.name+"（403）", func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+generateTestJWT(t, tt.role))
			s.router.ServeHTTP(w, req)

			if w.Code != http.StatusForbidden {
				t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
			}
		})

		t.Run(tt.name+"（トークン無しは401）", func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			s.router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

// TestPublicRoutes は公開ルートがトークン無しでディスパッチされることを検証する。
func TestPublicRoutes(t *testing.T) {
	t.Parallel()

	t.Run("在庫アイテム取得はトークン無しでバックエンドまで到達すること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, jsonBackend(http.StatusOK, `{"id":"item-1","stock":5}`))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/inventory/item-1", nil)
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("ヘルスチェックが200を返すこと", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("レスポンスボディのパースに失敗: %v", err)
		}
		if body["service"] != "gateway" {
			t.Errorf("service = %q, want %q", body["service"], "gateway")
		}
	})
}

// TestErrorNormalization はバックエンド失敗コードのHTTPステータスへの正規化を検証する。
func TestErrorNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want int
	}{
		{"NotFound", http.StatusNotFound},
		{"InvalidArgument", http.StatusBadRequest},
		{"Unauthenticated", http.StatusUnauthorized},
		{"PermissionDenied", http.StatusForbidden},
		{"AlreadyExists", http.StatusConflict},
		{"FailedPrecondition", http.StatusPreconditionFailed},
		{"Internal", http.StatusInternalServerError},
		{"Unavailable", http.StatusServiceUnavailable},
		{"SomethingElse", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run("コード"+tt.code+"が正規化されること", func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, jsonBackend(http.StatusInternalServerError, `{"error":"backend failure","code":"`+tt.code+`"}`))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/inventory/item-1", nil)
			s.router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("ステータスコード = %d, want %d", w.Code, tt.want)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("レスポンスボディのパースに失敗: %v", err)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
			if body["error"] != "backend failure" {
				t.Errorf("error = %q, want %q", body["error"], "backend failure")
			}
		})
	}

	t.Run("バックエンドに到達できない場合は500になること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/inventory/item-1", nil)
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}
