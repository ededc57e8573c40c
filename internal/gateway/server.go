package gateway

import (
	"fmt"
	"net/http"
	"os"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shopstack/gateway/pkg/backend"
	"github.com/shopstack/gateway/pkg/middleware"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// jwtSecret はJWT検証用の秘密鍵。
	jwtSecret string
	// jwtIssuer はJWTの発行者として期待する値。
	jwtIssuer string
	// jwtAudience はJWTのオーディエンスとして期待する値。
	jwtAudience string
	// credentials はログインに使用する固定のフィクスチャ認証情報。
	credentials fixtureCredentials
	// inventory は在庫サービスへのクライアント。
	inventory *backend.Client
	// product は商品サービスへのクライアント。
	product *backend.Client
	// order は注文サービスへのクライアント。
	order *backend.Client
	// auth は認証サービスへのクライアント。
	auth *backend.Client
}

// NewServer は新しいGatewayサーバーを生成する。
// バックエンドへのクライアントは起動時に1度だけ生成し、全リクエストで共有する。
func NewServer(port string) *Server {
	registerCustomValidations()

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:      router,
		port:        port,
		jwtSecret:   getEnvOr("JWT_SECRET", "dev-secret-key"),
		jwtIssuer:   getEnvOr("JWT_ISSUER", "shopstack-auth"),
		jwtAudience: getEnvOr("JWT_AUDIENCE", "shopstack-api"),
		credentials: fixtureCredentials{
			adminEmail:     os.Getenv("ADMIN_EMAIL"),
			adminPassword:  os.Getenv("ADMIN_PASSWORD"),
			clientEmail:    os.Getenv("CLIENT_EMAIL"),
			clientPassword: os.Getenv("CLIENT_PASSWORD"),
		},
		inventory: backend.New(getEnvOr("INVENTORY_SERVICE_URL", "http://localhost:5001")),
		product:   backend.New(getEnvOr("PRODUCT_SERVICE_URL", "http://localhost:5002")),
		order:     backend.New(getEnvOr("ORDER_SERVICE_URL", "http://localhost:5003")),
		auth:      backend.New(getEnvOr("AUTH_SERVICE_URL", "http://localhost:5004")),
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// routeEntry はルートテーブルの1エントリ。
// HTTPメソッド・パス・許可ロール集合・ハンドラを宣言的に束ねる。
type routeEntry struct {
	// method はHTTPメソッド。
	method string
	// path はルートのパステンプレート。
	path string
	// roles は許可ロール集合。nilの場合は公開ルート。
	roles []string
	// handler はルートに対応するリクエストハンドラ。
	handler gin.HandlerFunc
}

// routeTable はGatewayの全ルート定義を返す。
// 起動時に1度だけ構築され、以降は読み取り専用で共有される。
func (s *Server) routeTable() []routeEntry {
	return []routeEntry{
		// 認証
		{method: http.MethodPost, path: "/api/login", handler: s.handleLogin()},
		{method: http.MethodPost, path: "/api/validate-token", handler: s.handleValidateToken()},
		{method: http.MethodPost, path: "/api/logout", handler: s.handleLogout()},

		// 在庫
		{method: http.MethodGet, path: "/api/inventory", roles: []string{middleware.RoleAdmin}, handler: s.handleListInventory()},
		{method: http.MethodGet, path: "/api/inventory/:id", handler: s.handleGetInventoryItem()},
		{method: http.MethodPatch, path: "/api/inventory/:id", handler: s.handleUpdateStock()},

		// 注文
		{method: http.MethodPost, path: "/api/orders", roles: []string{middleware.RoleClient}, handler: s.handleCreateOrder()},
		{method: http.MethodGet, path: "/api/orders", roles: []string{middleware.RoleAdmin}, handler: s.handleListOrders()},
		{method: http.MethodGet, path: "/api/orders/:trackingNumber/status", roles: []string{middleware.RoleClient}, handler: s.handleGetOrderStatus()},
		{method: http.MethodPatch, path: "/api/orders/:idOrTracking/status", roles: []string{middleware.RoleAdmin}, handler: s.handleUpdateOrderStatus()},
		{method: http.MethodPatch, path: "/api/orders/:idOrTracking", roles: []string{middleware.RoleClient, middleware.RoleAdmin}, handler: s.handleCancelOrder()},
		{method: http.MethodGet, path: "/api/orders/history/:userId", roles: []string{middleware.RoleClient}, handler: s.handleOrderHistory()},

		// 商品
		{method: http.MethodPost, path: "/api/products", roles: []string{middleware.RoleAdmin}, handler: s.handleCreateProduct()},
		{method: http.MethodGet, path: "/api/products", roles: []string{middleware.RoleClient}, handler: s.handleListProducts()},
		{method: http.MethodGet, path: "/api/products/:id", roles: []string{middleware.RoleClient}, handler: s.handleGetProduct()},
		{method: http.MethodPatch, path: "/api/products/:id", roles: []string{middleware.RoleAdmin}, handler: s.handleUpdateProduct()},
		{method: http.MethodDelete, path: "/api/products/:id", roles: []string{middleware.RoleAdmin}, handler: s.handleDeleteProduct()},
	}
}

// setupRoutes はルートテーブルをGinルーターに登録する。
// 許可ロール集合を持つルートにはJWT認証と認可ステージをディスパッチ前段に挿入する。
func (s *Server) setupRoutes() {
	for _, entry := range s.routeTable() {
		handlers := make([]gin.HandlerFunc, 0, 3)
		if entry.roles != nil {
			handlers = append(handlers,
				middleware.JWTAuth(s.jwtSecret, s.jwtIssuer, s.jwtAudience),
				middleware.RequireRoles(entry.roles...),
			)
		}
		handlers = append(handlers, entry.handler)
		s.router.Handle(entry.method, entry.path, handlers...)
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// stockOperationPattern は在庫操作の許可値。大文字小文字を区別しない。
var stockOperationPattern = regexp.MustCompile(`^(?i)(increase|decrease)$`)

// registerCustomValidations はGinのバリデータにGateway固有の検証ルールを登録する。
// バインディングタグに載せることで、全フィールドのエラーを1度にまとめて報告できる。
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("stockop", func(fl validator.FieldLevel) bool {
			return stockOperationPattern.MatchString(fl.Field().String())
		})
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
