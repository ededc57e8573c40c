package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/gateway/pkg/middleware"
)

// orderItemRequest は注文アイテムのJSON構造。
type orderItemRequest struct {
	// ProductID は商品の一意識別子。
	ProductID string `json:"productId" binding:"required"`
	// Quantity は注文数量。1以上の整数。
	Quantity int `json:"quantity" binding:"required,min=1"`
	// Price は商品単価。0.01以上。
	Price float64 `json:"price" binding:"required,gte=0.01"`
}

// createOrderRequest は注文作成リクエストのJSON構造。
type createOrderRequest struct {
	// UserID は注文者のユーザーID。
	UserID string `json:"userId" binding:"required"`
	// ClientName は注文者の氏名。
	ClientName string `json:"clientName" binding:"required"`
	// ShippingAddress は配送先住所。
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	// Items は注文アイテムのリスト。各要素も検証される。
	Items []orderItemRequest `json:"items" binding:"required,dive"`
}

// updateOrderStatusRequest は注文ステータス更新リクエストのJSON構造。
// ステータス値はドメインの状態集合と照合せず、そのまま転送する。
type updateOrderStatusRequest struct {
	// Status は注文の新しいステータス。
	Status string `json:"status" binding:"required"`
}

// cancelOrderRequest は注文キャンセルリクエストのJSON構造。
type cancelOrderRequest struct {
	// Reason はキャンセル理由。省略可能。
	Reason string `json:"reason"`
}

// orderItemOutbound は注文サービスへ転送する注文アイテム。
type orderItemOutbound struct {
	// ProductID は商品の一意識別子。
	ProductID string `json:"productId"`
	// Quantity は注文数量。
	Quantity int `json:"quantity"`
	// Price は商品単価。
	Price float64 `json:"price"`
}

// createOrderOutbound は注文サービスへ転送する注文作成リクエスト。
type createOrderOutbound struct {
	// UserID は注文者のユーザーID。
	UserID string `json:"userId"`
	// ClientName は注文者の氏名。
	ClientName string `json:"clientName"`
	// ShippingAddress は配送先住所。
	ShippingAddress string `json:"shippingAddress"`
	// Items は注文アイテムのリスト。受信順を維持する。
	Items []orderItemOutbound `json:"items"`
}

// cancelOrderOutbound は注文サービスへ転送するキャンセルリクエスト。
type cancelOrderOutbound struct {
	// IDOrTracking は注文IDまたはトラッキング番号。
	IDOrTracking string `json:"idOrTracking"`
	// Role は呼び出し元のロール。admin または user。
	Role string `json:"role"`
	// Reason はキャンセル理由。
	Reason string `json:"reason"`
}

// handleCreateOrder は注文作成を処理するハンドラを返す。
// 全アイテムが検証を通過した場合のみ、受信順を維持したリストを転送する。
func (s *Server) handleCreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		outbound := createOrderOutbound{
			UserID:          req.UserID,
			ClientName:      req.ClientName,
			ShippingAddress: req.ShippingAddress,
			Items:           make([]orderItemOutbound, 0, len(req.Items)),
		}
		for _, item := range req.Items {
			outbound.Items = append(outbound.Items, orderItemOutbound{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		var result json.RawMessage
		if err := s.order.PostJSON(c.Request.Context(), "/api/orders", outbound, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleListOrders は注文一覧取得を処理するハンドラを返す。
// 省略されたフィルタは空文字列の番兵値として転送する（ワイヤ規約）。
// 内部では未指定と空文字列指定を区別するためにポインタで保持する。
func (s *Server) handleListOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := url.Values{
			"id":        {sentinel(optionalQuery(c, "id"))},
			"userId":    {sentinel(optionalQuery(c, "userId"))},
			"startDate": {sentinel(optionalQuery(c, "startDate"))},
			"endDate":   {sentinel(optionalQuery(c, "endDate"))},
		}

		var result json.RawMessage
		if err := s.order.GetJSON(c.Request.Context(), "/api/orders", filters, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleGetOrderStatus はトラッキング番号による注文ステータス取得を処理するハンドラを返す。
func (s *Server) handleGetOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		trackingNumber := c.Param("trackingNumber")

		var result struct {
			// Status は注文の現在のステータス。
			Status string `json:"status"`
		}
		if err := s.order.GetJSON(c.Request.Context(), "/api/orders/"+trackingNumber+"/status", nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"trackingNumber": trackingNumber,
			"status":         result.Status,
		})
	}
}

// handleUpdateOrderStatus は注文ステータスの更新を処理するハンドラを返す。
func (s *Server) handleUpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var result json.RawMessage
		if err := s.order.PatchJSON(c.Request.Context(), "/api/orders/"+c.Param("idOrTracking")+"/status", req, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleCancelOrder は注文キャンセルを処理するハンドラを返す。
// 呼び出し元のロールはクレームから導出し、理由が省略された場合は
// プレースホルダ文字列を設定して転送する。
func (s *Server) handleCancelOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 理由は省略可能なため、ボディ自体が無いリクエストも受け付ける
		var req cancelOrderRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}

		role := "user"
		if middleware.GetRole(c) == middleware.RoleAdmin {
			role = "admin"
		}

		reason := req.Reason
		if reason == "" {
			reason = "no reason provided"
		}

		outbound := cancelOrderOutbound{
			IDOrTracking: c.Param("idOrTracking"),
			Role:         role,
			Reason:       reason,
		}

		var result json.RawMessage
		if err := s.order.PatchJSON(c.Request.Context(), "/api/orders/"+c.Param("idOrTracking")+"/cancel", outbound, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleOrderHistory はユーザー単位の注文履歴取得を処理するハンドラを返す。
func (s *Server) handleOrderHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.order.GetJSON(c.Request.Context(), "/api/orders/history/"+c.Param("userId"), nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// optionalQuery はクエリパラメータを取得する。未指定の場合はnilを返し、
// 空文字列で指定された場合と区別できるようにする。
func optionalQuery(c *gin.Context, key string) *string {
	if !c.Request.URL.Query().Has(key) {
		return nil
	}
	v := c.Query(key)
	return &v
}

// sentinel は省略可能な値をワイヤ規約の番兵値（空文字列）に変換する。
func sentinel(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
