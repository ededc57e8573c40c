package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// updateStockRequest は在庫数量更新リクエストのJSON構造。
type updateStockRequest struct {
	// Operation は操作種別。increase または decrease（大文字小文字不問）。
	Operation string `json:"operation" binding:"required,stockop"`
	// Quantity は増減する数量。1以上の整数。
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// updateStockOutbound は在庫サービスへ転送する在庫更新リクエスト。
type updateStockOutbound struct {
	// ItemID は対象の在庫アイテムID。
	ItemID string `json:"itemId"`
	// Operation は操作種別。
	Operation string `json:"operation"`
	// Quantity は増減する数量。
	Quantity int `json:"quantity"`
}

// handleListInventory は在庫一覧取得を処理するハンドラを返す。
func (s *Server) handleListInventory() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.inventory.GetJSON(c.Request.Context(), "/api/inventory", nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleGetInventoryItem は在庫アイテムのID指定取得を処理するハンドラを返す。
func (s *Server) handleGetInventoryItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.inventory.GetJSON(c.Request.Context(), "/api/inventory/"+c.Param("id"), nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleUpdateStock は在庫数量の更新を処理するハンドラを返す。
// 検証済みの操作種別と数量のみを在庫サービスへ転送する。
func (s *Server) handleUpdateStock() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		outbound := updateStockOutbound{
			ItemID:    c.Param("id"),
			Operation: req.Operation,
			Quantity:  req.Quantity,
		}

		var result json.RawMessage
		if err := s.inventory.PatchJSON(c.Request.Context(), "/api/inventory/"+c.Param("id"), outbound, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
