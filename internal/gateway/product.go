package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

// createProductRequest は商品作成リクエストのマルチパートフォーム構造。
type createProductRequest struct {
	// Name は商品名。
	Name string `form:"name" binding:"required"`
	// Description は商品の説明。
	Description string `form:"description" binding:"required"`
	// Price は商品価格。0.01以上。
	Price float64 `form:"price" binding:"required,gte=0.01"`
	// Category は商品カテゴリ。
	Category string `form:"category" binding:"required"`
	// ImageFile は商品画像。必須。
	ImageFile *multipart.FileHeader `form:"imageFile" binding:"required"`
}

// updateProductRequest は商品更新リクエストのマルチパートフォーム構造。
// 全フィールドが省略可能で、未指定のフィールドは変更なしとして扱われる。
type updateProductRequest struct {
	// Name は商品名。
	Name *string `form:"name"`
	// Description は商品の説明。
	Description *string `form:"description"`
	// Price は商品価格。指定する場合は0.01以上。
	Price *float64 `form:"price" binding:"omitempty,gte=0.01"`
	// Category は商品カテゴリ。
	Category *string `form:"category"`
	// NewImageFile は差し替える商品画像。省略時は画像を変更しない。
	NewImageFile *multipart.FileHeader `form:"newImageFile"`
}

// createProductOutbound は商品サービスへ転送する商品作成リクエスト。
type createProductOutbound struct {
	// Name は商品名。
	Name string `json:"name"`
	// Description は商品の説明。
	Description string `json:"description"`
	// Price は商品価格。
	Price float64 `json:"price"`
	// Category は商品カテゴリ。
	Category string `json:"category"`
	// ImageData は画像のバイナリデータ。
	ImageData []byte `json:"imageData"`
}

// updateProductOutbound は商品サービスへ転送する商品更新リクエスト。
// 未指定のフィールドは番兵値（空文字列・0・空バイト列）で転送される。
type updateProductOutbound struct {
	// ID は対象商品の一意識別子。
	ID string `json:"id"`
	// Name は商品名。
	Name string `json:"name"`
	// Description は商品の説明。
	Description string `json:"description"`
	// Price は商品価格。
	Price float64 `json:"price"`
	// Category は商品カテゴリ。
	Category string `json:"category"`
	// NewImageData は差し替える画像のバイナリデータ。空は「変更なし」を表す。
	NewImageData []byte `json:"newImageData"`
}

// readImage はアップロードされた画像をメモリに全読み込みする。
// バックエンドへはバイナリとして添付され、ストリーミング転送は行わない。
func readImage(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("画像ファイルのオープンに失敗: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("画像ファイルの読み込みに失敗: %w", err)
	}
	return data, nil
}

// handleCreateProduct は商品作成を処理するハンドラを返す。
// マルチパートフォームを検証し、画像をメモリに読み込んで商品サービスへ転送する。
func (s *Server) handleCreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProductRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		imageData, err := readImage(req.ImageFile)
		if err != nil {
			respondError(c, err)
			return
		}

		outbound := createProductOutbound{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			ImageData:   imageData,
		}

		var result json.RawMessage
		if err := s.product.PostJSON(c.Request.Context(), "/api/products", outbound, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleListProducts は商品一覧取得を処理するハンドラを返す。
func (s *Server) handleListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.product.GetJSON(c.Request.Context(), "/api/products", nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleGetProduct は商品のID指定取得を処理するハンドラを返す。
func (s *Server) handleGetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.product.GetJSON(c.Request.Context(), "/api/products/"+c.Param("id"), nil, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleUpdateProduct は商品更新を処理するハンドラを返す。
// 未指定のフィールドは番兵値で転送し、画像が省略された場合は
// 空のバイナリマーカーを「変更なし」として送る。
func (s *Server) handleUpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProductRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		newImageData := []byte{}
		if req.NewImageFile != nil {
			data, err := readImage(req.NewImageFile)
			if err != nil {
				respondError(c, err)
				return
			}
			newImageData = data
		}

		outbound := updateProductOutbound{
			ID:           c.Param("id"),
			Name:         stringOrEmpty(req.Name),
			Description:  stringOrEmpty(req.Description),
			Price:        floatOrZero(req.Price),
			Category:     stringOrEmpty(req.Category),
			NewImageData: newImageData,
		}

		var result json.RawMessage
		if err := s.product.PatchJSON(c.Request.Context(), "/api/products/"+c.Param("id"), outbound, &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// handleDeleteProduct は商品削除を処理するハンドラを返す。
func (s *Server) handleDeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var result json.RawMessage
		if err := s.product.DeleteJSON(c.Request.Context(), "/api/products/"+c.Param("id"), &result); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// stringOrEmpty は省略可能な文字列を番兵値（空文字列）に変換する。
func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// floatOrZero は省略可能な数値を番兵値（0）に変換する。
func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
