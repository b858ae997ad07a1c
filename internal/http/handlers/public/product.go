package public

import (
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 获取全部商品
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.ProductService.ListAll(c.Request.Context())
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", msgProductIDRequired, msgInvalidProductID)
	if !ok {
		return
	}
	product, err := h.ProductService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}
