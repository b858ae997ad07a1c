package public

import (
	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/http/response"
	"github.com/vitrine-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	summary, err := h.CartService.GetCart(h.cartKey(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

// AddToCart 按数量增量调整购物车
func (h *Handler) AddToCart(c *gin.Context) {
	var req service.AddToCartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgInvalidRequestBody, nil)
		return
	}
	item, err := h.CartService.AddToCart(h.cartKey(c), req)
	if err != nil {
		respondCartAddError(c, err)
		return
	}
	response.Created(c, item)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", msgCartItemIDRequired, msgInvalidCartItemID)
	if !ok {
		return
	}
	item, err := h.CartService.RemoveCartItem(h.cartKey(c), id)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, msgItemRemovedFromCart, item)
}
