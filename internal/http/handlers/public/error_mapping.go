package public

import (
	"errors"

	handlershared "github.com/vitrine-api/internal/http/handlers/shared"
	"github.com/vitrine-api/internal/http/response"
	"github.com/vitrine-api/internal/service"

	"github.com/gin-gonic/gin"
)

// 接口错误消息
const (
	msgProductNotFound     = "Product not found"
	msgProductIDRequired   = "Product ID is required"
	msgInvalidProductID    = "Invalid product ID"
	msgCartItemNotFound    = "Cart item not found"
	msgCartItemIDRequired  = "Cart item ID is required"
	msgInvalidCartItemID   = "Invalid cart item ID"
	msgQuantityZero        = "Quantity cannot be zero"
	msgNegativeQuantityNew = "Cannot add negative quantity for new item"
	msgInvalidCartKey      = "Invalid cart key"
	msgQuantityLimit       = "Cart item quantity cannot exceed 9999"
	msgCartCreateFailed    = "Failed to create cart"
	msgInvalidRequestBody  = "Invalid request body"
	msgItemRemovedFromCart = "Item removed from cart"
	msgRouteNotFound       = "Route not found"
	msgWelcome             = "Welcome to the API!"
	msgServerRunning       = "Server is running"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

// mapHandlerError 按规则顺序匹配业务错误，未命中时归为 500
func mapHandlerError(err error, rules []mappedHandlerError) *response.AppError {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		return response.WrapError(response.CodeBadRequest, inputErr.Reason, err)
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			return response.WrapError(rule.code, rule.msg, err)
		}
	}
	return response.WrapError(response.CodeInternal, handlershared.MsgInternal, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	handlershared.RespondAppError(c, mapHandlerError(err, rules))
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: msgProductNotFound},
}

var cartCommonErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCartKey, code: response.CodeBadRequest, msg: msgInvalidCartKey},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: msgCartItemNotFound},
}

var cartAddExtraErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: msgProductNotFound},
	{target: service.ErrQuantityZero, code: response.CodeBadRequest, msg: msgQuantityZero},
	{target: service.ErrNegativeQuantityForNewItem, code: response.CodeBadRequest, msg: msgNegativeQuantityNew},
	{target: service.ErrQuantityLimitExceeded, code: response.CodeBadRequest, msg: msgQuantityLimit},
	{target: service.ErrCartCreateFailed, code: response.CodeInternal, msg: msgCartCreateFailed},
}

func respondProductError(c *gin.Context, err error) {
	respondWithMappedError(c, err, productErrorRules)
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartCommonErrorRules)
}

func respondCartAddError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartCommonErrorRules, cartAddExtraErrorRules))
}
