package service

import (
	"fmt"
	"strings"

	"github.com/vitrine-api/internal/constants"
)

// 校验失败原因
const (
	ReasonProductIDRequired = "Product ID is required"
	ReasonProductIDInvalid  = "Product ID must be a positive integer"
	ReasonQuantityRequired  = "Quantity is required"
	ReasonQuantityZero      = "Quantity cannot be zero"
)

// ReasonQuantityOutOfRange 增量绝对值超过单行上限
var ReasonQuantityOutOfRange = fmt.Sprintf("Quantity must be between -%d and %d", constants.CartItemMaxQuantity, constants.CartItemMaxQuantity)

// AddToCartInput 加购输入，Quantity 为带符号的数量增量
type AddToCartInput struct {
	ProductID *int `json:"productId"`
	Quantity  *int `json:"quantity"`
}

// ValidationResult 校验结果
type ValidationResult struct {
	OK     bool
	Reason string
	cause  error
}

// Err 校验失败时返回 *InputError，成功返回 nil
func (r ValidationResult) Err() error {
	if r.OK {
		return nil
	}
	cause := r.cause
	if cause == nil {
		cause = ErrInvalidInput
	}
	return &InputError{Reason: r.Reason, cause: cause}
}

func validationOK() ValidationResult {
	return ValidationResult{OK: true}
}

func validationFailed(reason string, cause error) ValidationResult {
	return ValidationResult{Reason: reason, cause: cause}
}

// Validate 校验加购参数
func (in AddToCartInput) Validate() ValidationResult {
	if in.ProductID == nil {
		return validationFailed(ReasonProductIDRequired, ErrInvalidInput)
	}
	if *in.ProductID <= 0 {
		return validationFailed(ReasonProductIDInvalid, ErrInvalidInput)
	}
	if in.Quantity == nil {
		return validationFailed(ReasonQuantityRequired, ErrInvalidInput)
	}
	if *in.Quantity == 0 {
		return validationFailed(ReasonQuantityZero, ErrQuantityZero)
	}
	if *in.Quantity > constants.CartItemMaxQuantity || *in.Quantity < -constants.CartItemMaxQuantity {
		return validationFailed(ReasonQuantityOutOfRange, ErrInvalidInput)
	}
	return validationOK()
}

// NormalizeCartKey 规范化购物车标识
func NormalizeCartKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if key == "" || len(key) > constants.CartKeyMaxLen {
		return "", ErrInvalidCartKey
	}
	for _, r := range key {
		if !isCartKeyRune(r) {
			return "", ErrInvalidCartKey
		}
	}
	return key, nil
}

func isCartKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '.' || r == ':':
		return true
	default:
		return false
	}
}
