package service

import "errors"

// 业务错误
var (
	ErrProductNotFound            = errors.New("product not found")
	ErrCartItemNotFound           = errors.New("cart item not found")
	ErrQuantityZero               = errors.New("quantity cannot be zero")
	ErrNegativeQuantityForNewItem = errors.New("cannot add negative quantity for new item")
	ErrInvalidCartKey             = errors.New("invalid cart key")
	ErrCartCreateFailed           = errors.New("failed to create cart")
	ErrInvalidInput               = errors.New("invalid input")
	ErrQuantityLimitExceeded      = errors.New("cart item quantity limit exceeded")
)

// InputError 输入校验失败，Reason 可直接返回给客户端
type InputError struct {
	Reason string
	cause  error
}

func (e *InputError) Error() string {
	return e.Reason
}

func (e *InputError) Unwrap() error {
	return e.cause
}
