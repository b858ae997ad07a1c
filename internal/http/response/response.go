package response

import (
	"github.com/vitrine-api/internal/constants"

	"github.com/gin-gonic/gin"
)

// Response 统一成功响应结构
type Response struct {
	Status  string      `json:"status"`            // 固定为 success
	Message string      `json:"message,omitempty"` // 提示消息
	Data    interface{} `json:"data,omitempty"`    // 数据内容
}

// ErrorBody 统一错误响应结构
type ErrorBody struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Success 200 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(CodeOK, Response{
		Status: constants.ResponseStatusSuccess,
		Data:   data,
	})
}

// Created 201 成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(CodeCreated, Response{
		Status: constants.ResponseStatusSuccess,
		Data:   data,
	})
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	c.JSON(CodeOK, Response{
		Status:  constants.ResponseStatusSuccess,
		Message: msg,
		Data:    data,
	})
}

// Error 错误响应，statusCode 即 HTTP 状态码
func Error(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{
		Message:   msg,
		RequestID: requestID(c),
	})
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

func requestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Get("request_id"); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
