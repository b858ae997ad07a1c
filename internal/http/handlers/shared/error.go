package shared

import (
	"github.com/vitrine-api/internal/http/response"
	"github.com/vitrine-api/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MsgInternal 未知错误统一返回的消息，不暴露内部细节
const MsgInternal = "Internal server error"

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondAppError 写入错误响应；5xx 记录 error 日志，带原因的 4xx 记录 debug 日志。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil {
		appErr = response.WrapError(response.CodeInternal, MsgInternal, nil)
	}
	switch {
	case appErr.Internal():
		RequestLog(c).Errorw("handler_error",
			"status", appErr.Status,
			"message", appErr.Message,
			"error", appErr.Err,
			"path", requestPath(c),
		)
	case appErr.Err != nil:
		RequestLog(c).Debugw("handler_rejected",
			"status", appErr.Status,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	response.Error(c, appErr.Status, appErr.Message)
}

// RespondErrorWithMsg 返回自定义消息错误响应
func RespondErrorWithMsg(c *gin.Context, status int, msg string, err error) {
	RespondAppError(c, response.WrapError(status, msg, err))
}

// RespondInternal 记录原始错误并返回 500 通用消息。
func RespondInternal(c *gin.Context, err error) {
	if appErr, ok := response.AsAppError(err); ok {
		RespondAppError(c, appErr)
		return
	}
	RespondAppError(c, response.WrapError(response.CodeInternal, MsgInternal, err))
}

func requestPath(c *gin.Context) string {
	if c == nil || c.Request == nil || c.Request.URL == nil {
		return ""
	}
	return c.Request.URL.Path
}
