// Package response 统一的 HTTP JSON 响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 响应体 {code, message, data}
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Success 200 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// ErrorWithStatus 以指定 HTTP 状态码返回错误，code 与状态码一致
func ErrorWithStatus(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Response{Code: status, Message: message, Detail: detail})
}

// Abort 返回错误并终止后续处理器
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}
