package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	// CodeBadParams 参数错误
	CodeBadParams = 100001
	// CodeInternal 内部错误
	CodeInternal = 100500
	// CodeNotFound 资源不存在
	CodeNotFound = 100404
	// CodeConflict 时间冲突
	CodeConflict = 100409
	// CodeBusy 任务执行中
	CodeBusy = 100429
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
	})
}

// ErrorWithDetail 带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}
