package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 与 router.RequestIDMiddleware 写入的键一致
const requestIDKey = "request_id"

// Response 统一响应结构，业务错误同样以 HTTP 200 返回
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码，0 为成功
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算页数
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Msg: "success", Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{Msg: "success", Data: data},
		Pagination: pagination,
	})
}

// Error 业务错误响应，data 中带回 request_id 便于排查
func Error(c *gin.Context, statusCode int, msg string) {
	c.JSON(http.StatusOK, errorBody(c, statusCode, msg))
}

// AbortWithHTTPStatus 以真实 HTTP 状态码返回并中断（鉴权中间件使用）
func AbortWithHTTPStatus(c *gin.Context, httpStatus, statusCode int, msg string) {
	c.AbortWithStatusJSON(httpStatus, errorBody(c, statusCode, msg))
}

func errorBody(c *gin.Context, statusCode int, msg string) Response {
	body := Response{StatusCode: statusCode, Msg: msg}
	if c == nil {
		return body
	}
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok && s != "" {
			body.Data = gin.H{"request_id": s}
		}
	}
	return body
}
