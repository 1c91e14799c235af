package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desbrava-pizza/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindingErrorMessage 将校验错误渲染为 "field: tag" 列表。
func BindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// BindJSON 绑定 JSON 请求体，失败时写入 400 响应并返回 false。
func BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		if msg := BindingErrorMessage(err); msg != "" {
			RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
			return false
		}
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}
