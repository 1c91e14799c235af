package shared

import (
	"errors"
	"strings"

	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/i18n"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil && code >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error", "code", code, "message", msg, "error", err)
	}
	response.Error(c, code, msg)
}

type errorMapping struct {
	target error
	code   int
	key    string
}

// 顺序敏感：具体错误在前，ErrFetchFailed/ErrWriteFailed 兜底在后
var serviceErrorMappings = []errorMapping{
	{service.ErrForbidden, response.CodeForbidden, "error.forbidden"},
	{service.ErrInvalidCredentials, response.CodeUnauthorized, "error.login_invalid"},
	{service.ErrCaptchaRequired, response.CodeBadRequest, "error.captcha_required"},
	{service.ErrCaptchaInvalid, response.CodeBadRequest, "error.captcha_invalid"},
	{service.ErrOrderNotFound, response.CodeNotFound, "error.order_not_found"},
	{service.ErrRetrieverNameRequired, response.CodeBadRequest, "error.retriever_name_required"},
	{service.ErrRetrievalEmpty, response.CodeBadRequest, "error.retrieval_empty"},
	{service.ErrRetrievalBusy, response.CodeConflict, "error.retrieval_busy"},
	{service.ErrCampaignNotFound, response.CodeNotFound, "error.campaign_not_found"},
	{service.ErrNoActiveCampaign, response.CodeNotFound, "error.no_active_campaign"},
	{service.ErrItemNotFound, response.CodeNotFound, "error.item_not_found"},
	{service.ErrItemNameRequired, response.CodeBadRequest, "error.item_name_required"},
	{service.ErrItemInUse, response.CodeConflict, "error.item_in_use"},
	{service.ErrCampaignItemNotFound, response.CodeNotFound, "error.campaign_item_not_found"},
	{service.ErrCampaignItemExists, response.CodeConflict, "error.campaign_item_exists"},
	{service.ErrCampaignItemInvalid, response.CodeBadRequest, "error.campaign_item_invalid"},
	{service.ErrClubInvalid, response.CodeBadRequest, "error.club_invalid"},
	{service.ErrPublicOrderInvalid, response.CodeBadRequest, "error.public_order_invalid"},
	{service.ErrFlavorSumMismatch, response.CodeBadRequest, "error.flavor_sum_mismatch"},
	{service.ErrPhoneInvalid, response.CodeBadRequest, "error.phone_invalid"},
	{service.ErrItemUnavailable, response.CodeBadRequest, "error.item_unavailable"},
	{service.ErrNotFound, response.CodeNotFound, "error.not_found"},
	{service.ErrFetchFailed, response.CodeInternal, "error.fetch_failed"},
	{service.ErrWriteFailed, response.CodeInternal, "error.write_failed"},
}

// RespondServiceError 将 service 层错误映射为统一响应。
func RespondServiceError(c *gin.Context, err error) {
	var validation *service.RetrievalValidationError
	if errors.As(err, &validation) && errors.Is(validation.Reason, service.ErrRetrievalOverPending) {
		RespondErrorWithMsg(c, response.CodeBadRequest, validation.Error(), nil)
		return
	}
	var fetchErr *service.FetchError
	if errors.As(err, &fetchErr) {
		RespondErrorWithMsg(c, response.CodeInternal, operationMessage(c, "error.fetch_failed", fetchErr.Op, fetchErr.Err), err)
		return
	}
	var writeErr *service.WriteError
	if errors.As(err, &writeErr) {
		RespondErrorWithMsg(c, response.CodeInternal, operationMessage(c, "error.write_failed", writeErr.Op, writeErr.Err), err)
		return
	}
	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.target) {
			RespondError(c, m.code, m.key, err)
			return
		}
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}

// operationMessage 形如 "Falha ao carregar dados (retrieval_items): <原始错误>"
func operationMessage(c *gin.Context, key, op string, cause error) string {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	if op = strings.TrimSpace(op); op != "" {
		msg += " (" + op + ")"
	}
	if cause != nil {
		if detail := strings.TrimSpace(cause.Error()); detail != "" {
			msg += ": " + detail
		}
	}
	return msg
}
