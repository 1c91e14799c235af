package admin

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/desbrava-pizza/internal/export"
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/repository"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

// RecordRetrievalRequest 登记提货请求，quantidades 以订单项 ID 为键
type RecordRetrievalRequest struct {
	NomeRetirante string                     `json:"nome_retirante" binding:"max=120"`
	Quantidades   map[uint]RetrievalQuantity `json:"quantidades"`
}

// RetrievalQuantity 本次提货数量，字符串取前导整数，其他非数字值按 0 处理
type RetrievalQuantity int

func (q *RetrievalQuantity) UnmarshalJSON(data []byte) error {
	*q = 0
	raw := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(raw, `"`):
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		raw = text
	case raw == "null" || raw == "true" || raw == "false":
		return nil
	}
	*q = RetrievalQuantity(leadingQuantity(raw))
	return nil
}

// leadingQuantity 解析前导整数，负数与无数字时为 0
func leadingQuantity(s string) int {
	s = strings.TrimSpace(s)
	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > math.MaxInt32/10 {
			n = math.MaxInt32
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	if negative {
		return 0
	}
	return n
}

func (r RecordRetrievalRequest) quantities() map[uint]int {
	out := make(map[uint]int, len(r.Quantidades))
	for lineID, qty := range r.Quantidades {
		out[lineID] = int(qty)
	}
	return out
}

// RetrievalSelection 提货表单的初始选择
type RetrievalSelection struct {
	NomeRetirante string       `json:"nome_retirante"`
	Quantidades   map[uint]int `json:"quantidades"`
}

func deliveryFilterFromQuery(c *gin.Context) repository.OrderAggregateFilter {
	return repository.OrderAggregateFilter{
		OrganizationID: handlershared.QueryUint(c, "organizacao_id"),
		CampaignID:     handlershared.QueryUint(c, "campanha_id"),
		Referrer:       c.Query("referencia"),
		Buyer:          c.Query("comprador"),
		Code:           c.Query("codigo"),
		Phone:          c.Query("whatsapp"),
	}
}

func (h *Handler) onlyPending(c *gin.Context) bool {
	return handlershared.QueryBool(c, "somente_pendentes", h.Config.Delivery.OnlyPendingDefault)
}

// GetDeliveryFilters 提货筛选项
func (h *Handler) GetDeliveryFilters(c *gin.Context) {
	options, err := h.DeliveryService.Filters()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, options)
}

// GetDeliveryOrders 提货列表与 KPI
func (h *Handler) GetDeliveryOrders(c *gin.Context) {
	view, err := h.DeliveryService.Load(c.Request.Context(), deliveryFilterFromQuery(c), h.onlyPending(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// GetDeliveryOrder 单个订单的提货进度
func (h *Handler) GetDeliveryOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.DeliveryService.LoadOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// GetDeliveryOrderHistory 订单的提货批次历史
func (h *Handler) GetDeliveryOrderHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	batches, err := h.DeliveryService.History(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, batches)
}

// PrepareRetrieveAll 把每个订单项的本次数量预填为待提数量，不写入
func (h *Handler) PrepareRetrieveAll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.DeliveryService.LoadOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, RetrievalSelection{
		NomeRetirante: order.NomeComprador,
		Quantidades:   service.RetrieveAllRemaining(*order),
	})
}

// RecordRetrieval 登记一次提货
func (h *Handler) RecordRetrieval(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RecordRetrievalRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	result, err := h.RetrievalService.Record(c.Request.Context(), service.RecordRetrievalInput{
		OrderID:       id,
		RetrieverName: req.NomeRetirante,
		Quantities:    req.quantities(),
	})
	if err != nil {
		if result != nil {
			// 已写入但刷新失败，仍告知批次号
			handlershared.RequestLog(c).Warnw("retrieval_refresh_failed", "order_id", id, "retrieval_id", result.BatchID, "error", err)
			response.Success(c, result)
			return
		}
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ExportDelivery 导出当前筛选下的提货列表
func (h *Handler) ExportDelivery(c *gin.Context) {
	format, ok := handlershared.ResolveExportFormat(c)
	if !ok {
		return
	}
	view, err := h.DeliveryService.Load(c.Request.Context(), deliveryFilterFromQuery(c), h.onlyPending(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.WriteExport(c, format, handlershared.ExportFile{
		BaseName: "entregas",
		Sheet:    "Entregas",
		Table:    service.DeliveryExportTable(view.Orders),
		CSV:      export.WritePtBRCSV,
	})
}

// ExportDeliveryOrder 导出单个订单的订单项，?agora=<订单项ID>:<数量> 可重复
func (h *Handler) ExportDeliveryOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format, ok := handlershared.ResolveExportFormat(c)
	if !ok {
		return
	}
	retrieveNow, err := parseRetrieveNow(c.QueryArray("agora"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.DeliveryService.LoadOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.WriteExport(c, format, handlershared.ExportFile{
		BaseName: fmt.Sprintf("pedido_%s", order.CodigoPedido),
		Sheet:    "Pedido",
		Table:    service.OrderExportTable(*order, retrieveNow),
		CSV:      export.WritePtBRCSV,
	})
}

func parseRetrieveNow(values []string) (map[uint]int, error) {
	result := make(map[uint]int, len(values))
	for _, raw := range values {
		lineRaw, qtyRaw, found := strings.Cut(strings.TrimSpace(raw), ":")
		if !found {
			return nil, fmt.Errorf("invalid pair %q", raw)
		}
		lineID, err := strconv.ParseUint(strings.TrimSpace(lineRaw), 10, 64)
		if err != nil {
			return nil, err
		}
		result[uint(lineID)] = leadingQuantity(qtyRaw)
	}
	return result, nil
}
