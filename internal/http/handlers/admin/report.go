package admin

import (
	"strings"

	"github.com/desbrava-pizza/internal/export"
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

func reportQueryFromRequest(c *gin.Context) service.ReportQuery {
	return service.ReportQuery{
		OrganizationID: handlershared.QueryUint(c, "organizacao_id"),
		CampaignID:     handlershared.QueryUint(c, "campanha_id"),
		Referrer:       c.Query("referencia"),
		Buyer:          c.Query("comprador"),
		OnlyPaid:       handlershared.QueryBool(c, "somente_pagos", false),
	}
}

// campaignKeyParam 活动键，无活动的分组为 constants.NoCampaignID
func campaignKeyParam(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.Param("id"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "error.id_invalid", nil)
		return "", false
	}
	return key, true
}

// GetReportSummary 按活动汇总的报表与总计
func (h *Handler) GetReportSummary(c *gin.Context) {
	report, err := h.ReportService.Build(c.Request.Context(), reportQueryFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, report)
}

// GetReportReferrers 单个活动的推荐人明细
func (h *Handler) GetReportReferrers(c *gin.Context) {
	key, ok := campaignKeyParam(c)
	if !ok {
		return
	}
	report, err := h.ReportService.Build(c.Request.Context(), reportQueryFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	row, _ := report.Campaign(key)
	response.Success(c, gin.H{
		"campanha":    row,
		"referencias": report.ReferrersOf(key),
	})
}

// ExportReportSummary 导出活动汇总
func (h *Handler) ExportReportSummary(c *gin.Context) {
	format, ok := handlershared.ResolveExportFormat(c)
	if !ok {
		return
	}
	report, err := h.ReportService.Build(c.Request.Context(), reportQueryFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	handlershared.WriteExport(c, format, handlershared.ExportFile{
		BaseName: "relatorio_campanhas",
		Sheet:    "Campanhas",
		Table:    service.SummaryExportTable(report),
		CSV:      export.WritePlainCSV,
	})
}

// ExportReportReferrers 导出单个活动的推荐人明细
func (h *Handler) ExportReportReferrers(c *gin.Context) {
	key, ok := campaignKeyParam(c)
	if !ok {
		return
	}
	format, ok := handlershared.ResolveExportFormat(c)
	if !ok {
		return
	}
	report, err := h.ReportService.Build(c.Request.Context(), reportQueryFromRequest(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	row, _ := report.Campaign(key)
	handlershared.WriteExport(c, format, handlershared.ExportFile{
		BaseName: "relatorio_referencias",
		Sheet:    "Referencias",
		Table:    service.ReferrerExportTable(row.CampaignName, report.ReferrersOf(key)),
		CSV:      export.WritePlainCSV,
	})
}
