package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/desbrava-pizza/internal/cache"
	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/export"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/repository"
)

const (
	reportCachePrefix     = "report:"
	defaultReportCacheTTL = 5 * time.Minute
)

// ReportQuery 报表查询条件
type ReportQuery struct {
	OrganizationID uint   `json:"organizacao_id"`
	CampaignID     uint   `json:"campanha_id"`
	Referrer       string `json:"referencia"`
	Buyer          string `json:"comprador"`
	OnlyPaid       bool   `json:"somente_pagos"`
}

// ReportService 报表服务
type ReportService struct {
	orderRepo    repository.OrderRepository
	campaignRepo repository.CampaignRepository
	paidStatuses []string
	cacheTTL     time.Duration
}

// NewReportService 创建报表服务
func NewReportService(orderRepo repository.OrderRepository, campaignRepo repository.CampaignRepository, cfg config.ReportConfig) *ReportService {
	statuses := make([]string, 0, len(cfg.PaidStatuses))
	for _, status := range cfg.PaidStatuses {
		if s := normStatus(status); s != "" {
			statuses = append(statuses, s)
		}
	}
	if len(statuses) == 0 {
		statuses = append(statuses, constants.DefaultPaidStatuses...)
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportCacheTTL
	}
	return &ReportService{
		orderRepo:    orderRepo,
		campaignRepo: campaignRepo,
		paidStatuses: statuses,
		cacheTTL:     ttl,
	}
}

type cachedReport struct {
	Report    *Report                `json:"report"`
	Referrers map[string][]ReportRow `json:"referrers"`
}

// Build 生成报表，Redis 启用时按条件缓存
func (s *ReportService) Build(ctx context.Context, query ReportQuery) (*Report, error) {
	query.Referrer = strings.TrimSpace(query.Referrer)
	query.Buyer = strings.TrimSpace(query.Buyer)
	key := reportCacheKey(query)

	var cached cachedReport
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("report_cache_get_failed", "key", key, "error", err)
	}
	if hit && cached.Report != nil {
		logger.Debugw("report_cache_hit", "key", key)
		cached.Report.Referrers = cached.Referrers
		return cached.Report, nil
	}

	filter := repository.ReportOrderFilter{
		OrganizationID: query.OrganizationID,
		CampaignID:     query.CampaignID,
		Referrer:       query.Referrer,
		Buyer:          query.Buyer,
	}
	if query.OnlyPaid {
		filter.Statuses = s.paidStatuses
	}
	orders, err := s.orderRepo.ListForReport(ctx, filter)
	if err != nil {
		logger.Warnw("report_fetch_orders_failed", "error", err)
		return nil, newFetchError("report_orders", err)
	}
	orgs, err := s.campaignRepo.ListOrganizations()
	if err != nil {
		return nil, newFetchError("organizations", err)
	}
	names := make(map[uint]string, len(orgs))
	for _, org := range orgs {
		names[org.ID] = org.Nome
	}

	report := AggregateReport(orders, names)
	if err := cache.SetJSON(ctx, key, cachedReport{Report: report, Referrers: report.Referrers}, s.cacheTTL); err != nil {
		logger.Warnw("report_cache_set_failed", "key", key, "error", err)
	}
	return report, nil
}

// InvalidateCache 清除全部报表缓存
func (s *ReportService) InvalidateCache(ctx context.Context, reason string) error {
	deleted, err := cache.DelByPrefix(ctx, reportCachePrefix)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logger.Debugw("report_cache_invalidated", "reason", reason, "deleted", deleted)
	}
	return nil
}

func reportCacheKey(query ReportQuery) string {
	raw, _ := json.Marshal(query)
	sum := sha1.Sum(raw)
	return reportCachePrefix + hex.EncodeToString(sum[:])
}

// SummaryExportTable 活动汇总导出
func SummaryExportTable(report *Report) export.Table {
	table := export.Table{
		Headers: []string{"organizacao", "campanha", "qtd_pizzas", "receita", "custo_total", "lucro", "margem_percent"},
	}
	if report == nil {
		return table
	}
	table.Rows = make([][]export.Cell, 0, len(report.Campaigns))
	for _, row := range report.Campaigns {
		table.Rows = append(table.Rows, []export.Cell{
			export.Text(row.OrganizationName),
			export.Text(row.CampaignName),
			export.Int(row.Qty),
			export.Text(export.Fixed2(row.Revenue.Decimal)),
			export.Text(export.Fixed2(row.Cost.Decimal)),
			export.Text(export.Fixed2(row.Profit.Decimal)),
			export.Text(export.Fixed2(row.Margin.Decimal)),
		})
	}
	return table
}

// ReferrerExportTable 单个活动的推荐人明细导出
func ReferrerExportTable(campaignName string, rows []ReportRow) export.Table {
	table := export.Table{
		Headers: []string{"campanha", "referencia", "qtd_pizzas", "receita", "custo_total", "lucro", "margem_percent"},
		Rows:    make([][]export.Cell, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []export.Cell{
			export.Text(campaignName),
			export.Text(row.Referrer),
			export.Int(row.Qty),
			export.Text(export.Fixed2(row.Revenue.Decimal)),
			export.Text(export.Fixed2(row.Cost.Decimal)),
			export.Text(export.Fixed2(row.Profit.Decimal)),
			export.Text(export.Fixed2(row.Margin.Decimal)),
		})
	}
	return table
}
