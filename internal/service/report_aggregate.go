package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ReportRow 报表行（活动汇总、推荐人明细与总计共用）
type ReportRow struct {
	CampaignKey      string       `json:"campanha_id,omitempty"`
	CampaignName     string       `json:"campanha_nome,omitempty"`
	OrganizationID   uint         `json:"organizacao_id,omitempty"`
	OrganizationName string       `json:"organizacao,omitempty"`
	Referrer         string       `json:"nome_referencia,omitempty"`
	Qty              int          `json:"qtd_pizzas"`
	Revenue          models.Money `json:"receita"`
	Cost             models.Money `json:"custo_total"`
	Profit           models.Money `json:"lucro"`
	Margin           models.Money `json:"margem_percent"`
}

// Report 报表结果
type Report struct {
	Campaigns     []ReportRow            `json:"campanhas"`
	Total         ReportRow              `json:"total"`
	Referrers     map[string][]ReportRow `json:"-"`
	OrderCount    int                    `json:"pedidos"`
	ExcludedCount int                    `json:"excluidos"`
	StatusCounts  map[string]int         `json:"status_encontrados"`
	Diagnostics   ReportDiagnostics      `json:"diagnostico"`
}

// ReportDiagnostics 数据质量诊断，仅统计未剔除的订单
type ReportDiagnostics struct {
	WithoutCampaign   int `json:"sem_campanha"`
	CampaignNotLoaded int `json:"campanha_nao_carregada"`
	OrderQtySum       int `json:"soma_qtd_pedidos"`
	LineQtySum        int `json:"soma_qtd_itens"`
	QtyMismatch       int `json:"pedidos_com_divergencia"`
}

func (d *ReportDiagnostics) observe(order models.Order) {
	switch {
	case order.CampanhaID == 0:
		d.WithoutCampaign++
	case order.Campanha == nil:
		d.CampaignNotLoaded++
	}
	lineSum := 0
	for _, item := range order.Itens {
		lineSum += item.Quantidade
	}
	d.OrderQtySum += order.Quantidade
	d.LineQtySum += lineSum
	if lineSum > 0 && lineSum != order.Quantidade {
		d.QtyMismatch++
	}
}

// ReferrersOf 指定活动的推荐人明细
func (r *Report) ReferrersOf(campaignKey string) []ReportRow {
	if r == nil || r.Referrers == nil {
		return []ReportRow{}
	}
	rows, ok := r.Referrers[campaignKey]
	if !ok {
		return []ReportRow{}
	}
	return rows
}

// Campaign 按活动键查找汇总行
func (r *Report) Campaign(campaignKey string) (ReportRow, bool) {
	if r == nil {
		return ReportRow{}, false
	}
	for _, row := range r.Campaigns {
		if row.CampaignKey == campaignKey {
			return row, true
		}
	}
	return ReportRow{}, false
}

type reportAcc struct {
	row     ReportRow
	revenue decimal.Decimal
	cost    decimal.Decimal
	profit  decimal.Decimal
}

func (a *reportAcc) add(qty int, revenue, cost decimal.Decimal) {
	a.row.Qty += qty
	a.revenue = a.revenue.Add(revenue)
	a.cost = a.cost.Add(cost)
	a.profit = a.profit.Add(revenue.Sub(cost))
}

func (a *reportAcc) finish() ReportRow {
	row := a.row
	row.Revenue = models.NewMoneyFromDecimal(a.revenue)
	row.Cost = models.NewMoneyFromDecimal(a.cost)
	row.Profit = models.NewMoneyFromDecimal(a.profit)
	row.Margin = models.NewMoneyFromDecimal(MarginPercent(a.profit, a.revenue))
	return row
}

// MarginPercent 利润率 = 利润 / 收入 × 100，收入为 0 时为 0
func MarginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(decimal.NewFromInt(100))
}

// PizzaQuantity 订单披萨数：订单项数量之和大于 0 时取之和，否则取订单申报数量
func PizzaQuantity(order models.Order) int {
	sum := 0
	for _, item := range order.Itens {
		sum += item.Quantidade
	}
	if sum > 0 {
		return sum
	}
	return order.Quantidade
}

func normStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func campaignKeyOf(order models.Order) string {
	if order.CampanhaID == 0 {
		return constants.NoCampaignID
	}
	return strconv.FormatUint(uint64(order.CampanhaID), 10)
}

// AggregateReport 按活动与推荐人汇总收入、成本与利润，excluido 订单被剔除并计数
func AggregateReport(orders []models.Order, organizations map[uint]string) *Report {
	report := &Report{
		Campaigns:    []ReportRow{},
		Referrers:    map[string][]ReportRow{},
		StatusCounts: map[string]int{},
	}

	byCampaign := map[string]*reportAcc{}
	campaignOrder := make([]string, 0)
	byReferrer := map[string]map[string]*reportAcc{}
	referrerOrder := map[string][]string{}

	for _, order := range orders {
		status := normStatus(order.Status)
		if status == constants.OrderStatusDeleted {
			report.ExcludedCount++
			continue
		}
		report.OrderCount++
		if status == "" {
			status = constants.NoReferrerPlaceholder
		}
		report.StatusCounts[status]++
		report.Diagnostics.observe(order)

		key := campaignKeyOf(order)
		unitCost := decimal.Zero
		if order.Campanha != nil {
			unitCost = order.Campanha.CustoPizza.Decimal
		}
		qty := PizzaQuantity(order)
		revenue := order.ValorTotal.Decimal
		cost := unitCost.Mul(decimal.NewFromInt(int64(qty)))

		acc, ok := byCampaign[key]
		if !ok {
			acc = &reportAcc{row: newCampaignRow(key, order, organizations)}
			byCampaign[key] = acc
			campaignOrder = append(campaignOrder, key)
		}
		acc.add(qty, revenue, cost)

		referrer := strings.TrimSpace(order.NomeReferencia)
		if referrer == "" {
			referrer = constants.NoReferrerPlaceholder
		}
		group, ok := byReferrer[key]
		if !ok {
			group = map[string]*reportAcc{}
			byReferrer[key] = group
		}
		racc, ok := group[referrer]
		if !ok {
			racc = &reportAcc{row: ReportRow{
				CampaignKey:  key,
				CampaignName: acc.row.CampaignName,
				Referrer:     referrer,
			}}
			group[referrer] = racc
			referrerOrder[key] = append(referrerOrder[key], referrer)
		}
		racc.add(qty, revenue, cost)
	}

	total := &reportAcc{}
	for _, key := range campaignOrder {
		acc := byCampaign[key]
		report.Campaigns = append(report.Campaigns, acc.finish())
		total.row.Qty += acc.row.Qty
		total.revenue = total.revenue.Add(acc.revenue)
		total.cost = total.cost.Add(acc.cost)
		total.profit = total.profit.Add(acc.profit)

		rows := make([]ReportRow, 0, len(referrerOrder[key]))
		for _, name := range referrerOrder[key] {
			rows = append(rows, byReferrer[key][name].finish())
		}
		report.Referrers[key] = sortReferrers(rows)
	}
	sort.SliceStable(report.Campaigns, func(i, j int) bool {
		return report.Campaigns[i].Revenue.GreaterThan(report.Campaigns[j].Revenue.Decimal)
	})
	report.Total = total.finish()
	return report
}

func newCampaignRow(key string, order models.Order, organizations map[uint]string) ReportRow {
	row := ReportRow{CampaignKey: key}
	switch {
	case order.Campanha != nil && strings.TrimSpace(order.Campanha.Nome) != "":
		row.CampaignName = order.Campanha.Nome
	case key == constants.NoCampaignID:
		row.CampaignName = constants.NoCampaignName
	default:
		row.CampaignName = constants.NoReferrerPlaceholder
	}
	if order.Campanha != nil {
		row.OrganizationID = order.Campanha.OrganizacaoID
	}
	row.OrganizationName = organizationLabel(row.OrganizationID, organizations)
	return row
}

func organizationLabel(id uint, organizations map[uint]string) string {
	if name, ok := organizations[id]; ok && name != "" {
		return name
	}
	if id != 0 {
		return strconv.FormatUint(uint64(id), 10)
	}
	return constants.NoReferrerPlaceholder
}

// sortReferrers 先按利润倒序，再按 pt-BR 名称（忽略大小写与重音）稳定排序
func sortReferrers(rows []ReportRow) []ReportRow {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Profit.GreaterThan(rows[j].Profit.Decimal)
	})
	collator := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(rows, func(i, j int) bool {
		return collator.CompareString(rows[i].Referrer, rows[j].Referrer) < 0
	})
	return rows
}
