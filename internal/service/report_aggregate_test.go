package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"github.com/shopspring/decimal"
)

func money(v string) models.Money {
	m, err := models.NewMoneyFromString(v)
	if err != nil {
		panic(err)
	}
	return m
}

func reportOrder(campaign *models.Campaign, referrer, status, total string, quantidade int, lines ...int) models.Order {
	order := models.Order{
		NomeReferencia: referrer,
		Status:         status,
		ValorTotal:     money(total),
		Quantidade:     quantidade,
		Campanha:       campaign,
	}
	if campaign != nil {
		order.CampanhaID = campaign.ID
	}
	for _, qty := range lines {
		order.Itens = append(order.Itens, models.OrderItem{Quantidade: qty})
	}
	return order
}

func TestPizzaQuantityFallsBackToOrderQuantity(t *testing.T) {
	if got := PizzaQuantity(reportOrder(nil, "", "pago", "0", 4, 2, 1)); got != 3 {
		t.Fatalf("expected sum of lines 3, got %d", got)
	}
	if got := PizzaQuantity(reportOrder(nil, "", "pago", "0", 4)); got != 4 {
		t.Fatalf("expected order quantity 4, got %d", got)
	}
	if got := PizzaQuantity(reportOrder(nil, "", "pago", "0", 4, 0)); got != 4 {
		t.Fatalf("zero line sum should fall back, got %d", got)
	}
}

func TestAggregateReportProfitAndMargin(t *testing.T) {
	campaign := &models.Campaign{ID: 1, Nome: "Outono", OrganizacaoID: 9, CustoPizza: money("20")}
	orders := []models.Order{
		reportOrder(campaign, "Ana", "pago", "100", 2, 2),
		reportOrder(campaign, "Bruno", "pago", "50", 1, 1),
	}
	report := AggregateReport(orders, map[uint]string{9: "Clube"})

	if len(report.Campaigns) != 1 {
		t.Fatalf("expected 1 campaign row, got %d", len(report.Campaigns))
	}
	row := report.Campaigns[0]
	if row.Qty != 3 || row.Revenue.String() != "150.00" || row.Cost.String() != "60.00" || row.Profit.String() != "90.00" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Margin.String() != "60.00" {
		t.Fatalf("unexpected margin: %s", row.Margin.String())
	}
	if row.OrganizationName != "Clube" || row.CampaignKey != "1" {
		t.Fatalf("unexpected labels: %+v", row)
	}
	if !row.Profit.Equal(row.Revenue.Sub(row.Cost.Decimal)) {
		t.Fatalf("profit must equal revenue minus cost")
	}
	if report.Total.Profit.String() != "90.00" {
		t.Fatalf("unexpected total: %+v", report.Total)
	}
}

func TestAggregateReportZeroRevenueMargin(t *testing.T) {
	campaign := &models.Campaign{ID: 1, Nome: "Outono", CustoPizza: money("20")}
	report := AggregateReport([]models.Order{reportOrder(campaign, "Ana", "pago", "0", 1, 1)}, nil)
	row := report.Campaigns[0]
	if !row.Margin.IsZero() {
		t.Fatalf("margin should be 0 when revenue is 0, got %s", row.Margin.String())
	}
	if row.Profit.String() != "-20.00" {
		t.Fatalf("unexpected profit: %s", row.Profit.String())
	}
	if MarginPercent(decimal.NewFromInt(5), decimal.Zero).Sign() != 0 {
		t.Fatalf("MarginPercent must be 0 for zero revenue")
	}
}

func TestAggregateReportExcludesDeletedAndSortsByRevenue(t *testing.T) {
	small := &models.Campaign{ID: 1, Nome: "Pequena", CustoPizza: money("10")}
	big := &models.Campaign{ID: 2, Nome: "Grande", CustoPizza: money("10")}
	orders := []models.Order{
		reportOrder(small, "Ana", "pago", "30", 1, 1),
		reportOrder(big, "Ana", " Excluido ", "999", 1, 1),
		reportOrder(big, "Ana", "pago", "80", 1, 1),
		reportOrder(nil, "", "pago", "5", 1),
	}
	report := AggregateReport(orders, nil)

	if report.ExcludedCount != 1 || report.OrderCount != 3 {
		t.Fatalf("unexpected counts: excluded=%d orders=%d", report.ExcludedCount, report.OrderCount)
	}
	if len(report.Campaigns) != 3 {
		t.Fatalf("expected 3 campaign rows, got %d", len(report.Campaigns))
	}
	if report.Campaigns[0].CampaignName != "Grande" || report.Campaigns[1].CampaignName != "Pequena" {
		t.Fatalf("campaigns should be sorted by revenue: %+v", report.Campaigns)
	}
	missing := report.Campaigns[2]
	if missing.CampaignKey != constants.NoCampaignID || missing.CampaignName != constants.NoCampaignName {
		t.Fatalf("unexpected missing campaign row: %+v", missing)
	}
	if report.Total.Revenue.String() != "115.00" {
		t.Fatalf("unexpected total revenue: %s", report.Total.Revenue.String())
	}
}

func TestAggregateReportReferrersSortedByCollation(t *testing.T) {
	campaign := &models.Campaign{ID: 3, Nome: "Inverno", CustoPizza: money("10")}
	orders := []models.Order{
		reportOrder(campaign, "bruno", "pago", "100", 1, 1),
		reportOrder(campaign, "Ágata", "pago", "10", 1, 1),
		reportOrder(campaign, "  ", "pago", "20", 1, 1),
		reportOrder(campaign, "Carla", "pago", "50", 1, 1),
		reportOrder(campaign, " Carla ", "pago", "50", 1, 1),
	}
	report := AggregateReport(orders, nil)
	rows := report.ReferrersOf(strconv.Itoa(3))
	if len(rows) != 4 {
		t.Fatalf("expected 4 referrer rows, got %d", len(rows))
	}
	got := []string{rows[0].Referrer, rows[1].Referrer, rows[2].Referrer, rows[3].Referrer}
	want := []string{constants.NoReferrerPlaceholder, "Ágata", "bruno", "Carla"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
	if rows[3].Qty != 2 || rows[3].Revenue.String() != "100.00" {
		t.Fatalf("trimmed names should merge: %+v", rows[3])
	}
	if len(report.ReferrersOf("404")) != 0 {
		t.Fatalf("unknown campaign should yield empty rows")
	}
}

func TestReportExportTables(t *testing.T) {
	campaign := &models.Campaign{ID: 1, Nome: "Outono", CustoPizza: money("20")}
	report := AggregateReport([]models.Order{
		reportOrder(campaign, "Ana", "pago", "0", 1, 1),
	}, nil)

	summary := SummaryExportTable(report)
	if summary.Headers[6] != "margem_percent" {
		t.Fatalf("unexpected headers: %v", summary.Headers)
	}
	if got := summary.Value(0, 6).Raw(); got != "0.00" {
		t.Fatalf("expected 0.00 margin, got %s", got)
	}
	if got := summary.Value(0, 4).Raw(); got != "20.00" {
		t.Fatalf("expected custo_total 20.00, got %s", got)
	}

	detail := ReferrerExportTable("Outono", report.ReferrersOf("1"))
	if detail.Value(0, 0).Raw() != "Outono" || detail.Value(0, 1).Raw() != "Ana" {
		t.Fatalf("unexpected detail row")
	}
}

func TestReportServiceOnlyPaidFilter(t *testing.T) {
	db := setupPizzaDB(t, "report_service")
	fx := seedCampaign(t, db, "Outono")
	seedOrder(t, db, fx.Campaign.ID, "DP1", constants.OrderStatusPaid, lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})
	seedOrder(t, db, fx.Campaign.ID, "DP2", constants.OrderStatusAwaitingPayment, lineSeed{ItemID: fx.Calabresa.ID, Qty: 1})
	seedOrder(t, db, fx.Campaign.ID, "DP3", constants.OrderStatusDeleted, lineSeed{ItemID: fx.Calabresa.ID, Qty: 1})

	svc := NewReportService(repository.NewOrderRepository(db), repository.NewCampaignRepository(db), config.ReportConfig{})

	all, err := svc.Build(context.Background(), ReportQuery{})
	if err != nil {
		t.Fatalf("build report failed: %v", err)
	}
	if all.OrderCount != 2 || all.ExcludedCount != 1 {
		t.Fatalf("unexpected counts: %d/%d", all.OrderCount, all.ExcludedCount)
	}
	if all.Campaigns[0].OrganizationName != "Clube Outono" {
		t.Fatalf("organization name not resolved: %+v", all.Campaigns[0])
	}

	paid, err := svc.Build(context.Background(), ReportQuery{OnlyPaid: true})
	if err != nil {
		t.Fatalf("build paid report failed: %v", err)
	}
	if paid.OrderCount != 1 || paid.Total.Qty != 2 || paid.Total.Revenue.String() != "100.00" {
		t.Fatalf("unexpected paid report: %+v", paid.Total)
	}
	if err := svc.InvalidateCache(context.Background(), "test"); err != nil {
		t.Fatalf("invalidate without redis should be a no-op: %v", err)
	}
}

func TestAggregateReportCampaignAndReferrerTotals(t *testing.T) {
	campaign := &models.Campaign{ID: 7, Nome: "X", CustoPizza: money("30")}
	report := AggregateReport([]models.Order{
		reportOrder(campaign, "Maria", "pago", "140", 2, 2),
		reportOrder(campaign, "Maria", "pago", "70", 1, 1),
		reportOrder(campaign, "João", "pago", "210", 3, 3),
	}, nil)

	row, ok := report.Campaign("7")
	if !ok {
		t.Fatalf("campaign row missing")
	}
	if row.Qty != 6 || row.Revenue.String() != "420.00" || row.Cost.String() != "180.00" || row.Profit.String() != "240.00" {
		t.Fatalf("unexpected campaign totals: %+v", row)
	}

	var maria *ReportRow
	rows := report.ReferrersOf("7")
	for i := range rows {
		if rows[i].Referrer == "Maria" {
			maria = &rows[i]
		}
	}
	if maria == nil {
		t.Fatalf("referrer Maria missing")
	}
	if maria.Qty != 3 || maria.Revenue.String() != "210.00" || maria.Cost.String() != "90.00" || maria.Profit.String() != "120.00" {
		t.Fatalf("unexpected referrer totals: %+v", *maria)
	}
}

func TestAggregateReportDiagnostics(t *testing.T) {
	campaign := &models.Campaign{ID: 1, Nome: "Outono", CustoPizza: money("20")}
	notLoaded := reportOrder(nil, "Ana", "pago", "50", 1, 1)
	notLoaded.CampanhaID = 7
	report := AggregateReport([]models.Order{
		reportOrder(campaign, "Ana", "pago", "100", 2, 2),
		reportOrder(campaign, "Bruno", "pago", "150", 4, 1, 2),
		reportOrder(campaign, "Carla", "pago", "50", 1),
		reportOrder(nil, "Davi", "pendente", "50", 1, 1),
		notLoaded,
		reportOrder(campaign, "Eva", constants.OrderStatusDeleted, "50", 9, 1),
	}, nil)

	want := ReportDiagnostics{
		WithoutCampaign:   1,
		CampaignNotLoaded: 1,
		OrderQtySum:       9,
		LineQtySum:        7,
		QtyMismatch:       1,
	}
	if report.Diagnostics != want {
		t.Fatalf("unexpected diagnostics: %+v want %+v", report.Diagnostics, want)
	}
}
