package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPizzaDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

type campaignFixture struct {
	Org       models.Organization
	Campaign  models.Campaign
	Calabresa models.Item
	Mussarela models.Item
}

func seedCampaign(t *testing.T, db *gorm.DB, name string) campaignFixture {
	t.Helper()
	org := models.Organization{Nome: "Clube " + name, Ativo: true}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("create organization failed: %v", err)
	}
	start := time.Now().Add(-24 * time.Hour)
	campaign := models.Campaign{
		OrganizacaoID: org.ID,
		Nome:          name,
		DataInicio:    &start,
		PrecoBase:     models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
		CustoPizza:    models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		Ativa:         true,
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	calabresa := models.Item{Nome: "Calabresa", Ativo: true}
	mussarela := models.Item{Nome: "Mussarela", Ativo: true}
	if err := db.Create(&calabresa).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	if err := db.Create(&mussarela).Error; err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	for i, item := range []models.Item{calabresa, mussarela} {
		link := models.CampaignItem{
			CampanhaID: campaign.ID,
			ItemID:     item.ID,
			Ordem:      i + 1,
			Preco:      models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			Ativo:      true,
		}
		if err := db.Omit("Item").Create(&link).Error; err != nil {
			t.Fatalf("create campaign item failed: %v", err)
		}
	}
	return campaignFixture{Org: org, Campaign: campaign, Calabresa: calabresa, Mussarela: mussarela}
}

type lineSeed struct {
	ItemID uint
	Qty    int
}

func seedOrder(t *testing.T, db *gorm.DB, campaignID uint, code, status string, lines ...lineSeed) *models.Order {
	t.Helper()
	qty := 0
	for _, line := range lines {
		qty += line.Qty
	}
	order := models.Order{
		CampanhaID:     campaignID,
		CodigoPedido:   code,
		NomeComprador:  "Comprador " + code,
		Whatsapp:       "5511999990000",
		NomeReferencia: "Ana",
		Quantidade:     qty,
		ValorTotal:     models.NewMoneyFromDecimal(decimal.NewFromInt(int64(qty * 50))),
		Status:         status,
	}
	if status == "" {
		order.Status = constants.OrderStatusPaid
	}
	if err := db.Omit("Itens", "Campanha").Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for _, line := range lines {
		item := models.OrderItem{PedidoID: order.ID, ItemID: line.ItemID, Quantidade: line.Qty}
		if err := db.Omit("Item").Create(&item).Error; err != nil {
			t.Fatalf("create order item failed: %v", err)
		}
		order.Itens = append(order.Itens, item)
	}
	return &order
}

func seedRetrieval(t *testing.T, db *gorm.DB, order *models.Order, quantities map[uint]int) {
	t.Helper()
	batch := models.Retrieval{PedidoID: order.ID, CampanhaID: order.CampanhaID, NomeRetirante: "Seed"}
	if err := db.Omit("Itens").Create(&batch).Error; err != nil {
		t.Fatalf("create retrieval failed: %v", err)
	}
	for lineID, qty := range quantities {
		item := models.RetrievalItem{RetiradaID: batch.ID, PedidoItemID: lineID, Quantidade: qty}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("create retrieval item failed: %v", err)
		}
	}
}

func newDeliveryServiceForTest(db *gorm.DB) *DeliveryService {
	return NewDeliveryService(
		repository.NewOrderRepository(db),
		repository.NewRetrievalRepository(db),
		repository.NewCampaignRepository(db),
	)
}
