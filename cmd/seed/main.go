package main

import (
	"fmt"
	"time"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 演示数据：组织、活动、口味、后台账号与若干订单
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Nome: "Clube de Desbravadores Amigos do Paraíso", Ativo: true}
		if err := tx.Where("nome = ?", org.Nome).FirstOrCreate(&org).Error; err != nil {
			return fmt.Errorf("organization: %w", err)
		}

		start := time.Now().AddDate(0, 0, -7)
		end := time.Now().AddDate(0, 0, 21)
		campaign := models.Campaign{
			OrganizacaoID:         org.ID,
			Nome:                  "Pizza Solidária",
			DataInicio:            &start,
			DataFim:               &end,
			PrecoBase:             models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			CustoPizza:            models.NewMoneyFromDecimal(decimal.NewFromInt(22)),
			IdentificadorCentavos: 7,
			Ativa:                 true,
		}
		if err := tx.Where("organizacao_id = ? AND nome = ?", org.ID, campaign.Nome).FirstOrCreate(&campaign).Error; err != nil {
			return fmt.Errorf("campaign: %w", err)
		}

		flavors := []string{"Calabresa", "Mussarela", "Frango com Catupiry", "Portuguesa"}
		items := make([]models.Item, 0, len(flavors))
		for i, name := range flavors {
			item := models.Item{Nome: name, Ativo: true}
			if err := tx.Where("nome = ?", name).FirstOrCreate(&item).Error; err != nil {
				return fmt.Errorf("item %s: %w", name, err)
			}
			link := models.CampaignItem{
				CampanhaID: campaign.ID,
				ItemID:     item.ID,
				Ordem:      i + 1,
				Preco:      campaign.PrecoBase,
				Ativo:      true,
			}
			if err := tx.Omit("Item").
				Where("campanha_id = ? AND item_id = ?", campaign.ID, item.ID).
				FirstOrCreate(&link).Error; err != nil {
				return fmt.Errorf("campaign item %s: %w", name, err)
			}
			items = append(items, item)
		}

		for username, perfil := range map[string]string{
			"entregador": constants.ProfileDelivery,
			"financeiro": constants.ProfileFinancial,
		} {
			hash, err := bcrypt.GenerateFromPassword([]byte(username+"123"), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := models.Admin{Username: username, Nome: username, PasswordHash: string(hash), Perfil: perfil}
			if err := tx.Where("username = ?", username).FirstOrCreate(&admin).Error; err != nil {
				return fmt.Errorf("admin %s: %w", username, err)
			}
		}

		demo := []struct {
			code, buyer, phone, referrer, status string
			lines                                map[int]int
		}{
			{"DPDEMO01", "Maria Souza", "5511987654321", "Ana", constants.OrderStatusPaid, map[int]int{0: 2, 1: 1}},
			{"DPDEMO02", "José Lima", "5521912345678", "Bruno", constants.OrderStatusAwaitingPayment, map[int]int{2: 1}},
			{"DPDEMO03", "Carla Dias", "5531998877665", "Ana", constants.OrderStatusConfirmed, map[int]int{3: 2}},
		}
		for _, d := range demo {
			var count int64
			if err := tx.Model(&models.Order{}).Where("codigo_pedido = ?", d.code).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			qty := 0
			for _, q := range d.lines {
				qty += q
			}
			order := models.Order{
				CampanhaID:     campaign.ID,
				CodigoPedido:   d.code,
				NomeComprador:  d.buyer,
				Whatsapp:       d.phone,
				NomeReferencia: d.referrer,
				Quantidade:     qty,
				ValorTotal:     models.NewMoneyFromDecimal(campaign.PrecoBase.Mul(decimal.NewFromInt(int64(qty)))),
				Status:         d.status,
			}
			if err := tx.Omit("Itens", "Campanha").Create(&order).Error; err != nil {
				return fmt.Errorf("order %s: %w", d.code, err)
			}
			for idx, q := range d.lines {
				line := models.OrderItem{PedidoID: order.ID, ItemID: items[idx].ID, Quantidade: q}
				if err := tx.Omit("Item").Create(&line).Error; err != nil {
					return fmt.Errorf("order item %s: %w", d.code, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	stdLog.Printf("Seed completed")
}
