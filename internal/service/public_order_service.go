package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

const (
	defaultPhoneRegion = "BR"
	defaultCodePrefix  = "DP"
)

// PublicOrderService 公开菜单与下单服务
type PublicOrderService struct {
	campaignRepo repository.CampaignRepository
	linkRepo     repository.CampaignItemRepository
	orderRepo    repository.OrderRepository
	clubService  *ClubService
	reports      ReportCacheInvalidator
	phoneRegion  string
	codePrefix   string
}

// PublicOrderServiceOptions 公开下单服务依赖
type PublicOrderServiceOptions struct {
	CampaignRepo repository.CampaignRepository
	LinkRepo     repository.CampaignItemRepository
	OrderRepo    repository.OrderRepository
	ClubService  *ClubService
	Reports      ReportCacheInvalidator
	Config       config.PublicOrderConfig
}

// NewPublicOrderService 创建公开下单服务
func NewPublicOrderService(opts PublicOrderServiceOptions) *PublicOrderService {
	region := strings.ToUpper(strings.TrimSpace(opts.Config.PhoneRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	prefix := strings.ToUpper(strings.TrimSpace(opts.Config.CodePrefix))
	if prefix == "" {
		prefix = defaultCodePrefix
	}
	return &PublicOrderService{
		campaignRepo: opts.CampaignRepo,
		linkRepo:     opts.LinkRepo,
		orderRepo:    opts.OrderRepo,
		clubService:  opts.ClubService,
		reports:      opts.Reports,
		phoneRegion:  region,
		codePrefix:   prefix,
	}
}

// MenuFlavor 菜单中的口味
type MenuFlavor struct {
	ItemID uint         `json:"item_id"`
	Nome   string       `json:"nome"`
	Preco  models.Money `json:"preco"`
	Ordem  int          `json:"ordem"`
}

// Menu 公开菜单
type Menu struct {
	Campaign *models.Campaign `json:"campanha"`
	Flavors  []MenuFlavor     `json:"sabores"`
}

// PublicOrderInput 公开下单输入，Flavors 以商品 ID 为键
type PublicOrderInput struct {
	NomeComprador  string
	Whatsapp       string
	NomeReferencia string
	Quantidade     int
	Flavors        map[uint]int
}

// PublicOrderResult 下单结果与付款信息
type PublicOrderResult struct {
	CodigoPedido string       `json:"codigo_pedido"`
	ValorTotal   models.Money `json:"valor_total"`
	Status       string       `json:"status"`
	Club         *models.Club `json:"clube"`
}

// Menu 当前进行中的活动与启用口味
func (s *PublicOrderService) Menu() (*Menu, error) {
	campaign, err := s.activeCampaign()
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListByCampaign(campaign.ID, true)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	flavors := make([]MenuFlavor, 0, len(links))
	for _, link := range links {
		if !offeredInMenu(link) {
			continue
		}
		flavors = append(flavors, MenuFlavor{
			ItemID: link.ItemID,
			Nome:   link.Item.Nome,
			Preco:  link.Preco,
			Ordem:  link.Ordem,
		})
	}
	return &Menu{Campaign: campaign, Flavors: flavors}, nil
}

// offeredInMenu 口味必须加载到商品且商品启用
func offeredInMenu(link models.CampaignItem) bool {
	return link.Item != nil && link.Item.Ativo
}

// Create 校验并创建订单，订单与订单项在同一事务中写入
func (s *PublicOrderService) Create(ctx context.Context, input PublicOrderInput) (*PublicOrderResult, error) {
	buyer := strings.TrimSpace(input.NomeComprador)
	referrer := strings.TrimSpace(input.NomeReferencia)
	if buyer == "" || referrer == "" || input.Quantidade <= 0 {
		return nil, ErrPublicOrderInvalid
	}
	phone, err := s.normalizePhone(input.Whatsapp)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, qty := range input.Flavors {
		if qty < 0 {
			return nil, ErrPublicOrderInvalid
		}
		sum += qty
	}
	if sum != input.Quantidade {
		return nil, ErrFlavorSumMismatch
	}

	campaign, err := s.activeCampaign()
	if err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListByCampaign(campaign.ID, true)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	available := make(map[uint]bool, len(links))
	for _, link := range links {
		available[link.ItemID] = offeredInMenu(link)
	}

	lines := make([]models.OrderItem, 0, len(input.Flavors))
	for itemID, qty := range input.Flavors {
		if qty == 0 {
			continue
		}
		if !available[itemID] {
			return nil, ErrItemUnavailable
		}
		lines = append(lines, models.OrderItem{ItemID: itemID, Quantidade: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })

	total := campaign.PrecoBase.Decimal.Mul(decimal.NewFromInt(int64(input.Quantidade)))
	order := models.Order{
		CampanhaID:     campaign.ID,
		CodigoPedido:   generateOrderCode(s.codePrefix, time.Now()),
		NomeComprador:  buyer,
		Whatsapp:       phone,
		NomeReferencia: referrer,
		Quantidade:     input.Quantidade,
		ValorTotal:     models.NewMoneyFromDecimal(total),
		Status:         constants.OrderStatusAwaitingPayment,
	}
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(&order, lines); err != nil {
			return newWriteError("order", err)
		}
		return nil
	})
	if err != nil {
		logger.Warnw("public_order_create_failed", "campaign_id", campaign.ID, "error", err)
		return nil, err
	}
	logger.Infow("public_order_created",
		"order_id", order.ID,
		"codigo_pedido", order.CodigoPedido,
		"quantidade", order.Quantidade,
	)

	if s.reports != nil {
		if err := s.reports.InvalidateCache(ctx, "public_order"); err != nil {
			logger.Warnw("report_cache_invalidate_failed", "campaign_id", campaign.ID, "error", err)
		}
	}

	result := &PublicOrderResult{
		CodigoPedido: order.CodigoPedido,
		ValorTotal:   order.ValorTotal,
		Status:       order.Status,
	}
	if s.clubService != nil {
		if club, err := s.clubService.Get(); err == nil {
			result.Club = club
		} else {
			logger.Warnw("public_order_club_lookup_failed", "error", err)
		}
	}
	return result, nil
}

func (s *PublicOrderService) activeCampaign() (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetActiveCampaign()
	if err != nil {
		return nil, newFetchError("campaigns", err)
	}
	if campaign == nil {
		return nil, ErrNoActiveCampaign
	}
	return campaign, nil
}

// normalizePhone 校验号码并返回仅含数字的国际格式
func (s *PublicOrderService) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrPhoneInvalid
	}
	num, err := libphonenumber.Parse(raw, s.phoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", ErrPhoneInvalid
	}
	return strings.TrimPrefix(libphonenumber.Format(num, libphonenumber.E164), "+"), nil
}

func generateOrderCode(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s%s", prefix, now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
