package service

import (
	"sort"
	"strings"

	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CampaignItemService 活动商品关联服务
type CampaignItemService struct {
	campaignRepo repository.CampaignRepository
	itemRepo     repository.ItemRepository
	linkRepo     repository.CampaignItemRepository
}

// NewCampaignItemService 创建活动商品关联服务
func NewCampaignItemService(
	campaignRepo repository.CampaignRepository,
	itemRepo repository.ItemRepository,
	linkRepo repository.CampaignItemRepository,
) *CampaignItemService {
	return &CampaignItemService{
		campaignRepo: campaignRepo,
		itemRepo:     itemRepo,
		linkRepo:     linkRepo,
	}
}

// CampaignItemInput 创建/更新关联输入，nil 字段不修改
type CampaignItemInput struct {
	ItemID uint
	Ordem  *int
	Preco  *models.Money
	Ativo  *bool
}

// CampaignList 活动列表与默认选中的活动
type CampaignList struct {
	Campaigns         []models.Campaign `json:"campanhas"`
	DefaultCampaignID uint              `json:"campanha_padrao_id"`
}

// ListCampaigns 活动列表，默认活动为第一个进行中的，否则第一个
func (s *CampaignItemService) ListCampaigns() (*CampaignList, error) {
	campaigns, err := s.campaignRepo.ListCampaigns()
	if err != nil {
		return nil, newFetchError("campaigns", err)
	}
	result := &CampaignList{Campaigns: campaigns}
	result.DefaultCampaignID = defaultCampaignID(campaigns)
	return result, nil
}

func defaultCampaignID(campaigns []models.Campaign) uint {
	for _, c := range campaigns {
		if c.Ativa {
			return c.ID
		}
	}
	if len(campaigns) > 0 {
		return campaigns[0].ID
	}
	return 0
}

// ListLinks 活动下的商品关联
func (s *CampaignItemService) ListLinks(campaignID uint) ([]models.CampaignItem, error) {
	if _, err := s.campaign(campaignID); err != nil {
		return nil, err
	}
	links, err := s.linkRepo.ListByCampaign(campaignID, false)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	return links, nil
}

// Options 尚未关联到活动的商品，启用的在前，再按名称排序
func (s *CampaignItemService) Options(campaignID uint) ([]models.Item, error) {
	linked, err := s.linkRepo.LinkedItemIDs(campaignID)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	items, _, err := s.itemRepo.List(repository.ItemListFilter{})
	if err != nil {
		return nil, newFetchError("items", err)
	}
	used := make(map[uint]struct{}, len(linked))
	for _, id := range linked {
		used[id] = struct{}{}
	}
	options := make([]models.Item, 0, len(items))
	for _, item := range items {
		if _, ok := used[item.ID]; ok {
			continue
		}
		options = append(options, item)
	}
	collator := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Ativo != options[j].Ativo {
			return options[i].Ativo
		}
		return collator.CompareString(options[i].Nome, options[j].Nome) < 0
	})
	return options, nil
}

// Create 关联商品到活动；ordem 小于等于 0 时排到最后
func (s *CampaignItemService) Create(campaignID uint, input CampaignItemInput) (*models.CampaignItem, error) {
	if _, err := s.campaign(campaignID); err != nil {
		return nil, err
	}
	if input.ItemID == 0 {
		return nil, ErrCampaignItemInvalid
	}
	price, err := validPrice(input.Preco)
	if err != nil {
		return nil, err
	}
	item, err := s.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, newFetchError("items", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	existing, err := s.linkRepo.GetByPair(campaignID, input.ItemID)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	if existing != nil {
		return nil, ErrCampaignItemExists
	}
	ordem, err := s.resolveOrdem(campaignID, input.Ordem)
	if err != nil {
		return nil, err
	}

	link := models.CampaignItem{
		CampanhaID: campaignID,
		ItemID:     input.ItemID,
		Ordem:      ordem,
		Preco:      price,
		Ativo:      true,
	}
	if err := s.linkRepo.Create(&link); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCampaignItemExists
		}
		return nil, newWriteError("campaign_item", err)
	}
	if input.Ativo != nil && !*input.Ativo {
		if err := s.linkRepo.Update(link.ID, map[string]interface{}{"ativo": false}); err != nil {
			return nil, newWriteError("campaign_item", err)
		}
		link.Ativo = false
	}
	link.Item = item
	return &link, nil
}

// Update 更新排序、价格与启用状态
func (s *CampaignItemService) Update(id uint, input CampaignItemInput) (*models.CampaignItem, error) {
	link, err := s.link(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.Ordem != nil {
		updates["ordem"] = *input.Ordem
	}
	if input.Preco != nil {
		price, err := validPrice(input.Preco)
		if err != nil {
			return nil, err
		}
		updates["preco"] = price
	}
	if input.Ativo != nil {
		updates["ativo"] = *input.Ativo
	}
	if err := s.linkRepo.Update(link.ID, updates); err != nil {
		return nil, newWriteError("campaign_item", err)
	}
	return s.link(id)
}

// Toggle 切换关联启用状态
func (s *CampaignItemService) Toggle(id uint) (*models.CampaignItem, error) {
	link, err := s.link(id)
	if err != nil {
		return nil, err
	}
	if err := s.linkRepo.Update(link.ID, map[string]interface{}{"ativo": !link.Ativo}); err != nil {
		return nil, newWriteError("campaign_item", err)
	}
	link.Ativo = !link.Ativo
	return link, nil
}

// Delete 删除关联
func (s *CampaignItemService) Delete(id uint) error {
	link, err := s.link(id)
	if err != nil {
		return err
	}
	if err := s.linkRepo.Delete(link.ID); err != nil {
		return newWriteError("campaign_item", err)
	}
	return nil
}

func (s *CampaignItemService) campaign(id uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetCampaign(id)
	if err != nil {
		return nil, newFetchError("campaigns", err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

func (s *CampaignItemService) link(id uint) (*models.CampaignItem, error) {
	link, err := s.linkRepo.GetByID(id)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	if link == nil {
		return nil, ErrCampaignItemNotFound
	}
	return link, nil
}

func (s *CampaignItemService) resolveOrdem(campaignID uint, ordem *int) (int, error) {
	if ordem != nil && *ordem > 0 {
		return *ordem, nil
	}
	return nextOrdem(s.linkRepo, campaignID)
}

func nextOrdem(repo repository.CampaignItemRepository, campaignID uint) (int, error) {
	max, err := repo.MaxOrdem(campaignID)
	if err != nil {
		return 0, newFetchError("campaign_items", err)
	}
	return max + 1, nil
}

func validPrice(price *models.Money) (models.Money, error) {
	if price == nil {
		return models.NewMoneyFromDecimal(decimal.Zero), nil
	}
	if price.IsNegative() {
		return models.Money{}, ErrCampaignItemInvalid
	}
	return models.NewMoneyFromDecimal(price.Decimal), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate") || strings.Contains(msg, "23505")
}
