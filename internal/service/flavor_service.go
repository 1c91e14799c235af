package service

import (
	"strings"

	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"gorm.io/gorm"
)

// FlavorService 活动口味（商品 + 活动关联）服务
type FlavorService struct {
	campaignRepo repository.CampaignRepository
	itemRepo     repository.ItemRepository
	linkRepo     repository.CampaignItemRepository
}

// NewFlavorService 创建口味服务
func NewFlavorService(
	campaignRepo repository.CampaignRepository,
	itemRepo repository.ItemRepository,
	linkRepo repository.CampaignItemRepository,
) *FlavorService {
	return &FlavorService{
		campaignRepo: campaignRepo,
		itemRepo:     itemRepo,
		linkRepo:     linkRepo,
	}
}

// FlavorInput 口味输入
type FlavorInput struct {
	Nome  string
	Preco *models.Money
	Ordem *int
	Ativo *bool
}

// Create 在同一事务中创建商品并关联到活动，排序自动追加
func (s *FlavorService) Create(campaignID uint, input FlavorInput) (*models.CampaignItem, error) {
	name := strings.TrimSpace(input.Nome)
	if name == "" {
		return nil, ErrItemNameRequired
	}
	price, err := validPrice(input.Preco)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaignRepo.GetCampaign(campaignID)
	if err != nil {
		return nil, newFetchError("campaigns", err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	var link models.CampaignItem
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		itemRepo := s.itemRepo.WithTx(tx)
		linkRepo := s.linkRepo.WithTx(tx)

		item := models.Item{Nome: name, Ativo: true}
		if err := itemRepo.Create(&item); err != nil {
			return newWriteError("item", err)
		}
		ordem := 0
		if input.Ordem != nil && *input.Ordem > 0 {
			ordem = *input.Ordem
		} else {
			next, err := nextOrdem(linkRepo, campaignID)
			if err != nil {
				return err
			}
			ordem = next
		}
		link = models.CampaignItem{
			CampanhaID: campaignID,
			ItemID:     item.ID,
			Ordem:      ordem,
			Preco:      price,
			Ativo:      true,
		}
		if err := linkRepo.Create(&link); err != nil {
			return newWriteError("campaign_item", err)
		}
		if input.Ativo != nil && !*input.Ativo {
			if err := linkRepo.Update(link.ID, map[string]interface{}{"ativo": false}); err != nil {
				return newWriteError("campaign_item", err)
			}
			link.Ativo = false
		}
		link.Item = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Update 修改口味名称以及活动内的排序、价格、启用状态
func (s *FlavorService) Update(linkID uint, input FlavorInput) (*models.CampaignItem, error) {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		return nil, newFetchError("campaign_items", err)
	}
	if link == nil {
		return nil, ErrCampaignItemNotFound
	}
	name := strings.TrimSpace(input.Nome)
	if name == "" {
		return nil, ErrItemNameRequired
	}
	updates := map[string]interface{}{}
	if input.Preco != nil {
		price, err := validPrice(input.Preco)
		if err != nil {
			return nil, err
		}
		updates["preco"] = price
	}
	if input.Ordem != nil {
		updates["ordem"] = *input.Ordem
	}
	if input.Ativo != nil {
		updates["ativo"] = *input.Ativo
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		item, err := s.itemRepo.WithTx(tx).GetByID(link.ItemID)
		if err != nil {
			return newFetchError("items", err)
		}
		if item == nil {
			return ErrItemNotFound
		}
		item.Nome = name
		if err := s.itemRepo.WithTx(tx).Update(item); err != nil {
			return newWriteError("item", err)
		}
		if err := s.linkRepo.WithTx(tx).Update(link.ID, updates); err != nil {
			return newWriteError("campaign_item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.linkRepo.GetByID(linkID)
}

// Deactivate 停用活动内的口味，商品本身保留
func (s *FlavorService) Deactivate(linkID uint) error {
	link, err := s.linkRepo.GetByID(linkID)
	if err != nil {
		return newFetchError("campaign_items", err)
	}
	if link == nil {
		return ErrCampaignItemNotFound
	}
	if err := s.linkRepo.Update(link.ID, map[string]interface{}{"ativo": false}); err != nil {
		return newWriteError("campaign_item", err)
	}
	return nil
}
