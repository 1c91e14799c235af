package repository

import (
	"errors"

	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository 活动与组织数据访问接口
type CampaignRepository interface {
	ListCampaigns() ([]models.Campaign, error)
	ListCampaignsByStart() ([]models.Campaign, error)
	GetCampaign(id uint) (*models.Campaign, error)
	GetActiveCampaign() (*models.Campaign, error)
	ListActiveOrganizations() ([]models.Organization, error)
	ListOrganizations() ([]models.Organization, error)
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建活动仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// ListCampaigns 管理端活动列表：进行中的在前，再按开始日期倒序
func (r *GormCampaignRepository) ListCampaigns() ([]models.Campaign, error) {
	campaigns := make([]models.Campaign, 0)
	if err := r.db.
		Order("ativa DESC").
		Order("data_inicio DESC").
		Order("id DESC").
		Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListCampaignsByStart 按开始日期倒序的活动列表（提货筛选项）
func (r *GormCampaignRepository) ListCampaignsByStart() ([]models.Campaign, error) {
	campaigns := make([]models.Campaign, 0)
	if err := r.db.Order("data_inicio DESC").Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaign 根据 ID 获取活动
func (r *GormCampaignRepository) GetCampaign(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.Preload("Organizacao").First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// GetActiveCampaign 获取当前进行中的活动（多个时取最新开始的）
func (r *GormCampaignRepository) GetActiveCampaign() (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.
		Where("ativa = ?", true).
		Order("data_inicio DESC").
		Order("id DESC").
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// ListActiveOrganizations 启用的组织，按名称排序
func (r *GormCampaignRepository) ListActiveOrganizations() ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	if err := r.db.Where("ativo = ?", true).Order("nome ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListOrganizations 全部组织，按创建时间倒序
func (r *GormCampaignRepository) ListOrganizations() ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	if err := r.db.Order("criado_em DESC").Order("id DESC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}
