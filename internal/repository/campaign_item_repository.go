package repository

import (
	"database/sql"
	"errors"

	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
)

// CampaignItemRepository 活动商品关联数据访问接口
type CampaignItemRepository interface {
	ListByCampaign(campaignID uint, onlyActive bool) ([]models.CampaignItem, error)
	LinkedItemIDs(campaignID uint) ([]uint, error)
	GetByID(id uint) (*models.CampaignItem, error)
	GetByPair(campaignID, itemID uint) (*models.CampaignItem, error)
	MaxOrdem(campaignID uint) (int, error)
	Create(link *models.CampaignItem) error
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormCampaignItemRepository
}

// GormCampaignItemRepository GORM 实现
type GormCampaignItemRepository struct {
	db *gorm.DB
}

// NewCampaignItemRepository 创建活动商品关联仓库
func NewCampaignItemRepository(db *gorm.DB) *GormCampaignItemRepository {
	return &GormCampaignItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCampaignItemRepository) WithTx(tx *gorm.DB) *GormCampaignItemRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignItemRepository{db: tx}
}

// ListByCampaign 活动下的商品关联（含商品名），按 ordem 升序
func (r *GormCampaignItemRepository) ListByCampaign(campaignID uint, onlyActive bool) ([]models.CampaignItem, error) {
	query := r.db.Preload("Item").Where("campanha_id = ?", campaignID)
	if onlyActive {
		query = query.Where("ativo = ?", true)
	}
	links := make([]models.CampaignItem, 0)
	if err := query.Order("ordem ASC").Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// LinkedItemIDs 活动已关联的商品 ID
func (r *GormCampaignItemRepository) LinkedItemIDs(campaignID uint) ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.Model(&models.CampaignItem{}).
		Where("campanha_id = ?", campaignID).
		Pluck("item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID 根据 ID 获取关联
func (r *GormCampaignItemRepository) GetByID(id uint) (*models.CampaignItem, error) {
	var link models.CampaignItem
	if err := r.db.Preload("Item").First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetByPair 根据活动与商品获取关联
func (r *GormCampaignItemRepository) GetByPair(campaignID, itemID uint) (*models.CampaignItem, error) {
	var link models.CampaignItem
	if err := r.db.Where("campanha_id = ? AND item_id = ?", campaignID, itemID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// MaxOrdem 活动内最大的排序值，没有关联时返回 0
func (r *GormCampaignItemRepository) MaxOrdem(campaignID uint) (int, error) {
	var max sql.NullInt64
	row := r.db.Model(&models.CampaignItem{}).
		Select("MAX(ordem)").
		Where("campanha_id = ?", campaignID).
		Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// Create 创建关联
func (r *GormCampaignItemRepository) Create(link *models.CampaignItem) error {
	return r.db.Omit("Item").Create(link).Error
}

// Update 按字段更新关联
func (r *GormCampaignItemRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.CampaignItem{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除关联
func (r *GormCampaignItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.CampaignItem{}, id).Error
}
