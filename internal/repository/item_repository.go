package repository

import (
	"errors"

	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
)

// ItemRepository 商品目录数据访问接口
type ItemRepository interface {
	List(filter ItemListFilter) ([]models.Item, int64, error)
	ListByIDs(ids []uint) ([]models.Item, error)
	GetByID(id uint) (*models.Item, error)
	CountActive() (int64, error)
	CountReferences(id uint) (int64, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormItemRepository
}

// GormItemRepository GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓库
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemRepository) WithTx(tx *gorm.DB) *GormItemRepository {
	if tx == nil {
		return r
	}
	return &GormItemRepository{db: tx}
}

// List 商品列表，按创建时间倒序
func (r *GormItemRepository) List(filter ItemListFilter) ([]models.Item, int64, error) {
	query := r.db.Model(&models.Item{})
	if filter.OnlyActive {
		query = query.Where("ativo = ?", true)
	}
	query = applyContains(query, "nome", filter.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Item, 0)
	query = applyPagination(query.Order("criado_em DESC").Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByIDs 按 ID 批量查询
func (r *GormItemRepository) ListByIDs(ids []uint) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据 ID 获取商品
func (r *GormItemRepository) GetByID(id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CountActive 统计启用的商品数量
func (r *GormItemRepository) CountActive() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Item{}).Where("ativo = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountReferences 统计引用该商品的订单项与活动关联数量
func (r *GormItemRepository) CountReferences(id uint) (int64, error) {
	var orderLines int64
	if err := r.db.Model(&models.OrderItem{}).Where("item_id = ?", id).Count(&orderLines).Error; err != nil {
		return 0, err
	}
	var links int64
	if err := r.db.Model(&models.CampaignItem{}).Where("item_id = ?", id).Count(&links).Error; err != nil {
		return 0, err
	}
	return orderLines + links, nil
}

// Create 创建商品
func (r *GormItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

// Update 更新商品名称与启用状态
func (r *GormItemRepository) Update(item *models.Item) error {
	return r.db.Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{"nome": item.Nome, "ativo": item.Ativo}).Error
}

// Delete 删除商品（被订单或活动引用时由调用方处理错误）
func (r *GormItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.Item{}, id).Error
}
