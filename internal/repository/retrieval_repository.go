package repository

import (
	"context"

	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
)

// RetrievalRepository 提货批次与明细数据访问接口
type RetrievalRepository interface {
	ListBatchIDsByOrderIDs(ctx context.Context, orderIDs []uint) ([]uint, error)
	ListItemsByBatchIDs(ctx context.Context, batchIDs []uint) ([]models.RetrievalItem, error)
	ListByOrderID(ctx context.Context, orderID uint) ([]models.Retrieval, error)
	CreateBatch(ctx context.Context, batch *models.Retrieval) error
	CreateItems(ctx context.Context, items []models.RetrievalItem) error
	WithTx(tx *gorm.DB) *GormRetrievalRepository
}

// GormRetrievalRepository GORM 实现
type GormRetrievalRepository struct {
	db *gorm.DB
}

// NewRetrievalRepository 创建提货仓库
func NewRetrievalRepository(db *gorm.DB) *GormRetrievalRepository {
	return &GormRetrievalRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRetrievalRepository) WithTx(tx *gorm.DB) *GormRetrievalRepository {
	if tx == nil {
		return r
	}
	return &GormRetrievalRepository{db: tx}
}

// ListBatchIDsByOrderIDs 查询订单下所有提货批次 ID，空集合直接返回不发查询
func (r *GormRetrievalRepository) ListBatchIDsByOrderIDs(ctx context.Context, orderIDs []uint) ([]uint, error) {
	ids := make([]uint, 0)
	if len(orderIDs) == 0 {
		return ids, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Retrieval{}).
		Where("pedido_id IN ?", orderIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListItemsByBatchIDs 查询批次明细，空集合直接返回不发查询
func (r *GormRetrievalRepository) ListItemsByBatchIDs(ctx context.Context, batchIDs []uint) ([]models.RetrievalItem, error) {
	items := make([]models.RetrievalItem, 0)
	if len(batchIDs) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).
		Select("id", "retirada_id", "pedido_item_id", "quantidade").
		Where("retirada_id IN ?", batchIDs).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByOrderID 查询订单的提货历史（含明细），按时间倒序
func (r *GormRetrievalRepository) ListByOrderID(ctx context.Context, orderID uint) ([]models.Retrieval, error) {
	batches := make([]models.Retrieval, 0)
	if err := r.db.WithContext(ctx).
		Preload("Itens").
		Where("pedido_id = ?", orderID).
		Order("criado_em DESC").
		Order("id DESC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// CreateBatch 创建提货批次
func (r *GormRetrievalRepository) CreateBatch(ctx context.Context, batch *models.Retrieval) error {
	return r.db.WithContext(ctx).Omit("Itens").Create(batch).Error
}

// CreateItems 批量创建提货明细
func (r *GormRetrievalRepository) CreateItems(ctx context.Context, items []models.RetrievalItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}
