package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	ListForDelivery(ctx context.Context, filter OrderAggregateFilter) ([]models.Order, error)
	GetForDelivery(ctx context.Context, id uint) (*models.Order, error)
	LockForUpdate(ctx context.Context, id uint) error
	ListForReport(ctx context.Context, filter ReportOrderFilter) ([]models.Order, error)
	GetByID(id uint) (*models.Order, error)
	GetByCode(code string) (*models.Order, error)
	Create(order *models.Order, items []models.OrderItem) error
	UpdateStatus(id uint, status string) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withAggregate(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Itens.Item").
		Preload("Campanha").
		Preload("Campanha.Organizacao")
}

// campaignsOfOrganization 返回组织下活动 ID 的子查询
func (r *GormOrderRepository) campaignsOfOrganization(query *gorm.DB, organizationID uint) *gorm.DB {
	sub := query.Session(&gorm.Session{NewDB: true}).
		Model(&models.Campaign{}).
		Select("id").
		Where("organizacao_id = ?", organizationID)
	return query.Where("campanha_id IN (?)", sub)
}

// ListForDelivery 查询提货列表订单（含订单项、商品名、活动与组织）
// cancelado 与 excluido 状态始终排除，按创建时间倒序。
func (r *GormOrderRepository) ListForDelivery(ctx context.Context, filter OrderAggregateFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("status NOT IN ?", constants.DeliveryExcludedStatuses)

	if filter.OrganizationID != 0 {
		query = r.campaignsOfOrganization(query, filter.OrganizationID)
	}
	if filter.CampaignID != 0 {
		query = query.Where("campanha_id = ?", filter.CampaignID)
	}
	query = applyContains(query, "nome_referencia", filter.Referrer)
	query = applyContains(query, "nome_comprador", filter.Buyer)
	query = applyContains(query, "codigo_pedido", filter.Code)
	if digits := onlyDigits(filter.Phone); digits != "" {
		query = applyContains(query, "whatsapp", digits)
	}

	orders := make([]models.Order, 0)
	if err := r.withAggregate(query).
		Order("criado_em DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetForDelivery 获取单个可提货订单，已取消或已删除时返回 nil
func (r *GormOrderRepository) GetForDelivery(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.withAggregate(r.db.WithContext(ctx)).
		Where("status NOT IN ?", constants.DeliveryExcludedStatuses).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// LockForUpdate 事务内锁定订单行；SQLite 方言忽略行锁，写事务本身串行
func (r *GormOrderRepository) LockForUpdate(ctx context.Context, id uint) error {
	var locked models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		Take(&locked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// ListForReport 查询报表订单（含订单项数量与活动成本）
func (r *GormOrderRepository) ListForReport(ctx context.Context, filter ReportOrderFilter) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.OrganizationID != 0 {
		query = r.campaignsOfOrganization(query, filter.OrganizationID)
	}
	if filter.CampaignID != 0 {
		query = query.Where("campanha_id = ?", filter.CampaignID)
	}
	query = applyContains(query, "nome_referencia", filter.Referrer)
	query = applyContains(query, "nome_comprador", filter.Buyer)
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	orders := make([]models.Order, 0)
	if err := query.
		Preload("Itens").
		Preload("Campanha").
		Order("criado_em DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Itens").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByCode 根据订单编号获取订单
func (r *GormOrderRepository) GetByCode(code string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Where("codigo_pedido = ?", code).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Itens", "Campanha").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PedidoID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Omit("Item").Create(&items).Error; err != nil {
			return err
		}
	}
	order.Itens = items
	return nil
}

// UpdateStatus 更新订单状态
func (r *GormOrderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}
