package service

import (
	"context"
	"strings"

	"github.com/desbrava-pizza/internal/export"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"gorm.io/gorm"
)

// DeliveryService 提货（retirada）查询服务
type DeliveryService struct {
	orderRepo     repository.OrderRepository
	retrievalRepo repository.RetrievalRepository
	campaignRepo  repository.CampaignRepository
}

// NewDeliveryService 创建提货查询服务
func NewDeliveryService(
	orderRepo repository.OrderRepository,
	retrievalRepo repository.RetrievalRepository,
	campaignRepo repository.CampaignRepository,
) *DeliveryService {
	return &DeliveryService{
		orderRepo:     orderRepo,
		retrievalRepo: retrievalRepo,
		campaignRepo:  campaignRepo,
	}
}

// WithTx 返回绑定事务的查询服务
func (s *DeliveryService) WithTx(tx *gorm.DB) *DeliveryService {
	if tx == nil {
		return s
	}
	bound := *s
	if s.orderRepo != nil {
		bound.orderRepo = s.orderRepo.WithTx(tx)
	}
	if s.retrievalRepo != nil {
		bound.retrievalRepo = s.retrievalRepo.WithTx(tx)
	}
	return &bound
}

// DeliveryView 提货列表结果
type DeliveryView struct {
	Orders []FulfillmentOrder `json:"pedidos"`
	KPIs   DeliveryKPIs       `json:"kpis"`
}

// DeliveryFilterOptions 提货筛选项
type DeliveryFilterOptions struct {
	Organizations []models.Organization `json:"organizacoes"`
	Campaigns     []models.Campaign     `json:"campanhas"`
}

// Filters 返回启用的组织与全部活动
func (s *DeliveryService) Filters() (*DeliveryFilterOptions, error) {
	orgs, err := s.campaignRepo.ListActiveOrganizations()
	if err != nil {
		return nil, newFetchError("organizations", err)
	}
	campaigns, err := s.campaignRepo.ListCampaignsByStart()
	if err != nil {
		return nil, newFetchError("campaigns", err)
	}
	return &DeliveryFilterOptions{Organizations: orgs, Campaigns: campaigns}, nil
}

// Load 查询订单与已提数量并计算提货进度，任一子查询失败时整体失败
func (s *DeliveryService) Load(ctx context.Context, filter repository.OrderAggregateFilter, onlyPending bool) (*DeliveryView, error) {
	orders, err := s.FetchOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	retrieved, err := s.LoadLedger(ctx, orderIDs(orders))
	if err != nil {
		return nil, err
	}
	list := CalculateFulfillment(orders, retrieved, onlyPending)
	return &DeliveryView{Orders: list, KPIs: SummarizeDelivery(list)}, nil
}

// LoadOrder 读取单个订单的提货进度
func (s *DeliveryService) LoadOrder(ctx context.Context, orderID uint) (*FulfillmentOrder, error) {
	order, err := s.orderRepo.GetForDelivery(ctx, orderID)
	if err != nil {
		return nil, newFetchError("orders", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	normalized := toDeliveryOrder(*order)
	retrieved, err := s.LoadLedger(ctx, []uint{normalized.ID})
	if err != nil {
		return nil, err
	}
	result := computeOrder(normalized, retrieved)
	return &result, nil
}

// History 订单的提货批次历史
func (s *DeliveryService) History(ctx context.Context, orderID uint) ([]models.Retrieval, error) {
	batches, err := s.retrievalRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, newFetchError("retrievals", err)
	}
	return batches, nil
}

// FetchOrders 读取订单聚合并规整关联结构
func (s *DeliveryService) FetchOrders(ctx context.Context, filter repository.OrderAggregateFilter) ([]DeliveryOrder, error) {
	rows, err := s.orderRepo.ListForDelivery(ctx, filter)
	if err != nil {
		logger.Warnw("delivery_fetch_orders_failed", "error", err)
		return nil, newFetchError("orders", err)
	}
	orders := make([]DeliveryOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, toDeliveryOrder(row))
	}
	return orders, nil
}

// LoadLedger 汇总订单项累计已提数量；订单集合为空时不查询，失败时返回空映射而不是旧数据
func (s *DeliveryService) LoadLedger(ctx context.Context, orderIDs []uint) (map[uint]int, error) {
	retrieved := make(map[uint]int)
	if len(orderIDs) == 0 {
		return retrieved, nil
	}
	batchIDs, err := s.retrievalRepo.ListBatchIDsByOrderIDs(ctx, orderIDs)
	if err != nil {
		logger.Warnw("delivery_fetch_retrievals_failed", "order_count", len(orderIDs), "error", err)
		return make(map[uint]int), newFetchError("retrievals", err)
	}
	if len(batchIDs) == 0 {
		return retrieved, nil
	}
	items, err := s.retrievalRepo.ListItemsByBatchIDs(ctx, batchIDs)
	if err != nil {
		logger.Warnw("delivery_fetch_retrieval_items_failed", "batch_count", len(batchIDs), "error", err)
		return make(map[uint]int), newFetchError("retrieval_items", err)
	}
	for _, item := range items {
		retrieved[item.PedidoItemID] += item.Quantidade
	}
	return retrieved, nil
}

func orderIDs(orders []DeliveryOrder) []uint {
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ids
}

func toDeliveryOrder(row models.Order) DeliveryOrder {
	order := DeliveryOrder{
		ID:             row.ID,
		CampanhaID:     row.CampanhaID,
		CodigoPedido:   row.CodigoPedido,
		NomeComprador:  row.NomeComprador,
		Whatsapp:       row.Whatsapp,
		NomeReferencia: row.NomeReferencia,
		ValorTotal:     row.ValorTotal,
		Status:         row.Status,
		CriadoEm:       row.CreatedAt,
		Lines:          make([]DeliveryLine, 0, len(row.Itens)),
	}
	if row.Campanha != nil && row.Campanha.ID != 0 {
		ref := &CampaignRef{
			ID:            row.Campanha.ID,
			Nome:          row.Campanha.Nome,
			OrganizacaoID: row.Campanha.OrganizacaoID,
		}
		if org := row.Campanha.Organizacao; org != nil && org.ID != 0 {
			ref.Organizacao = &OrganizationRef{ID: org.ID, Nome: org.Nome}
		}
		order.Campanha = ref
	}
	for _, item := range row.Itens {
		line := DeliveryLine{ID: item.ID, ItemID: item.ItemID, Ordered: item.Quantidade}
		if item.Item != nil {
			line.ItemName = strings.TrimSpace(item.Item.Nome)
		}
		order.Lines = append(order.Lines, line)
	}
	return order
}

// DeliveryExportTable 提货列表导出
func DeliveryExportTable(orders []FulfillmentOrder) export.Table {
	table := export.Table{
		Headers: []string{
			"codigo_pedido", "comprador", "referencia", "whatsapp", "campanha", "organizacao",
			"status", "qtd_pedida", "qtd_retirada", "qtd_pendente", "valor_total", "criado_em",
		},
		Rows: make([][]export.Cell, 0, len(orders)),
	}
	for _, order := range orders {
		table.Rows = append(table.Rows, []export.Cell{
			export.Text(order.CodigoPedido),
			export.Text(order.NomeComprador),
			export.Text(order.NomeReferencia),
			export.Text(order.Whatsapp),
			export.Text(order.CampaignName()),
			export.Text(order.OrganizationName()),
			export.Text(order.Status),
			export.Int(order.OrderedTotal),
			export.Int(order.RetrievedTotal),
			export.Int(order.PendingTotal),
			export.Decimal(order.ValorTotal.Decimal),
			export.Text(order.CriadoEm.Format("2006-01-02T15:04:05.000Z07:00")),
		})
	}
	return table
}

// OrderExportTable 单个订单的订单项导出，retrieveNow 为当前填写的本次提货数量
func OrderExportTable(order FulfillmentOrder, retrieveNow map[uint]int) export.Table {
	table := export.Table{
		Headers: []string{
			"codigo_pedido", "comprador", "referencia", "item",
			"qtd_pedida", "qtd_retirada", "qtd_pendente", "retirar_agora",
		},
		Rows: make([][]export.Cell, 0, len(order.Itens)),
	}
	for _, line := range order.Itens {
		table.Rows = append(table.Rows, []export.Cell{
			export.Text(order.CodigoPedido),
			export.Text(order.NomeComprador),
			export.Text(order.NomeReferencia),
			export.Text(line.ItemName),
			export.Int(line.Ordered),
			export.Int(line.Retrieved),
			export.Int(line.Pending),
			export.Int(retrieveNow[line.ID]),
		})
	}
	return table
}
