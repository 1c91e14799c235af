package service

import (
	"context"
	"strings"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"
)

// StatusRecalculator 按提货进度重算订单状态
type StatusRecalculator interface {
	Recalculate(ctx context.Context, orderID uint) error
}

// OrderStatusService 基于订单项与提货明细写回订单状态
type OrderStatusService struct {
	orderRepo repository.OrderRepository
	ledger    *DeliveryService
}

// NewOrderStatusService 创建订单状态服务
func NewOrderStatusService(orderRepo repository.OrderRepository, ledger *DeliveryService) *OrderStatusService {
	return &OrderStatusService{orderRepo: orderRepo, ledger: ledger}
}

// Recalculate 重算并写回订单状态，cancelado 与 excluido 不会被改写
func (s *OrderStatusService) Recalculate(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	retrieved, err := s.ledger.LoadLedger(ctx, []uint{order.ID})
	if err != nil {
		return err
	}
	ordered, got, pending := fulfillmentTotals(order.Itens, retrieved)
	next := calcRetrievalStatus(order.Status, ordered, got, pending)
	if next == order.Status {
		return nil
	}
	return s.orderRepo.UpdateStatus(order.ID, next)
}

func fulfillmentTotals(items []models.OrderItem, retrieved map[uint]int) (ordered, got, pending int) {
	for _, item := range items {
		r := retrieved[item.ID]
		ordered += item.Quantidade
		got += r
		pending += PendingQuantity(item.Quantidade, r)
	}
	return ordered, got, pending
}

func calcRetrievalStatus(current string, ordered, retrieved, pending int) string {
	switch strings.ToLower(strings.TrimSpace(current)) {
	case constants.OrderStatusCanceled, constants.OrderStatusDeleted:
		return current
	}
	if ordered > 0 && pending == 0 {
		return constants.OrderStatusRetrieved
	}
	if retrieved > 0 {
		return constants.OrderStatusPartiallyRetrieved
	}
	return current
}
