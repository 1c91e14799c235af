package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desbrava-pizza/internal/cache"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/queue"
	"github.com/desbrava-pizza/internal/repository"

	"gorm.io/gorm"
)

const defaultRetrievalLockTTL = 15 * time.Second

var obtainLock = cache.Obtain

// StatusWarningRecalcFailed 提货已登记，但订单状态同步重算失败
const StatusWarningRecalcFailed = "status_recalc_failed"

// RecordRetrievalInput 登记提货的输入，Quantities 以订单项 ID 为键
type RecordRetrievalInput struct {
	OrderID       uint
	RetrieverName string
	Quantities    map[uint]int
}

// RecordRetrievalResult 登记结果，StatusWarning 非空表示状态重算失败但提货已生效
type RecordRetrievalResult struct {
	BatchID       uint              `json:"retirada_id"`
	Order         *FulfillmentOrder `json:"pedido"`
	StatusWarning string            `json:"status_warning,omitempty"`
}

// ReportCacheInvalidator 清理报表缓存
type ReportCacheInvalidator interface {
	InvalidateCache(ctx context.Context, reason string) error
}

// RetrievalService 提货登记服务
type RetrievalService struct {
	delivery      *DeliveryService
	retrievalRepo repository.RetrievalRepository
	recalculator  StatusRecalculator
	queueClient   *queue.Client
	reports       ReportCacheInvalidator
	lockTTL       time.Duration
}

// RetrievalServiceOptions 提货登记服务依赖
type RetrievalServiceOptions struct {
	Delivery      *DeliveryService
	RetrievalRepo repository.RetrievalRepository
	Recalculator  StatusRecalculator
	QueueClient   *queue.Client
	Reports       ReportCacheInvalidator
	LockTTL       time.Duration
}

// NewRetrievalService 创建提货登记服务
func NewRetrievalService(opts RetrievalServiceOptions) *RetrievalService {
	ttl := opts.LockTTL
	if ttl <= 0 {
		ttl = defaultRetrievalLockTTL
	}
	return &RetrievalService{
		delivery:      opts.Delivery,
		retrievalRepo: opts.RetrievalRepo,
		recalculator:  opts.Recalculator,
		queueClient:   opts.QueueClient,
		reports:       opts.Reports,
		lockTTL:       ttl,
	}
}

// Record 登记一次提货：校验、写入批次与明细、重算订单状态并返回最新进度
func (s *RetrievalService) Record(ctx context.Context, input RecordRetrievalInput) (*RecordRetrievalResult, error) {
	name := strings.TrimSpace(input.RetrieverName)
	if name == "" {
		return nil, &RetrievalValidationError{Reason: ErrRetrieverNameRequired}
	}

	release, err := obtainLock(ctx, fmt.Sprintf("retrieval:order:%d", input.OrderID), s.lockTTL)
	switch {
	case errors.Is(err, cache.ErrLockNotObtained):
		return nil, ErrRetrievalBusy
	case err != nil:
		// Redis 故障时退化为仅依赖事务内的行锁与待提重算
		logger.Warnw("retrieval_lock_unavailable", "order_id", input.OrderID, "error", err)
		release = func() {}
	}
	defer release()

	var (
		order *FulfillmentOrder
		lines []models.RetrievalItem
		batch models.Retrieval
	)
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		delivery := s.delivery.WithTx(tx)
		if err := delivery.orderRepo.LockForUpdate(ctx, input.OrderID); err != nil {
			return newFetchError("orders", err)
		}
		current, err := delivery.LoadOrder(ctx, input.OrderID)
		if err != nil {
			return err
		}
		order = current
		lines, err = buildRetrievalLines(*order, input.Quantities)
		if err != nil {
			return err
		}

		batch = models.Retrieval{
			PedidoID:      order.ID,
			CampanhaID:    order.CampanhaID,
			NomeRetirante: name,
		}
		repo := s.retrievalRepo.WithTx(tx)
		if err := repo.CreateBatch(ctx, &batch); err != nil {
			return newWriteError("retrieval", err)
		}
		for i := range lines {
			lines[i].RetiradaID = batch.ID
		}
		if err := repo.CreateItems(ctx, lines); err != nil {
			return newWriteError("retrieval_items", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWriteFailed) {
			logger.Warnw("retrieval_write_failed", "order_id", input.OrderID, "error", err)
		}
		return nil, err
	}
	logger.Infow("retrieval_recorded",
		"order_id", order.ID,
		"retrieval_id", batch.ID,
		"lines", len(lines),
		"retriever", name,
	)

	result := &RecordRetrievalResult{BatchID: batch.ID}
	if err := s.recalculate(ctx, order.ID); err != nil {
		result.StatusWarning = StatusWarningRecalcFailed
	}
	s.invalidateReports(ctx, order.CampanhaID)

	refreshed, err := s.delivery.LoadOrder(ctx, order.ID)
	if err != nil {
		return result, err
	}
	result.Order = refreshed
	return result, nil
}

// buildRetrievalLines 负数按 0 处理，0 丢弃，超出待提数量时拒绝
func buildRetrievalLines(order FulfillmentOrder, quantities map[uint]int) ([]models.RetrievalItem, error) {
	lines := make([]models.RetrievalItem, 0, len(order.Itens))
	for _, line := range order.Itens {
		qty := quantities[line.ID]
		if qty <= 0 {
			continue
		}
		if qty > line.Pending {
			return nil, &RetrievalValidationError{
				Reason:   ErrRetrievalOverPending,
				ItemName: line.ItemName,
				Pending:  line.Pending,
			}
		}
		lines = append(lines, models.RetrievalItem{
			PedidoItemID: line.ID,
			Quantidade:   qty,
		})
	}
	if len(lines) == 0 {
		return nil, &RetrievalValidationError{Reason: ErrRetrievalEmpty}
	}
	return lines, nil
}

func (s *RetrievalService) recalculate(ctx context.Context, orderID uint) error {
	if s.recalculator == nil {
		return nil
	}
	err := s.recalculator.Recalculate(ctx, orderID)
	if err == nil {
		return nil
	}
	logger.Warnw("retrieval_status_recalc_failed", "order_id", orderID, "error", err)
	if s.queueClient.Enabled() {
		if qErr := s.queueClient.EnqueueOrderStatusRecalc(queue.OrderStatusRecalcPayload{OrderID: orderID}); qErr != nil {
			logger.Warnw("retrieval_status_recalc_enqueue_failed", "order_id", orderID, "error", qErr)
		}
	}
	return err
}

func (s *RetrievalService) invalidateReports(ctx context.Context, campaignID uint) {
	if s.reports == nil {
		return
	}
	if err := s.reports.InvalidateCache(ctx, "retrieval"); err != nil {
		logger.Warnw("report_cache_invalidate_failed", "campaign_id", campaignID, "error", err)
		if s.queueClient.Enabled() {
			_ = s.queueClient.EnqueueReportCacheInvalidate(queue.ReportCacheInvalidatePayload{
				CampaignID: campaignID,
				Reason:     "retrieval",
			})
		}
	}
}
