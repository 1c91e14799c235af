package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/provider"
	"github.com/desbrava-pizza/internal/queue"
	"github.com/desbrava-pizza/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container

	recalculator service.StatusRecalculator
	reports      service.ReportCacheInvalidator
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{Container: c}
	if c != nil {
		if c.OrderStatusService != nil {
			consumer.recalculator = c.OrderStatusService
		}
		if c.ReportService != nil {
			consumer.reports = c.ReportService
		}
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusRecalc, c.handleOrderStatusRecalc)
	mux.HandleFunc(queue.TaskReportCacheInvalidate, c.handleReportCacheInvalidate)
}

func (c *Consumer) handleOrderStatusRecalc(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusRecalcPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_recalc_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_recalc_skip_invalid_payload")
		return nil
	}
	if c.recalculator == nil {
		logger.Warnw("worker_order_status_recalc_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.recalculator.Recalculate(ctx, payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_status_recalc_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_status_recalc_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	logger.Infow("worker_order_status_recalc_done", "order_id", payload.OrderID)
	return nil
}

func (c *Consumer) handleReportCacheInvalidate(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ReportCacheInvalidatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_report_cache_invalidate_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if c.reports == nil {
		return nil
	}
	reason := strings.TrimSpace(payload.Reason)
	if reason == "" {
		reason = "queue"
	}
	if payload.CampaignID != 0 {
		reason = fmt.Sprintf("%s:campanha_%d", reason, payload.CampaignID)
	}
	if err := c.reports.InvalidateCache(ctx, reason); err != nil {
		logger.Warnw("worker_report_cache_invalidate_failed", "reason", reason, "error", err)
		return err
	}
	return nil
}
