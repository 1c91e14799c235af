package queue

import (
	"encoding/json"
	"fmt"

	"github.com/desbrava-pizza/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusRecalc 订单提货状态重算任务
	TaskOrderStatusRecalc = constants.TaskOrderStatusRecalc
	// TaskReportCacheInvalidate 报表缓存失效任务
	TaskReportCacheInvalidate = constants.TaskReportCacheInvalidate
)

// OrderStatusRecalcPayload 订单状态重算任务载荷
type OrderStatusRecalcPayload struct {
	OrderID uint `json:"order_id"`
}

// ReportCacheInvalidatePayload 报表缓存失效任务载荷
type ReportCacheInvalidatePayload struct {
	CampaignID uint   `json:"campanha_id"`
	Reason     string `json:"reason"`
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload failed: %w", taskType, err)
	}
	return asynq.NewTask(taskType, body), nil
}

// NewOrderStatusRecalcTask 创建订单状态重算任务
func NewOrderStatusRecalcTask(payload OrderStatusRecalcPayload) (*asynq.Task, error) {
	return newTask(TaskOrderStatusRecalc, payload)
}

// NewReportCacheInvalidateTask 创建报表缓存失效任务
func NewReportCacheInvalidateTask(payload ReportCacheInvalidatePayload) (*asynq.Task, error) {
	return newTask(TaskReportCacheInvalidate, payload)
}
