package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/queue"
	"github.com/desbrava-pizza/internal/service"

	"github.com/hibiken/asynq"
)

type recalcStub struct {
	calls []uint
	err   error
}

func (s *recalcStub) Recalculate(_ context.Context, orderID uint) error {
	s.calls = append(s.calls, orderID)
	return s.err
}

type invalidatorStub struct {
	reasons []string
	err     error
}

func (s *invalidatorStub) InvalidateCache(_ context.Context, reason string) error {
	s.reasons = append(s.reasons, reason)
	return s.err
}

func TestHandleOrderStatusRecalc(t *testing.T) {
	stub := &recalcStub{}
	consumer := &Consumer{recalculator: stub}

	task, err := queue.NewOrderStatusRecalcTask(queue.OrderStatusRecalcPayload{OrderID: 7})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusRecalc(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(stub.calls) != 1 || stub.calls[0] != 7 {
		t.Fatalf("unexpected calls: %v", stub.calls)
	}

	stub.err = service.ErrOrderNotFound
	if err := consumer.handleOrderStatusRecalc(context.Background(), task); err != nil {
		t.Fatalf("missing order should not be retried, got %v", err)
	}

	stub.err = errors.New("db down")
	if err := consumer.handleOrderStatusRecalc(context.Background(), task); err == nil {
		t.Fatalf("transient failure should be returned for retry")
	}
}

func TestHandleOrderStatusRecalcBadPayload(t *testing.T) {
	consumer := &Consumer{recalculator: &recalcStub{}}
	task := asynq.NewTask(queue.TaskOrderStatusRecalc, []byte("{"))
	err := consumer.handleOrderStatusRecalc(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("bad payload should skip retry, got %v", err)
	}

	empty := asynq.NewTask(queue.TaskOrderStatusRecalc, []byte(`{"order_id":0}`))
	if err := consumer.handleOrderStatusRecalc(context.Background(), empty); err != nil {
		t.Fatalf("zero order id should be ignored, got %v", err)
	}
}

func TestHandleReportCacheInvalidate(t *testing.T) {
	stub := &invalidatorStub{}
	consumer := &Consumer{reports: stub}

	task, err := queue.NewReportCacheInvalidateTask(queue.ReportCacheInvalidatePayload{CampaignID: 3, Reason: "retrieval"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleReportCacheInvalidate(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
	if len(stub.reasons) != 1 || stub.reasons[0] != "retrieval:campanha_3" {
		t.Fatalf("unexpected reasons: %v", stub.reasons)
	}
}

func TestRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(asynq.NewServeMux())
	NewConsumer(nil).Register(nil)
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(nil, &Consumer{}); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("expected ErrQueueDisabled, got %v", err)
	}
	if _, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{}); !errors.Is(err, ErrQueueDisabled) {
		t.Fatalf("expected ErrQueueDisabled, got %v", err)
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}
