package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desbrava-pizza/internal/cache"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"

	"gorm.io/gorm"
)

type recordingRecalculator struct {
	calls []uint
	err   error
}

func (r *recordingRecalculator) Recalculate(ctx context.Context, orderID uint) error {
	r.calls = append(r.calls, orderID)
	return r.err
}

type countingInvalidator struct {
	reasons []string
}

func (c *countingInvalidator) InvalidateCache(ctx context.Context, reason string) error {
	c.reasons = append(c.reasons, reason)
	return nil
}

func setupRetrievalServiceTest(t *testing.T, name string, recalc StatusRecalculator) (*RetrievalService, *gorm.DB, *countingInvalidator) {
	t.Helper()
	db := setupPizzaDB(t, name)
	reports := &countingInvalidator{}
	svc := NewRetrievalService(RetrievalServiceOptions{
		Delivery:      newDeliveryServiceForTest(db),
		RetrievalRepo: repository.NewRetrievalRepository(db),
		Recalculator:  recalc,
		Reports:       reports,
	})
	return svc, db, reports
}

func countRetrievals(t *testing.T, db *gorm.DB) (int64, int64) {
	t.Helper()
	var batches, items int64
	if err := db.Model(&models.Retrieval{}).Count(&batches).Error; err != nil {
		t.Fatalf("count retrievals failed: %v", err)
	}
	if err := db.Model(&models.RetrievalItem{}).Count(&items).Error; err != nil {
		t.Fatalf("count retrieval items failed: %v", err)
	}
	return batches, items
}

func TestRecordRetrievalWritesBatchAndRecalculates(t *testing.T) {
	recalc := &recordingRecalculator{}
	svc, db, reports := setupRetrievalServiceTest(t, "retrieval_record", recalc)
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "",
		lineSeed{ItemID: fx.Calabresa.ID, Qty: 3},
		lineSeed{ItemID: fx.Mussarela.ID, Qty: 1},
	)

	result, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "  Maria  ",
		Quantities: map[uint]int{
			order.Itens[0].ID: 2,
			order.Itens[1].ID: -4,
		},
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if result.StatusWarning != "" {
		t.Fatalf("unexpected warning: %s", result.StatusWarning)
	}
	if len(recalc.calls) != 1 || recalc.calls[0] != order.ID {
		t.Fatalf("expected one recalculation for order, got %v", recalc.calls)
	}
	if len(reports.reasons) != 1 {
		t.Fatalf("expected report cache invalidation, got %v", reports.reasons)
	}

	batches, items := countRetrievals(t, db)
	if batches != 1 || items != 1 {
		t.Fatalf("expected 1 batch with 1 line, got %d/%d", batches, items)
	}
	var batch models.Retrieval
	if err := db.First(&batch).Error; err != nil {
		t.Fatalf("load batch failed: %v", err)
	}
	if batch.NomeRetirante != "Maria" || batch.CampanhaID != fx.Campaign.ID {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	if result.Order == nil {
		t.Fatalf("expected refreshed order")
	}
	line, ok := result.Order.Line(order.Itens[0].ID)
	if !ok || line.Retrieved != 2 || line.Pending != 1 {
		t.Fatalf("unexpected refreshed line: %+v", line)
	}
}

func TestRecordRetrievalRejectsOverPending(t *testing.T) {
	recalc := &recordingRecalculator{}
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_over", recalc)
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})
	seedRetrieval(t, db, order, map[uint]int{order.Itens[0].ID: 1})

	_, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 2},
	})
	if !errors.Is(err, ErrRetrievalOverPending) || !errors.Is(err, ErrRetrievalInvalid) {
		t.Fatalf("expected over pending error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Calabresa") || !strings.Contains(err.Error(), "pendente: 1") {
		t.Fatalf("error should name item and pending, got %q", err.Error())
	}
	batches, _ := countRetrievals(t, db)
	if batches != 1 {
		t.Fatalf("no batch should be written, got %d", batches)
	}
	if len(recalc.calls) != 0 {
		t.Fatalf("recalculator should not run on validation failure")
	}
}

func TestRecordRetrievalRejectsEmptyAndMissingName(t *testing.T) {
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_empty", &recordingRecalculator{})
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})

	_, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "   ",
		Quantities:    map[uint]int{order.Itens[0].ID: 1},
	})
	if !errors.Is(err, ErrRetrieverNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}

	_, err = svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 0, 9999: 3},
	})
	if !errors.Is(err, ErrRetrievalEmpty) {
		t.Fatalf("expected empty retrieval error, got %v", err)
	}
	batches, _ := countRetrievals(t, db)
	if batches != 0 {
		t.Fatalf("no batch should be written, got %d", batches)
	}
}

func TestRecordRetrievalRecalcFailureIsWarning(t *testing.T) {
	recalc := &recordingRecalculator{err: errors.New("rpc down")}
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_warn", recalc)
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})

	result, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 2},
	})
	if err != nil {
		t.Fatalf("record should succeed, got %v", err)
	}
	if result.StatusWarning != StatusWarningRecalcFailed {
		t.Fatalf("expected status warning, got %q", result.StatusWarning)
	}
	batches, items := countRetrievals(t, db)
	if batches != 1 || items != 1 {
		t.Fatalf("retrieval should persist, got %d/%d", batches, items)
	}
	if result.Order == nil || result.Order.PendingTotal != 0 {
		t.Fatalf("expected refreshed order with no pending, got %+v", result.Order)
	}
}

func TestRecordRetrievalUnknownOrder(t *testing.T) {
	svc, _, _ := setupRetrievalServiceTest(t, "retrieval_unknown", &recordingRecalculator{})
	_, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       77,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{1: 1},
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestRecordRetrievalWithStatusService(t *testing.T) {
	db := setupPizzaDB(t, "retrieval_status")
	delivery := newDeliveryServiceForTest(db)
	orderRepo := repository.NewOrderRepository(db)
	svc := NewRetrievalService(RetrievalServiceOptions{
		Delivery:      delivery,
		RetrievalRepo: repository.NewRetrievalRepository(db),
		Recalculator:  NewOrderStatusService(orderRepo, delivery),
		Reports:       &countingInvalidator{},
	})
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})

	if _, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 1},
	}); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	assertOrderStatus(t, db, order.ID, constants.OrderStatusPartiallyRetrieved)

	result, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    RetrieveAllRemaining(mustLoadOrder(t, delivery, order.ID)),
	})
	if err != nil {
		t.Fatalf("second record failed: %v", err)
	}
	assertOrderStatus(t, db, order.ID, constants.OrderStatusRetrieved)
	if result.Order.Status != constants.OrderStatusRetrieved {
		t.Fatalf("refreshed order should carry new status, got %s", result.Order.Status)
	}
}

func stubLock(t *testing.T, err error) {
	t.Helper()
	original := obtainLock
	obtainLock = func(ctx context.Context, key string, ttl time.Duration) (func(), error) {
		if err != nil {
			return nil, err
		}
		return func() {}, nil
	}
	t.Cleanup(func() { obtainLock = original })
}

func TestRecordRetrievalLockContentionIsBusy(t *testing.T) {
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_busy", &recordingRecalculator{})
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})
	stubLock(t, cache.ErrLockNotObtained)

	_, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 1},
	})
	if !errors.Is(err, ErrRetrievalBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if batches, _ := countRetrievals(t, db); batches != 0 {
		t.Fatalf("no batch should be written while locked, got %d", batches)
	}
}

func TestRecordRetrievalLockBackendFailureFallsBack(t *testing.T) {
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_lock_down", &recordingRecalculator{})
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 2})
	stubLock(t, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))

	result, err := svc.Record(context.Background(), RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 1},
	})
	if err != nil {
		t.Fatalf("redis outage should not block retrieval: %v", err)
	}
	if result == nil || result.BatchID == 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRecordRetrievalRechecksPendingPerBatch(t *testing.T) {
	svc, db, _ := setupRetrievalServiceTest(t, "retrieval_recheck", &recordingRecalculator{})
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", "", lineSeed{ItemID: fx.Calabresa.ID, Qty: 3})
	input := RecordRetrievalInput{
		OrderID:       order.ID,
		RetrieverName: "Maria",
		Quantities:    map[uint]int{order.Itens[0].ID: 2},
	}

	if _, err := svc.Record(context.Background(), input); err != nil {
		t.Fatalf("first retrieval failed: %v", err)
	}
	_, err := svc.Record(context.Background(), input)
	if !errors.Is(err, ErrRetrievalOverPending) {
		t.Fatalf("second retrieval should see pending 1, got %v", err)
	}
	batches, items := countRetrievals(t, db)
	if batches != 1 || items != 1 {
		t.Fatalf("expected only the first batch, got %d/%d", batches, items)
	}
}

func TestRetrievalValidationErrorDefaultsItemName(t *testing.T) {
	err := &RetrievalValidationError{Reason: ErrRetrievalOverPending, Pending: 2}
	if got := err.Error(); got != `quantidade inválida para "item". pendente: 2` {
		t.Fatalf("unexpected message %q", got)
	}
}

func mustLoadOrder(t *testing.T, svc *DeliveryService, id uint) FulfillmentOrder {
	t.Helper()
	order, err := svc.LoadOrder(context.Background(), id)
	if err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	return *order
}

func assertOrderStatus(t *testing.T, db *gorm.DB, id uint, want string) {
	t.Helper()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order.Status != want {
		t.Fatalf("expected status %s, got %s", want, order.Status)
	}
}
