package service

import (
	"context"
	"testing"

	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/repository"
)

func TestCalcRetrievalStatus(t *testing.T) {
	cases := []struct {
		name                        string
		current                     string
		ordered, retrieved, pending int
		want                        string
	}{
		{"all retrieved", constants.OrderStatusPaid, 3, 3, 0, constants.OrderStatusRetrieved},
		{"partial", constants.OrderStatusPaid, 3, 1, 2, constants.OrderStatusPartiallyRetrieved},
		{"nothing retrieved", constants.OrderStatusPaid, 3, 0, 3, constants.OrderStatusPaid},
		{"no lines", constants.OrderStatusPaid, 0, 0, 0, constants.OrderStatusPaid},
		{"canceled untouched", constants.OrderStatusCanceled, 3, 3, 0, constants.OrderStatusCanceled},
		{"deleted untouched", constants.OrderStatusDeleted, 3, 1, 2, constants.OrderStatusDeleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := calcRetrievalStatus(tc.current, tc.ordered, tc.retrieved, tc.pending)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestOrderStatusServiceSkipsCanceled(t *testing.T) {
	db := setupPizzaDB(t, "order_status_canceled")
	fx := seedCampaign(t, db, "Outono")
	order := seedOrder(t, db, fx.Campaign.ID, "DP1", constants.OrderStatusCanceled, lineSeed{ItemID: fx.Calabresa.ID, Qty: 1})
	seedRetrieval(t, db, order, map[uint]int{order.Itens[0].ID: 1})

	svc := NewOrderStatusService(repository.NewOrderRepository(db), newDeliveryServiceForTest(db))
	if err := svc.Recalculate(context.Background(), order.ID); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}
	assertOrderStatus(t, db, order.ID, constants.OrderStatusCanceled)
}
