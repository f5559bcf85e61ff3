package domain

import (
	"testing"
	"time"
)

func testOrder(kind OrderKind, side Side, price, qty int64) *Order {
	o := &Order{
		ID:            1,
		Symbol:        "TEST",
		Side:          side,
		Quantity:      qty,
		Price:         price,
		BrokerID:      "b1",
		ShareholderID: "s1",
		EntryTime:     time.Now(),
		Status:        StatusNew,
		Kind:          kind,
	}
	return o
}

func TestOrder_VisibleQuantity(t *testing.T) {
	limit := testOrder(KindLimit, SideBuy, 100, 50)
	if got := limit.VisibleQuantity(); got != 50 {
		t.Errorf("limit order shows full quantity, got %d", got)
	}

	iceberg := testOrder(KindIceberg, SideBuy, 100, 50)
	iceberg.PeakSize = 10
	iceberg.Displayed = 10

	// A new iceberg exposes its full quantity until queued.
	if got := iceberg.VisibleQuantity(); got != 50 {
		t.Errorf("new iceberg shows full quantity, got %d", got)
	}
	iceberg.Queue()
	if got := iceberg.VisibleQuantity(); got != 10 {
		t.Errorf("queued iceberg shows displayed slice, got %d", got)
	}
}

func TestOrder_FillAndReplenish(t *testing.T) {
	o := testOrder(KindIceberg, SideSell, 100, 25)
	o.PeakSize = 10
	o.Queue()

	o.Fill(10)
	if o.Quantity != 15 || o.Displayed != 0 {
		t.Fatalf("expected 15 total / 0 displayed, got %d/%d", o.Quantity, o.Displayed)
	}
	o.Replenish()
	if o.Displayed != 10 {
		t.Errorf("expected displayed replenished to 10, got %d", o.Displayed)
	}

	o.Fill(10)
	o.Replenish()
	// Final slice is capped by the remaining quantity.
	if o.Quantity != 5 || o.Displayed != 5 {
		t.Errorf("expected 5/5, got %d/%d", o.Quantity, o.Displayed)
	}
}

func TestOrder_CrossesAndPriority(t *testing.T) {
	bid := testOrder(KindLimit, SideBuy, 100, 10)
	ask := testOrder(KindLimit, SideSell, 100, 10)
	if !bid.Crosses(ask) || !ask.Crosses(bid) {
		t.Error("equal prices must cross both ways")
	}
	ask.Price = 101
	if bid.Crosses(ask) {
		t.Error("bid 100 must not cross ask 101")
	}

	better := testOrder(KindLimit, SideBuy, 102, 10)
	if !better.QueuesBefore(bid) {
		t.Error("higher bid queues first")
	}
	if bid.QueuesBefore(testOrder(KindLimit, SideBuy, 100, 10)) {
		t.Error("equal prices rank by arrival, not QueuesBefore")
	}
}

func TestOrder_StopTrigger(t *testing.T) {
	buyStop := testOrder(KindStopLimit, SideBuy, 100, 10)
	buyStop.StopPrice = 110
	if buyStop.Triggered(109) {
		t.Error("buy stop must not trigger below its stop price")
	}
	if !buyStop.Triggered(110) {
		t.Error("buy stop triggers at its stop price")
	}

	sellStop := testOrder(KindStopLimit, SideSell, 100, 10)
	sellStop.StopPrice = 90
	if sellStop.Triggered(91) {
		t.Error("sell stop must not trigger above its stop price")
	}
	if !sellStop.Triggered(90) {
		t.Error("sell stop triggers at its stop price")
	}
}

func TestOrder_ActivateConvertsToLimit(t *testing.T) {
	stop := testOrder(KindStopLimit, SideBuy, 100, 10)
	stop.StopPrice = 110
	stop.Status = StatusQueued

	live := stop.Activate()
	if live.Kind != KindLimit || live.StopPrice != 0 || live.Status != StatusNew {
		t.Errorf("activation must yield a fresh limit order, got %+v", live)
	}
	if stop.Kind != KindStopLimit {
		t.Error("activation must not mutate the original")
	}
}

func TestOrder_SnapshotIsDetached(t *testing.T) {
	o := testOrder(KindLimit, SideSell, 100, 10)
	snap := o.Snapshot()
	o.Fill(4)

	if snap.Quantity != 10 {
		t.Errorf("snapshot must keep the pre-fill quantity, got %d", snap.Quantity)
	}
	if snap.Status != StatusSnapshot {
		t.Errorf("expected snapshot status, got %s", snap.Status)
	}
}

func TestOrder_ApplyUpdatePeakSizeChanges(t *testing.T) {
	o := testOrder(KindIceberg, SideSell, 100, 40)
	o.PeakSize = 10
	o.Queue()
	o.Fill(4) // displayed 6

	grow := EnterOrderRequest{Quantity: 36, Price: 100, PeakSize: 20}
	o.ApplyUpdate(grow)
	if o.PeakSize != 20 || o.Displayed != 20 {
		t.Errorf("expected grown peak to re-display 20, got peak=%d displayed=%d", o.PeakSize, o.Displayed)
	}

	shrink := EnterOrderRequest{Quantity: 36, Price: 100, PeakSize: 5}
	o.ApplyUpdate(shrink)
	if o.PeakSize != 5 || o.Displayed != 5 {
		t.Errorf("expected shrunk peak to cap display at 5, got peak=%d displayed=%d", o.PeakSize, o.Displayed)
	}
}
