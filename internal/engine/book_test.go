package engine

import (
	"testing"

	"github.com/efreitasn/matchcore/internal/domain"
)

func drainIDs(book *OrderBook, side domain.Side) []uint64 {
	var ids []uint64
	for {
		o, ok := book.Best(side)
		if !ok {
			return ids
		}
		ids = append(ids, o.ID)
		book.RemoveBest(side)
	}
}

func TestOrderBook_PriceTimePriority(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newOrder(1, domain.SideBuy, 100, 10))
	book.Enqueue(newOrder(2, domain.SideBuy, 102, 10))
	book.Enqueue(newOrder(3, domain.SideBuy, 100, 10))

	if ids := drainIDs(book, domain.SideBuy); len(ids) != 3 || ids[0] != 2 || ids[1] != 1 || ids[2] != 3 {
		t.Errorf("expected bid order [2 1 3], got %v", ids)
	}

	book.Enqueue(newOrder(4, domain.SideSell, 100, 10))
	book.Enqueue(newOrder(5, domain.SideSell, 98, 10))
	book.Enqueue(newOrder(6, domain.SideSell, 100, 10))

	if ids := drainIDs(book, domain.SideSell); len(ids) != 3 || ids[0] != 5 || ids[1] != 4 || ids[2] != 6 {
		t.Errorf("expected ask order [5 4 6], got %v", ids)
	}
}

func TestOrderBook_FindAndRemoveByID(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newOrder(1, domain.SideBuy, 100, 10))
	book.Enqueue(newOrder(2, domain.SideBuy, 101, 10))

	if o := book.FindByID(domain.SideBuy, 1); o == nil || o.ID != 1 {
		t.Fatal("expected to find order 1 on the buy side")
	}
	if o := book.FindByID(domain.SideSell, 1); o != nil {
		t.Error("order 1 must not be found on the sell side")
	}
	if !book.RemoveByID(domain.SideBuy, 1) {
		t.Fatal("expected removal of order 1 to succeed")
	}
	if book.RemoveByID(domain.SideBuy, 1) {
		t.Error("second removal must report absence")
	}
	if book.Len(domain.SideBuy) != 1 {
		t.Errorf("expected 1 remaining bid, got %d", book.Len(domain.SideBuy))
	}
}

func TestOrderBook_RestoreReinstatesQueuePosition(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newOrder(1, domain.SideSell, 100, 10))
	book.Enqueue(newOrder(2, domain.SideSell, 100, 10))
	book.Enqueue(newOrder(3, domain.SideSell, 100, 10))

	target := book.FindByID(domain.SideSell, 2)
	snap := target.Snapshot()
	seq := book.SeqOf(2)
	book.RemoveByID(domain.SideSell, 2)

	book.Restore(snap, seq)

	if ids := drainIDs(book, domain.SideSell); ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("expected restored FIFO order [1 2 3], got %v", ids)
	}
}

func TestOrderBook_RestoreDisplacesReplenishedIncarnation(t *testing.T) {
	book := NewOrderBook()
	iceberg := newIceberg(1, domain.SideSell, 100, 20, 10)
	book.Enqueue(iceberg)
	book.Enqueue(newOrder(2, domain.SideSell, 100, 5))

	snap := iceberg.Snapshot()
	seq := book.SeqOf(1)

	// Simulate a consumed peak rejoining the back of the level.
	book.RemoveByID(domain.SideSell, 1)
	iceberg.Fill(10)
	book.Enqueue(iceberg)

	book.Restore(snap, seq)

	best, _ := book.Best(domain.SideSell)
	if best.ID != 1 || best.Quantity != 20 || best.VisibleQuantity() != 10 {
		t.Errorf("expected iceberg back at front with 20/10, got id=%d %d/%d",
			best.ID, best.Quantity, best.VisibleQuantity())
	}
	if book.Len(domain.SideSell) != 2 {
		t.Errorf("expected 2 asks after restore, got %d", book.Len(domain.SideSell))
	}
}

func TestOrderBook_OpenOrdersArePrefixAtClearingPrice(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newOrder(1, domain.SideBuy, 105, 10))
	book.Enqueue(newOrder(2, domain.SideBuy, 100, 10))
	book.Enqueue(newOrder(3, domain.SideBuy, 95, 10))
	book.Enqueue(newOrder(4, domain.SideSell, 96, 10))
	book.Enqueue(newOrder(5, domain.SideSell, 100, 10))
	book.Enqueue(newOrder(6, domain.SideSell, 104, 10))

	buys := book.OpenOrders(100, domain.SideBuy)
	if len(buys) != 2 || buys[0].ID != 1 || buys[1].ID != 2 {
		t.Errorf("expected open buys [1 2], got %v", buys)
	}
	sells := book.OpenOrders(100, domain.SideSell)
	if len(sells) != 2 || sells[0].ID != 4 || sells[1].ID != 5 {
		t.Errorf("expected open sells [4 5], got %v", sells)
	}
}

func TestOrderBook_LevelsAggregateVisibleQuantity(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newOrder(1, domain.SideSell, 100, 10))
	book.Enqueue(newIceberg(2, domain.SideSell, 100, 50, 5))
	book.Enqueue(newOrder(3, domain.SideSell, 102, 7))

	levels := book.Levels(domain.SideSell, 10)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Price != 100 || levels[0].TotalQuantity != 15 || levels[0].OrderCount != 2 {
		t.Errorf("level 100 should show 15 visible across 2 orders, got %+v", levels[0])
	}
	if levels[1].Price != 102 || levels[1].TotalQuantity != 7 {
		t.Errorf("level 102 should show 7, got %+v", levels[1])
	}

	if got := book.Levels(domain.SideSell, 1); len(got) != 1 {
		t.Errorf("expected depth limit of 1 level, got %d", len(got))
	}
}

func TestOrderBook_TotalSellQuantityBy(t *testing.T) {
	book := NewOrderBook()
	book.Enqueue(newIceberg(1, domain.SideSell, 100, 50, 5))
	book.Enqueue(newOrder(2, domain.SideSell, 101, 10))
	other := newOrder(3, domain.SideSell, 102, 30)
	other.ShareholderID = "other"
	book.Enqueue(other)
	book.Enqueue(newOrder(4, domain.SideBuy, 90, 99))

	// True quantity counts, not the displayed slice.
	if got := book.TotalSellQuantityBy("seller"); got != 60 {
		t.Errorf("expected seller's resting sell quantity 60, got %d", got)
	}
	if got := book.TotalSellQuantityBy("other"); got != 30 {
		t.Errorf("expected other's resting sell quantity 30, got %d", got)
	}
}
