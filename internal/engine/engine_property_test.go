package engine

import (
	"testing"

	"github.com/efreitasn/matchcore/internal/domain"
	"pgregory.net/rapid"
)

// Property: after any sequence of continuous order entries the book is
// never crossed: the best bid stays strictly below the best ask.
func TestProperty_ContinuousBookNeverCrossed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVenue()
		v.broker("buyer", 1<<40)
		v.broker("seller", 0)
		v.holder("buyer", 0)
		v.holder("seller", 1<<30)
		m := v.continuous()

		n := rapid.IntRange(1, 40).Draw(t, "n")
		for i := 1; i <= n; i++ {
			side := domain.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.SideSell
			}
			price := rapid.Int64Range(90, 110).Draw(t, "price")
			qty := rapid.Int64Range(1, 50).Draw(t, "qty")
			v.sec.NewOrder(enterReq(uint64(i), side, price, qty), m)
		}

		bid, hasBid := v.sec.Book().Best(domain.SideBuy)
		ask, hasAsk := v.sec.Book().Best(domain.SideSell)
		if hasBid && hasAsk && bid.Price >= ask.Price {
			t.Fatalf("book is crossed: best bid %d >= best ask %d", bid.Price, ask.Price)
		}
	})
}

// Property: money is conserved. The sum of all broker balances plus the
// notional reserved by resting and parked buy orders never changes, and
// per-symbol positions only move between shareholders.
func TestProperty_ConservationOfCreditAndPositions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVenue()
		buyer := v.broker("buyer", 1 << 40)
		seller := v.broker("seller", 1 << 40)
		buyerSh := v.holder("buyer", 1 << 20)
		sellerSh := v.holder("seller", 1 << 20)
		m := v.continuous()

		initialCredit := buyer.Credit() + seller.Credit()
		initialPositions := buyerSh.PositionOn("TEST") + sellerSh.PositionOn("TEST")

		reservedNotional := func() int64 {
			var total int64
			v.sec.Book().Ascend(domain.SideBuy, func(o *domain.Order) bool {
				total += o.Value()
				return true
			})
			v.sec.stopBook.buys.Ascend(func(e stopEntry) bool {
				total += e.order.Value()
				return true
			})
			return total
		}

		n := rapid.IntRange(1, 30).Draw(t, "n")
		for i := 1; i <= n; i++ {
			side := domain.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.SideSell
			}
			req := enterReq(uint64(i), side, rapid.Int64Range(90, 110).Draw(t, "price"),
				rapid.Int64Range(1, 50).Draw(t, "qty"))
			if rapid.Bool().Draw(t, "stop") {
				req.StopPrice = rapid.Int64Range(85, 115).Draw(t, "stopPrice")
			}
			result := v.sec.NewOrder(req, m)
			if len(result.Trades) > 0 {
				v.sec.ActivateTriggeredStops(m, &eventSink{}, result.Trades[len(result.Trades)-1].Price)
			}

			gotCredit := buyer.Credit() + seller.Credit() + reservedNotional()
			if gotCredit != initialCredit {
				t.Fatalf("credit not conserved after order %d: %d != %d", i, gotCredit, initialCredit)
			}
			gotPositions := buyerSh.PositionOn("TEST") + sellerSh.PositionOn("TEST")
			if gotPositions != initialPositions {
				t.Fatalf("positions not conserved after order %d: %d != %d", i, gotPositions, initialPositions)
			}
		}
	})
}

// Property: a rejected order is a no-op. Whatever terminal outcome the
// matcher reports, the book afterwards is identical to the book before.
func TestProperty_RejectedOrderLeavesBookIntact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVenue()
		v.broker("buyer", 1<<40)
		v.broker("seller", 0)
		v.holder("buyer", 0)
		v.holder("seller", 1<<30)
		poor := v.broker("poor", 0)
		v.holders["poor"] = domain.NewShareholder("poor")
		m := v.continuous()

		n := rapid.IntRange(1, 20).Draw(t, "n")
		for i := 1; i <= n; i++ {
			side := domain.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.SideSell
			}
			v.sec.NewOrder(enterReq(uint64(i), side,
				rapid.Int64Range(90, 110).Draw(t, "price"),
				rapid.Int64Range(1, 50).Draw(t, "qty")), m)
		}

		bidsBefore := dumpSide(v.sec.Book(), domain.SideBuy)
		asksBefore := dumpSide(v.sec.Book(), domain.SideSell)

		// A penniless buyer and a positionless seller must both bounce.
		reqBuy := enterReq(100, domain.SideBuy, rapid.Int64Range(90, 110).Draw(t, "pBuy"),
			rapid.Int64Range(1, 50).Draw(t, "qBuy"))
		reqBuy.BrokerID, reqBuy.ShareholderID = "poor", "poor"
		if r := v.sec.NewOrder(reqBuy, m); r.Outcome != OutcomeNotEnoughCredit {
			t.Fatalf("expected not_enough_credit, got %s", r.Outcome)
		}
		reqSell := enterReq(101, domain.SideSell, rapid.Int64Range(90, 110).Draw(t, "pSell"),
			rapid.Int64Range(1, 50).Draw(t, "qSell"))
		reqSell.BrokerID, reqSell.ShareholderID = "poor", "poor"
		if r := v.sec.NewOrder(reqSell, m); r.Outcome != OutcomeNotEnoughPositions {
			t.Fatalf("expected not_enough_positions, got %s", r.Outcome)
		}

		assertSameBook := func(label string, before, after []domain.Order) {
			if len(before) != len(after) {
				t.Fatalf("%s: length changed %d -> %d", label, len(before), len(after))
			}
			for i := range before {
				if before[i].ID != after[i].ID || before[i].Quantity != after[i].Quantity ||
					before[i].Displayed != after[i].Displayed {
					t.Fatalf("%s: entry %d changed", label, i)
				}
			}
		}
		assertSameBook("bids", bidsBefore, dumpSide(v.sec.Book(), domain.SideBuy))
		assertSameBook("asks", asksBefore, dumpSide(v.sec.Book(), domain.SideSell))

		if got := poor.Credit(); got != 0 {
			t.Fatalf("rejected orders must not move credit, got %d", got)
		}
	})
}

// Property: the opening price maximizes exchanged quantity. No other
// price clears more volume than the one the book reports.
func TestProperty_OpeningPriceMaximizesVolume(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVenue()
		var prices []int64

		n := rapid.IntRange(1, 25).Draw(t, "n")
		for i := 1; i <= n; i++ {
			side := domain.SideBuy
			if rapid.Bool().Draw(t, "sell") {
				side = domain.SideSell
			}
			price := rapid.Int64Range(90, 110).Draw(t, "price")
			prices = append(prices, price)
			v.sec.EnqueueOrder(newOrder(uint64(i), side, price, rapid.Int64Range(1, 50).Draw(t, "qty")))
		}
		last := rapid.Int64Range(80, 120).Draw(t, "last")
		v.sec.SetLastTradePrice(last)

		exchangedAt := func(p int64) int64 {
			var sumBuy, sumSell int64
			v.sec.Book().Ascend(domain.SideBuy, func(o *domain.Order) bool {
				if o.Price >= p {
					sumBuy += o.Quantity
				}
				return true
			})
			v.sec.Book().Ascend(domain.SideSell, func(o *domain.Order) bool {
				if o.Price <= p {
					sumSell += o.Quantity
				}
				return true
			})
			return min(sumBuy, sumSell)
		}

		var maxVolume int64
		for _, p := range prices {
			if vol := exchangedAt(p); vol > maxVolume {
				maxVolume = vol
			}
		}

		price, quantity := v.sec.OpeningPrice()
		if quantity != maxVolume {
			t.Fatalf("reported quantity %d, brute force found %d", quantity, maxVolume)
		}
		if maxVolume > 0 && exchangedAt(price) != maxVolume {
			t.Fatalf("price %d clears %d, not the maximum %d", price, exchangedAt(price), maxVolume)
		}
	})
}

// Property: at equal exchanged quantity and equal distance from the
// last trade price, the bid candidate visited later wins. A symmetric
// pair of bids around the last trade price with a single capping ask
// always clears at the lower bid.
func TestProperty_OpeningPriceEqualDistanceTieBreak(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVenue()
		last := rapid.Int64Range(100, 1_000_000).Draw(t, "last")
		d := rapid.Int64Range(1, last/2).Draw(t, "d")
		gap := rapid.Int64Range(0, (last-d)/2).Draw(t, "gap")
		qty := rapid.Int64Range(1, 1000).Draw(t, "qty")

		v.sec.EnqueueOrder(newOrder(1, domain.SideBuy, last+d, qty))
		v.sec.EnqueueOrder(newOrder(2, domain.SideBuy, last-d, qty))
		v.sec.EnqueueOrder(newOrder(3, domain.SideSell, last-d-gap, qty))
		v.sec.SetLastTradePrice(last)

		price, volume := v.sec.OpeningPrice()
		if price != last-d || volume != qty {
			t.Fatalf("expected %d exchanged at %d, got %d at %d", qty, last-d, volume, price)
		}
	})
}
