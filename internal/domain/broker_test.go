package domain

import (
	"sync"
	"testing"
)

func TestBroker_CreditAccounting(t *testing.T) {
	b := NewBroker("b1", 1000)

	if !b.HasEnoughCredit(1000) {
		t.Error("expected credit to cover its full balance")
	}
	if b.HasEnoughCredit(1001) {
		t.Error("expected credit not to cover more than the balance")
	}

	b.DecreaseCreditBy(400)
	b.IncreaseCreditBy(150)
	if got := b.Credit(); got != 750 {
		t.Errorf("expected credit 750, got %d", got)
	}
}

func TestBroker_ConcurrentAdjustments(t *testing.T) {
	b := NewBroker("b1", 0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.IncreaseCreditBy(10)
			b.DecreaseCreditBy(3)
		}()
	}
	wg.Wait()

	if got := b.Credit(); got != 700 {
		t.Errorf("expected credit 700 after concurrent adjustments, got %d", got)
	}
}

func TestShareholder_Positions(t *testing.T) {
	s := NewShareholder("s1")

	if got := s.PositionOn("TEST"); got != 0 {
		t.Errorf("expected empty position, got %d", got)
	}

	s.IncPosition("TEST", 100)
	s.DecPosition("TEST", 30)
	if got := s.PositionOn("TEST"); got != 70 {
		t.Errorf("expected position 70, got %d", got)
	}
	if !s.HasEnoughPositionsOn("TEST", 70) {
		t.Error("expected holdings to cover 70")
	}
	if s.HasEnoughPositionsOn("TEST", 71) {
		t.Error("expected holdings not to cover 71")
	}
	if got := s.PositionOn("OTHER"); got != 0 {
		t.Errorf("positions are per instrument, got %d for OTHER", got)
	}
}

func TestShareholder_ConcurrentAdjustments(t *testing.T) {
	s := NewShareholder("s1")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncPosition("TEST", 5)
			s.DecPosition("TEST", 2)
		}()
	}
	wg.Wait()

	if got := s.PositionOn("TEST"); got != 300 {
		t.Errorf("expected position 300 after concurrent adjustments, got %d", got)
	}
}
