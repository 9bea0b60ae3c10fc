package domain

import (
	"errors"
	"testing"
	"time"
)

func TestOrderFilledAmount(t *testing.T) {
	o := &Order{
		ID:             "o1",
		Symbol:         "600519.SH",
		Side:           SideBuy,
		Quantity:       100,
		Price:          10.0,
		Status:         OrderStatusFilled,
		FilledQuantity: 100,
		FilledPrice:    10.5,
	}
	if !o.Filled() {
		t.Error("Filled() = false for FILLED order")
	}
	if got := o.FilledAmount(); got != 1050.0 {
		t.Errorf("FilledAmount() = %v, want 1050.0", got)
	}
}

func TestTradeAmounts(t *testing.T) {
	tr := &Trade{Quantity: 200, Price: 5.0, Commission: 5.0}
	if got := tr.Amount(); got != 1000.0 {
		t.Errorf("Amount() = %v, want 1000.0", got)
	}
	if got := tr.TotalCost(); got != 1005.0 {
		t.Errorf("TotalCost() = %v, want 1005.0", got)
	}
}

func TestPositionAddAveragesCost(t *testing.T) {
	p := NewPosition("600519.SH", 10.0)

	if err := p.Add(100, 10.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.Quantity != 100 || p.AvgCost != 10.0 {
		t.Fatalf("after first add: qty=%d avg=%v, want 100/10.0", p.Quantity, p.AvgCost)
	}

	// 100 @ 10 + 100 @ 12 → 200 @ 11.
	if err := p.Add(100, 12.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.Quantity != 200 {
		t.Errorf("Quantity = %d, want 200", p.Quantity)
	}
	if p.AvgCost != 11.0 {
		t.Errorf("AvgCost = %v, want 11.0", p.AvgCost)
	}
}

func TestPositionAddRejectsNonPositive(t *testing.T) {
	p := NewPosition("600519.SH", 10.0)
	if err := p.Add(0, 10.0); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Add(0) error = %v, want ErrInvalidPosition", err)
	}
	if err := p.Add(-5, 10.0); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Add(-5) error = %v, want ErrInvalidPosition", err)
	}
}

func TestPositionReduceRealizesPNL(t *testing.T) {
	p := NewPosition("600519.SH", 10.0)
	if err := p.Add(200, 10.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.UpdatePrice(12.0)

	realized, err := p.Reduce(100)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if realized != 200.0 {
		t.Errorf("realized = %v, want 200.0 (100 × (12 − 10))", realized)
	}
	if p.Quantity != 100 {
		t.Errorf("Quantity = %d, want 100", p.Quantity)
	}
	// Average cost per share is unchanged by a partial sale.
	if p.AvgCost != 10.0 {
		t.Errorf("AvgCost = %v, want 10.0", p.AvgCost)
	}
}

func TestPositionReduceTooManyDoesNotMutate(t *testing.T) {
	p := NewPosition("600519.SH", 10.0)
	if err := p.Add(100, 10.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.UpdatePrice(11.0)

	_, err := p.Reduce(150)
	if !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("Reduce(150) error = %v, want ErrInvalidPosition", err)
	}
	if p.Quantity != 100 {
		t.Errorf("Quantity mutated to %d after failed Reduce", p.Quantity)
	}
	if p.AvgCost != 10.0 {
		t.Errorf("AvgCost mutated to %v after failed Reduce", p.AvgCost)
	}
}

func TestPositionDerivedFields(t *testing.T) {
	p := NewPosition("000001.SZ", 10.0)
	if err := p.Add(100, 10.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	p.UpdatePrice(12.5)

	if got := p.MarketValue(); got != 1250.0 {
		t.Errorf("MarketValue() = %v, want 1250.0", got)
	}
	if got := p.CostBasis(); got != 1000.0 {
		t.Errorf("CostBasis() = %v, want 1000.0", got)
	}
	if got := p.UnrealizedPNL(); got != 250.0 {
		t.Errorf("UnrealizedPNL() = %v, want 250.0", got)
	}
	if got := p.UnrealizedPNLPct(); got != 25.0 {
		t.Errorf("UnrealizedPNLPct() = %v, want 25.0", got)
	}
}

func TestPositionEmptyDerivedFields(t *testing.T) {
	p := NewPosition("000001.SZ", 10.0)
	if got := p.UnrealizedPNLPct(); got != 0 {
		t.Errorf("UnrealizedPNLPct() on empty position = %v, want 0", got)
	}
}

func TestBacktestResultTotalReturn(t *testing.T) {
	r := &BacktestResult{
		InitialCapital: 100000,
		FinalCapital:   110000,
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}
	if got := r.TotalReturn(); got != 0.1 {
		t.Errorf("TotalReturn() = %v, want 0.1", got)
	}
	if got := r.TotalReturnPct(); got != 10.0 {
		t.Errorf("TotalReturnPct() = %v, want 10.0", got)
	}

	zero := &BacktestResult{}
	if got := zero.TotalReturn(); got != 0 {
		t.Errorf("TotalReturn() with zero capital = %v, want 0", got)
	}
}
