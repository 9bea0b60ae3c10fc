package builtins

import (
	"testing"
	"time"

	"quantbt/internal/domain"
)

func barsFromCloses(closes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol: "600519.SH",
			Date:   day.AddDate(0, 0, i),
			Open:   c, High: c, Low: c, Close: c,
			Volume: 10000,
		}
	}
	return bars
}

func TestMACrossSignals(t *testing.T) {
	// sma2 crosses above sma3 on bar 3 and back below on bar 6.
	bars := barsFromCloses(10, 10, 10, 12, 14, 13, 10, 8)
	s := NewMACross(2, 3, 100)
	if err := s.Init(bars); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var buys, sells []int
	for i, bar := range bars {
		sig := s.Next(bar)
		if sig == nil {
			continue
		}
		switch sig.Action {
		case domain.ActionBuy:
			buys = append(buys, i)
			s.OnOrderFilled(&domain.Order{Side: domain.SideBuy, FilledQuantity: sig.Quantity})
		case domain.ActionSell:
			sells = append(sells, i)
			s.OnOrderFilled(&domain.Order{Side: domain.SideSell, FilledQuantity: sig.Quantity})
		}
	}

	if len(buys) != 1 || buys[0] != 3 {
		t.Errorf("buy signals at %v, want [3]", buys)
	}
	if len(sells) != 1 || sells[0] != 6 {
		t.Errorf("sell signals at %v, want [6]", sells)
	}
}

func TestMACrossSellsWholePosition(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 12, 14, 13, 10, 8)
	s := NewMACross(2, 3, 100)
	if err := s.Init(bars); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, bar := range bars {
		sig := s.Next(bar)
		if sig == nil {
			continue
		}
		if sig.Action == domain.ActionBuy {
			s.OnOrderFilled(&domain.Order{Side: domain.SideBuy, FilledQuantity: sig.Quantity})
			continue
		}
		if sig.Quantity != 100 {
			t.Errorf("sell quantity = %d, want full position 100", sig.Quantity)
		}
	}
}

func TestMACrossNoRebuyWhileHolding(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 12, 14, 13, 10, 8)
	s := NewMACross(2, 3, 100)
	if err := s.Init(bars); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Without fills the position counter never moves, so the death
	// cross must stay silent and no second buy can trigger.
	var signals int
	for _, bar := range bars {
		if sig := s.Next(bar); sig != nil {
			signals++
			if sig.Action != domain.ActionBuy {
				t.Errorf("unexpected %s signal with flat position", sig.Action)
			}
		}
	}
	if signals != 1 {
		t.Errorf("signal count = %d, want 1", signals)
	}
}

func TestMACrossRejectsBadPeriods(t *testing.T) {
	s := NewMACross(20, 5, 100)
	if err := s.Init(barsFromCloses(10, 11, 12)); err == nil {
		t.Fatal("Init with fast >= slow should fail")
	}
}

func TestRSIWarmupStaysSilent(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10 + float64(i)*0.1
	}
	s := NewRSIReversion(14, 30, 70, 100)
	if err := s.Init(barsFromCloses(closes...)); err != nil {
		t.Fatalf("Init: %v", err)
	}

	bars := barsFromCloses(closes...)
	for i := 0; i <= 14; i++ {
		if sig := s.Next(bars[i]); sig != nil {
			t.Errorf("signal during warmup at bar %d: %+v", i, sig)
		}
	}
}

func TestRSIRejectsBadThresholds(t *testing.T) {
	s := NewRSIReversion(14, 70, 30, 100)
	if err := s.Init(barsFromCloses(10, 11, 12)); err == nil {
		t.Fatal("Init with oversold >= overbought should fail")
	}
}
