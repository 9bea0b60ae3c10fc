package indicator

import (
	"math"
	"testing"

	"quantbt/internal/domain"
)

func TestMA(t *testing.T) {
	got := MA([]float64{10, 12, 14, 16}, 2)
	want := []float64{0, 11, 13, 15}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("MA[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// series shorter than the window yields all zeros.
	for i, v := range MA([]float64{10, 12}, 5) {
		if v != 0 {
			t.Errorf("short-series MA[%d] = %v, want 0", i, v)
		}
	}
}

func TestRSILengthAndWarmup(t *testing.T) {
	closes := []float64{10, 11, 10.5, 12, 11.8, 12.5, 13, 12.2, 12.9, 13.5,
		13.1, 13.8, 14.2, 13.9, 14.5, 15, 14.7, 15.2}
	got := RSI(closes, 14)
	if len(got) != len(closes) {
		t.Fatalf("RSI length = %d, want %d", len(got), len(closes))
	}
	if got[len(got)-1] <= 0 || got[len(got)-1] > 100 {
		t.Errorf("RSI out of range: %v", got[len(got)-1])
	}
}

func TestCrossover(t *testing.T) {
	fast := []float64{0, 1, 2, 4, 3, 1}
	slow := []float64{0, 2, 2, 3, 3, 2}
	got := Crossover(fast, slow)
	want := []int{0, 0, 0, 1, 0, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Crossover[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCrossoverSkipsWarmupZeros(t *testing.T) {
	fast := []float64{0, 0, 5, 6}
	slow := []float64{0, 0, 4, 5}
	got := Crossover(fast, slow)
	for i, v := range got {
		if v != 0 {
			t.Errorf("Crossover[%d] = %d, want 0 across warmup boundary", i, v)
		}
	}
}

func TestClosesAndVolumes(t *testing.T) {
	bars := []domain.Bar{
		{Close: 10.5, Volume: 100},
		{Close: 11.0, Volume: 200},
	}
	closes := Closes(bars)
	if closes[0] != 10.5 || closes[1] != 11.0 {
		t.Errorf("Closes = %v", closes)
	}
	vols := Volumes(bars)
	if vols[0] != 100 || vols[1] != 200 {
		t.Errorf("Volumes = %v", vols)
	}
}
