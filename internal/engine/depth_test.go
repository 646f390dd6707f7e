package engine

import (
	"testing"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/store"
)

func TestDepthProfileEmptySides(t *testing.T) {
	book, _, _ := newTestBook(t)

	if points, ref := book.DepthProfile(25); points != nil || ref != 0 {
		t.Errorf("empty book profile = %v, %d, want nil, 0", points, ref)
	}

	mustSubmit(t, book, domain.SideBid, 1000, 10, "b")
	if points, ref := book.DepthProfile(25); points != nil || ref != 0 {
		t.Errorf("one-sided profile = %v, %d, want nil, 0", points, ref)
	}
}

func TestDepthProfileShape(t *testing.T) {
	book, _, _ := newTestBook(t)

	mustSubmit(t, book, domain.SideBid, 1000, 10, "b1")
	mustSubmit(t, book, domain.SideBid, 950, 20, "b2")
	mustSubmit(t, book, domain.SideBid, 900, 5, "b3")
	mustSubmit(t, book, domain.SideAsk, 1050, 15, "s1")
	mustSubmit(t, book, domain.SideAsk, 1100, 25, "s2")

	points, ref := book.DepthProfile(25)

	// Three bid points worst-first, a zero-volume midpoint marker, two ask
	// points best-first.
	want := []DepthPoint{
		{Price: 900, Volume: 35},
		{Price: 950, Volume: 30},
		{Price: 1000, Volume: 10},
		{Price: 1025, Volume: 0}, // mid (1000+1050)/2 = 1025
		{Price: 1050, Volume: 15},
		{Price: 1100, Volume: 40},
	}
	if len(points) != len(want) {
		t.Fatalf("profile has %d points, want %d: %+v", len(points), len(want), points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}

	// Reference is the larger side total: asks carry 40 vs bids' 35.
	if ref != 40 {
		t.Errorf("reference = %d, want 40", ref)
	}
}

func TestDepthProfileBinsPricesDown(t *testing.T) {
	book, _, _ := newTestBook(t)

	mustSubmit(t, book, domain.SideBid, 990, 10, "b")
	mustSubmit(t, book, domain.SideAsk, 1015, 10, "s")

	points, _ := book.DepthProfile(25)
	if len(points) != 3 {
		t.Fatalf("profile has %d points, want 3", len(points))
	}
	if points[0].Price != 975 { // 990 floors to 975
		t.Errorf("bid bin = %d, want 975", points[0].Price)
	}
	if points[1].Price != 1000 { // mid 1002 floors to 1000
		t.Errorf("mid bin = %d, want 1000", points[1].Price)
	}
	if points[2].Price != 1000 { // 1015 floors to 1000
		t.Errorf("ask bin = %d, want 1000", points[2].Price)
	}
}

func TestDepthProfileDefaultsBinToTick(t *testing.T) {
	book := NewBook(BookConfig{TickSize: 10}, domain.NewClock(), nil, store.NewTradeLedger(), store.NewMidPriceLog())

	if _, err := book.Submit(domain.SideBid, 990, 10, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := book.Submit(domain.SideAsk, 1010, 10, "s"); err != nil {
		t.Fatal(err)
	}

	points, _ := book.DepthProfile(0)
	if len(points) != 3 {
		t.Fatalf("profile has %d points, want 3", len(points))
	}
	if points[0].Price != 990 || points[2].Price != 1010 {
		t.Errorf("points binned to %d, %d, want tick-width bins 990, 1010", points[0].Price, points[2].Price)
	}
}
