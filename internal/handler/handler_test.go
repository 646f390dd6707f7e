package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efreitasn/marketsim/internal/domain"
	"github.com/efreitasn/marketsim/internal/engine"
	"github.com/efreitasn/marketsim/internal/sim"
	"github.com/efreitasn/marketsim/internal/store"
)

// testEnv bundles all dependencies for handler integration tests. The
// driver is never started; tests seed the book through Submit and
// single-step when they need mid-price samples.
type testEnv struct {
	router  http.Handler
	driver  *sim.Driver
	ledger  *store.TradeLedger
	mids    *store.MidPriceLog
	traders []*sim.Trader
}

func newTestEnv() *testEnv {
	clock := domain.NewClock()
	ledger := store.NewTradeLedger()
	mids := store.NewMidPriceLog()
	registry := engine.NewRegistry()
	book := engine.NewBook(engine.BookConfig{TickSize: 1}, clock, registry, ledger, mids)

	alice := sim.NewTrader(sim.NewRandomStrategy(2000, 1), 100000, 100)
	bob := sim.NewTrader(sim.NewRandomStrategy(2000, 2), 50000, 200)
	traders := []*sim.Trader{alice, bob}
	for _, tr := range traders {
		registry.Register(tr.ID, tr.Participant)
	}

	driver := sim.NewDriver(book, clock, traders, ledger, time.Millisecond, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		router:  NewRouter(driver, ledger, mids, 25, logger),
		driver:  driver,
		ledger:  ledger,
		mids:    mids,
		traders: traders,
	}
}

// get performs a GET request and returns the recorder.
func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body into dst.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rr.Body.String())
	}
}

// seedBook places a simple two-sided market: bids at 19.90 and 19.80, asks
// at 20.10 and 20.20, using the traders' own IDs so trades settle.
func (env *testEnv) seedBook(t *testing.T) {
	t.Helper()
	alice, bob := env.traders[0], env.traders[1]
	for _, o := range []struct {
		side          domain.Side
		price, volume int64
		participant   string
	}{
		{domain.SideBid, 1990, 10, alice.ID},
		{domain.SideBid, 1980, 20, alice.ID},
		{domain.SideAsk, 2010, 15, bob.ID},
		{domain.SideAsk, 2020, 25, bob.ID},
	} {
		if _, err := env.driver.Submit(o.side, o.price, o.volume, o.participant); err != nil {
			t.Fatalf("seed submit: %v", err)
		}
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	rr := env.get(t, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]string
	decode(t, rr, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestGetBook(t *testing.T) {
	env := newTestEnv()
	env.seedBook(t)

	rr := env.get(t, "/market/book")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var body bookResponse
	decode(t, rr, &body)

	if body.BestBid == nil || body.BestBid.Price != 19.90 {
		t.Errorf("best_bid = %+v, want price 19.90", body.BestBid)
	}
	if body.BestAsk == nil || body.BestAsk.Price != 20.10 {
		t.Errorf("best_ask = %+v, want price 20.10", body.BestAsk)
	}
	if body.Spread == nil || *body.Spread != 0.20 {
		t.Errorf("spread = %v, want 0.20", body.Spread)
	}
	if len(body.Bids) != 2 || len(body.Asks) != 2 {
		t.Errorf("levels = %d bids, %d asks, want 2 each", len(body.Bids), len(body.Asks))
	}
	if body.Bids[0].Price != 19.90 || body.Bids[1].Price != 19.80 {
		t.Errorf("bids not best-first: %+v", body.Bids)
	}
}

func TestGetBookDepthParam(t *testing.T) {
	env := newTestEnv()
	env.seedBook(t)

	rr := env.get(t, "/market/book?depth=1")
	var body bookResponse
	decode(t, rr, &body)
	if len(body.Bids) != 1 || len(body.Asks) != 1 {
		t.Errorf("depth=1 returned %d bids, %d asks", len(body.Bids), len(body.Asks))
	}

	for _, q := range []string{"depth=0", "depth=-3", "depth=abc"} {
		if rr := env.get(t, "/market/book?"+q); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rr.Code)
		}
	}
}

func TestGetBookEmpty(t *testing.T) {
	env := newTestEnv()

	rr := env.get(t, "/market/book")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body bookResponse
	decode(t, rr, &body)
	if body.BestBid != nil || body.BestAsk != nil || body.Spread != nil {
		t.Errorf("empty book reported best levels: %+v", body)
	}
	if len(body.Bids) != 0 || len(body.Asks) != 0 {
		t.Errorf("empty book reported levels: %+v", body)
	}
}

func TestGetDepth(t *testing.T) {
	env := newTestEnv()
	env.seedBook(t)

	rr := env.get(t, "/market/depth?bin=0.10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var body depthResponse
	decode(t, rr, &body)
	if body.Bin != 0.10 {
		t.Errorf("bin = %v, want 0.10", body.Bin)
	}
	// 2 bid levels, midpoint marker, 2 ask levels.
	if len(body.Points) != 5 {
		t.Fatalf("profile has %d points, want 5", len(body.Points))
	}
	if body.Points[2].Volume != 0 {
		t.Errorf("midpoint marker carries volume %d", body.Points[2].Volume)
	}
	// Bids total 30, asks 40.
	if body.ReferenceVolume != 40 {
		t.Errorf("reference_volume = %d, want 40", body.ReferenceVolume)
	}
}

func TestGetDepthEmptySide(t *testing.T) {
	env := newTestEnv()
	alice := env.traders[0]
	if _, err := env.driver.Submit(domain.SideBid, 1990, 10, alice.ID); err != nil {
		t.Fatal(err)
	}

	rr := env.get(t, "/market/depth")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body depthResponse
	decode(t, rr, &body)
	if len(body.Points) != 0 || body.ReferenceVolume != 0 {
		t.Errorf("one-sided depth = %+v, want empty profile", body)
	}
}

func TestGetDepthInvalidBin(t *testing.T) {
	env := newTestEnv()

	for _, q := range []string{"bin=abc", "bin=0", "bin=-1", "bin=0.005"} {
		if rr := env.get(t, "/market/depth?"+q); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rr.Code)
		}
	}
}

func TestGetTrades(t *testing.T) {
	env := newTestEnv()
	env.seedBook(t)

	// Cross the spread twice.
	alice, bob := env.traders[0], env.traders[1]
	if _, err := env.driver.Submit(domain.SideBid, 2010, 5, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.driver.Submit(domain.SideAsk, 1990, 3, bob.ID); err != nil {
		t.Fatal(err)
	}

	rr := env.get(t, "/market/trades")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body tradesResponse
	decode(t, rr, &body)
	if body.Total != 2 || len(body.Trades) != 2 {
		t.Fatalf("trades = %d/%d, want 2/2", len(body.Trades), body.Total)
	}
	// Newest first: the 19.90 sale before the 20.10 purchase.
	if body.Trades[0].Price != 19.90 || body.Trades[1].Price != 20.10 {
		t.Errorf("trade prices = %v, %v, want 19.90, 20.10", body.Trades[0].Price, body.Trades[1].Price)
	}

	rr = env.get(t, "/market/trades?limit=1")
	decode(t, rr, &body)
	if len(body.Trades) != 1 || body.Total != 2 {
		t.Errorf("limit=1 returned %d trades, total %d", len(body.Trades), body.Total)
	}

	if rr := env.get(t, "/market/trades?limit=0"); rr.Code != http.StatusBadRequest {
		t.Errorf("limit=0: status = %d, want 400", rr.Code)
	}
}

func TestGetMid(t *testing.T) {
	env := newTestEnv()
	env.seedBook(t)
	env.driver.Step()
	env.driver.Step()

	rr := env.get(t, "/market/mid")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body midResponse
	decode(t, rr, &body)
	if body.Total != 2 || len(body.Samples) != 2 {
		t.Fatalf("samples = %d/%d, want 2/2", len(body.Samples), body.Total)
	}

	if rr := env.get(t, "/market/mid?limit=-1"); rr.Code != http.StatusBadRequest {
		t.Errorf("limit=-1: status = %d, want 400", rr.Code)
	}
}

func TestListParticipants(t *testing.T) {
	env := newTestEnv()

	rr := env.get(t, "/participants")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body participantsResponse
	decode(t, rr, &body)
	if len(body.Participants) != 2 {
		t.Fatalf("%d participants, want 2", len(body.Participants))
	}

	byID := make(map[string]participantResponse, 2)
	for _, p := range body.Participants {
		byID[p.ID] = p
	}
	alice := byID[env.traders[0].ID]
	if alice.Funds != 1000.00 || alice.Position != 100 {
		t.Errorf("alice = %+v, want funds 1000.00, position 100", alice)
	}
}

func TestParticipantsReflectSettlement(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.traders[0], env.traders[1]

	if _, err := env.driver.Submit(domain.SideAsk, 2000, 10, bob.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := env.driver.Submit(domain.SideBid, 2000, 10, alice.ID); err != nil {
		t.Fatal(err)
	}

	rr := env.get(t, "/participants")
	var body participantsResponse
	decode(t, rr, &body)

	for _, p := range body.Participants {
		switch p.ID {
		case alice.ID:
			// Paid 10 × $20.00 from $1000.00.
			if p.Funds != 800.00 || p.Position != 110 {
				t.Errorf("buyer = %+v, want funds 800.00, position 110", p)
			}
		case bob.ID:
			if p.Funds != 700.00 || p.Position != 190 {
				t.Errorf("seller = %+v, want funds 700.00, position 190", p)
			}
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv()

	if rr := env.get(t, "/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}
