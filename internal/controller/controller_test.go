package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"crypto-dashboard/internal/executor"
	"crypto-dashboard/internal/model"
	"crypto-dashboard/internal/registry"
	"crypto-dashboard/internal/view"
	"crypto-dashboard/internal/view/viewtest"
)

// fakeFetcher 返回固定数据；通过 hold 注册的请求会阻塞直到 release
type fakeFetcher struct {
	mu          sync.Mutex
	prices      map[string]float64
	snapErr     map[string]error
	seriesErr   map[string]error
	gates       map[string]chan struct{}
	snapCalls   []string
	seriesCalls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		prices:    map[string]float64{"bitcoin": 64000, "ethereum": 3000, "solana": 150},
		snapErr:   make(map[string]error),
		seriesErr: make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}
}

func snapKey(coinID string) string { return "snap:" + coinID }

func seriesKey(coinID string, days int) string { return fmt.Sprintf("series:%s:%d", coinID, days) }

func (f *fakeFetcher) hold(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[key] = make(chan struct{})
}

func (f *fakeFetcher) release(key string) {
	f.mu.Lock()
	gate := f.gates[key]
	delete(f.gates, key)
	f.mu.Unlock()
	close(gate)
}

func (f *fakeFetcher) wait(ctx context.Context, key string) error {
	f.mu.Lock()
	gate := f.gates[key]
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context, coinID string) (model.MarketSnapshot, error) {
	f.mu.Lock()
	f.snapCalls = append(f.snapCalls, coinID)
	err := f.snapErr[coinID]
	price := f.prices[coinID]
	f.mu.Unlock()

	if werr := f.wait(ctx, snapKey(coinID)); werr != nil {
		return model.MarketSnapshot{}, werr
	}
	if err != nil {
		return model.MarketSnapshot{}, err
	}
	return model.MarketSnapshot{CoinID: coinID, PriceUSD: price, Change24hPercent: -2.5, MarketCapRank: 1}, nil
}

func (f *fakeFetcher) FetchSeries(ctx context.Context, coinID string, days int) (model.PriceSeries, error) {
	f.mu.Lock()
	f.seriesCalls = append(f.seriesCalls, seriesKey(coinID, days))
	err := f.seriesErr[coinID]
	price := f.prices[coinID]
	f.mu.Unlock()

	if werr := f.wait(ctx, seriesKey(coinID, days)); werr != nil {
		return model.PriceSeries{}, werr
	}
	if err != nil {
		return model.PriceSeries{}, err
	}
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	return model.PriceSeries{
		CoinID:    coinID,
		RangeDays: days,
		Points: []model.PricePoint{
			{Timestamp: start, PriceUSD: price},
			{Timestamp: start + 3_600_000, PriceUSD: price * 1.01},
			{Timestamp: start + 7_200_000, PriceUSD: price * float64(days)},
		},
	}, nil
}

func (f *fakeFetcher) calls() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.snapCalls...), append([]string(nil), f.seriesCalls...)
}

func (f *fakeFetcher) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapCalls, f.seriesCalls = nil, nil
}

type harness struct {
	ctrl    *Controller
	fetcher *fakeFetcher
	rec     *viewtest.Recorder
	charts  *viewtest.Charts
}

func newHarness(t *testing.T, logger *zap.Logger) *harness {
	t.Helper()
	if logger == nil {
		logger = zap.NewNop()
	}
	fetcher := newFakeFetcher()
	rec := viewtest.NewRecorder()
	charts := viewtest.NewCharts()
	renderer := view.NewRenderer(rec, charts, view.Options{Location: time.UTC}, logger)

	ctrl, err := New(Options{
		DefaultCoin:     "bitcoin",
		Ranges:          []int{1, 7, 14, 30, 90, 365},
		DefaultRange:    7,
		RefreshInterval: time.Hour,
		PaymentMethods:  []string{"card", "bank", "paypal"},
		Tabs:            []string{"buy", "sell"},
	}, registry.Default(), fetcher, renderer, executor.NewBlockedExecutor(logger), logger)
	require.NoError(t, err)
	t.Cleanup(ctrl.Stop)

	return &harness{ctrl: ctrl, fetcher: fetcher, rec: rec, charts: charts}
}

func TestNewRejectsBadOptions(t *testing.T) {
	renderer := view.NewRenderer(viewtest.NewRecorder(), viewtest.NewCharts(), view.Options{}, zap.NewNop())
	base := Options{
		DefaultCoin:     "bitcoin",
		Ranges:          []int{1, 7},
		DefaultRange:    7,
		RefreshInterval: time.Minute,
	}
	desk := executor.NewBlockedExecutor(zap.NewNop())

	opts := base
	opts.DefaultCoin = "nope"
	_, err := New(opts, registry.Default(), newFakeFetcher(), renderer, desk, zap.NewNop())
	assert.True(t, errors.Is(err, model.ErrNotFound))

	opts = base
	opts.DefaultRange = 30
	_, err = New(opts, registry.Default(), newFakeFetcher(), renderer, desk, zap.NewNop())
	assert.True(t, errors.Is(err, model.ErrUnknownRange))

	opts = base
	opts.RefreshInterval = 0
	_, err = New(opts, registry.Default(), newFakeFetcher(), renderer, desk, zap.NewNop())
	assert.Error(t, err)
}

func TestStartRendersInitialView(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()

	assert.Len(t, h.rec.Items(view.FieldCoinDropdown), 20)
	assert.Equal(t, "Bitcoin", h.rec.Text(view.FieldCoinName))
	assert.Equal(t, "7", h.rec.Active(view.GroupRange))
	assert.Equal(t, "buy", h.rec.Active(view.GroupTab))
	assert.Equal(t, "$64,000.00", h.rec.Text(view.FieldCurrentPrice))

	spec, ok := h.charts.Last()
	require.True(t, ok)
	assert.Equal(t, "bitcoin", spec.CoinID)
	assert.Equal(t, 7, spec.Days)

	snaps, series := h.fetcher.calls()
	assert.Equal(t, []string{"bitcoin"}, snaps)
	assert.Equal(t, []string{seriesKey("bitcoin", 7)}, series)
}

func TestStaleSnapshotAfterCoinSwitchIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.hold(snapKey("bitcoin"))
	h.ctrl.Start(context.Background())

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	require.Eventually(t, func() bool {
		return h.rec.Text(view.FieldCurrentPrice) == "$3,000.00"
	}, 2*time.Second, 5*time.Millisecond)

	h.fetcher.release(snapKey("bitcoin"))
	h.ctrl.Wait()

	assert.Equal(t, "Ethereum", h.rec.Text(view.FieldCoinName))
	assert.Equal(t, "ETH", h.rec.Text(view.FieldCoinSymbol))
	assert.Equal(t, "$3,000.00", h.rec.Text(view.FieldCurrentPrice))
	assert.Equal(t, "Buy Ethereum", h.rec.Text(view.FieldBuyButton))
	assert.Equal(t, "fas fa-caret-down", h.rec.Class(view.FieldChangeIcon))
	assert.Equal(t, "2.50%", h.rec.Text(view.FieldChangeValue))

	cur := h.ctrl.Current()
	assert.Equal(t, "ethereum", cur.Coin.ID)
	assert.True(t, cur.PriceKnown)
	assert.Equal(t, 3000.0, cur.PriceUSD)
}

func TestSwitchCoinShowsLoadingUntilSnapshot(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()

	h.fetcher.hold(snapKey("solana"))
	require.NoError(t, h.ctrl.SelectCoin("solana"))

	assert.Equal(t, view.LoadingText, h.rec.Text(view.FieldCurrentPrice))
	assert.Equal(t, " > Solana", h.rec.Text(view.FieldBreadcrumb))
	assert.False(t, h.ctrl.Current().PriceKnown)
	assert.Equal(t, 7, h.ctrl.Current().RangeDays)

	h.fetcher.release(snapKey("solana"))
	h.ctrl.Wait()
	assert.Equal(t, "$150.00", h.rec.Text(view.FieldCurrentPrice))
}

func TestStaleSeriesAfterRangeChangeIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.hold(seriesKey("bitcoin", 7))
	h.ctrl.Start(context.Background())

	require.NoError(t, h.ctrl.SelectRange(1))
	require.Eventually(t, func() bool { return h.charts.Created() == 1 }, 2*time.Second, 5*time.Millisecond)

	h.fetcher.release(seriesKey("bitcoin", 7))
	h.ctrl.Wait()

	spec, ok := h.charts.Last()
	require.True(t, ok)
	assert.Equal(t, 1, spec.Days)
	assert.Equal(t, 1, h.charts.Created())
	assert.Equal(t, 1, h.charts.Live())
	assert.Equal(t, "1", h.rec.Active(view.GroupRange))
}

func TestStaleSeriesArrivingWhileNewRangeStillPending(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.hold(seriesKey("bitcoin", 7))
	h.fetcher.hold(seriesKey("bitcoin", 1))
	h.ctrl.Start(context.Background())
	require.NoError(t, h.ctrl.SelectRange(1))

	h.fetcher.release(seriesKey("bitcoin", 7))
	require.Eventually(t, func() bool {
		_, series := h.fetcher.calls()
		return len(series) == 2
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.charts.Created())

	h.fetcher.release(seriesKey("bitcoin", 1))
	h.ctrl.Wait()

	spec, ok := h.charts.Last()
	require.True(t, ok)
	assert.Equal(t, 1, spec.Days)
	assert.Equal(t, 1, h.charts.Created())
}

func TestRefreshReadsCurrentSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	require.NoError(t, h.ctrl.SelectRange(30))
	h.ctrl.Wait()
	h.fetcher.reset()

	h.ctrl.Refresh()
	h.ctrl.Wait()

	snaps, series := h.fetcher.calls()
	assert.Equal(t, []string{"ethereum"}, snaps)
	assert.Equal(t, []string{seriesKey("ethereum", 30)}, series)
}

func TestChartNeverStacksAcrossRefreshes(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	for i := 0; i < 10; i++ {
		h.ctrl.Refresh()
		if i%3 == 0 {
			require.NoError(t, h.ctrl.SelectCoin("solana"))
		}
	}
	h.ctrl.Wait()

	assert.LessOrEqual(t, h.charts.MaxLive(), 1)
	assert.Equal(t, 1, h.charts.Live())
}

func TestBackgroundFailureIsLoggedNotSurfaced(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := newHarness(t, zap.New(core))
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()

	h.fetcher.mu.Lock()
	h.fetcher.snapErr["bitcoin"] = fmt.Errorf("snapshot [bitcoin]: %w", model.ErrIncompleteData)
	h.fetcher.seriesErr["bitcoin"] = fmt.Errorf("series [bitcoin/7d]: %w", model.ErrAPIUnavailable)
	h.fetcher.mu.Unlock()

	h.ctrl.Refresh()
	h.ctrl.Wait()

	assert.Empty(t, h.rec.Notices())
	failures := logs.FilterMessage("Error fetching market data").All()
	require.Len(t, failures, 2)
	for _, entry := range failures {
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "refresh", entry.ContextMap()["trigger"])
	}

	assert.Equal(t, "$64,000.00", h.rec.Text(view.FieldCurrentPrice))
	assert.Equal(t, 1, h.charts.Created())
	assert.Equal(t, 1, h.charts.Live())
}

func TestCoinSwitchFailureSurfacedOnce(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()

	h.fetcher.mu.Lock()
	h.fetcher.snapErr["ethereum"] = fmt.Errorf("snapshot [ethereum]: %w", model.ErrAPIUnavailable)
	h.fetcher.seriesErr["ethereum"] = fmt.Errorf("series [ethereum/7d]: %w", model.ErrAPIUnavailable)
	h.fetcher.mu.Unlock()

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	h.ctrl.Wait()

	notices := h.rec.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, view.LevelError, notices[0].Level)
	assert.Contains(t, notices[0].Message, "Ethereum")

	assert.Equal(t, view.LoadingText, h.rec.Text(view.FieldCurrentPrice))
	spec, _ := h.charts.Last()
	assert.Equal(t, "bitcoin", spec.CoinID)

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	h.ctrl.Wait()
	assert.Len(t, h.rec.Notices(), 2)
}

func TestCalculatorFollowsAmountAndPrice(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.hold(snapKey("bitcoin"))
	h.ctrl.Start(context.Background())

	h.ctrl.SetAmount("100")
	_, written := h.rec.Get(view.FieldCryptoInput, view.PropValue)
	assert.False(t, written)

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	h.fetcher.release(snapKey("bitcoin"))
	h.ctrl.Wait()
	assert.Equal(t, "0.03333333", h.rec.Value(view.FieldCryptoInput))

	h.ctrl.PresetAmount("500")
	assert.Equal(t, "500", h.rec.Value(view.FieldUSDInput))
	assert.Equal(t, "0.16666667", h.rec.Value(view.FieldCryptoInput))

	before := h.rec.Fields()
	h.ctrl.SetAmount("500")
	assert.Equal(t, before, h.rec.Fields())
}

func TestCalculatorUnchangedWhilePriceUnknown(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()
	h.ctrl.SetAmount("640")
	assert.Equal(t, "0.01000000", h.rec.Value(view.FieldCryptoInput))

	h.fetcher.hold(snapKey("ethereum"))
	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	h.ctrl.SetAmount("1280")
	assert.Equal(t, "0.01000000", h.rec.Value(view.FieldCryptoInput))

	h.fetcher.release(snapKey("ethereum"))
	h.ctrl.Wait()
	assert.Equal(t, "0.42666667", h.rec.Value(view.FieldCryptoInput))
}

func TestBuyOnlyShowsNotice(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()
	h.fetcher.reset()

	require.NoError(t, h.ctrl.Buy(context.Background()))
	require.NoError(t, h.ctrl.SelectPayment("card"))
	h.ctrl.SetAmount("250")
	require.NoError(t, h.ctrl.Buy(context.Background()))

	notices := h.rec.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, "TRANSACTION BLOCKED!", notices[0].Title)
	assert.Contains(t, notices[0].Message, "Current Coin: Bitcoin")
	assert.Contains(t, notices[0].Message, "Method: "+executor.MethodNotSelected)
	assert.Contains(t, notices[1].Message, "Amount: 250 USD")
	assert.Contains(t, notices[1].Message, "Method: card")

	snaps, series := h.fetcher.calls()
	assert.Empty(t, snaps)
	assert.Empty(t, series)
	assert.Equal(t, 64000.0, h.ctrl.Current().PriceUSD)
}

func TestGroupsKeepExactlyOneMarked(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())

	ranges := []string{"1", "7", "14", "30", "90", "365", "2", "year"}
	payments := []string{"card", "bank", "paypal", "cash"}
	tabs := []string{"buy", "sell", "swap"}

	rng := rand.New(rand.NewSource(42))
	wantRange, wantPay, wantTab := "7", "", "buy"
	for i := 0; i < 300; i++ {
		var g model.Gesture
		switch rng.Intn(3) {
		case 0:
			g = model.Gesture{Kind: model.GestureSelectRange, Value: ranges[rng.Intn(len(ranges))]}
			if _, err := strconv.Atoi(g.Value); err == nil && g.Value != "2" {
				wantRange = g.Value
			}
		case 1:
			g = model.Gesture{Kind: model.GestureSelectPay, Value: payments[rng.Intn(len(payments))]}
			if g.Value != "cash" {
				wantPay = g.Value
			}
		default:
			g = model.Gesture{Kind: model.GestureSelectTab, Value: tabs[rng.Intn(len(tabs))]}
			if g.Value != "swap" {
				wantTab = g.Value
			}
		}
		_ = h.ctrl.Handle(context.Background(), g)

		assert.Equal(t, wantRange, h.rec.Active(view.GroupRange))
		assert.Equal(t, wantPay, h.rec.Active(view.GroupPayment))
		assert.Equal(t, wantTab, h.rec.Active(view.GroupTab))
	}
	h.ctrl.Wait()
}

func TestPickerToggleAndOutsideClick(t *testing.T) {
	h := newHarness(t, nil)
	open := func() string {
		v, _ := h.rec.Get(view.FieldCoinDropdown, view.PropOpen)
		return v
	}

	h.ctrl.TogglePicker()
	assert.True(t, h.ctrl.PickerOpen())
	assert.Equal(t, "true", open())

	h.ctrl.ClickOutside()
	assert.False(t, h.ctrl.PickerOpen())
	assert.Equal(t, "false", open())

	writes := h.rec.Writes()
	h.ctrl.ClickOutside()
	assert.Equal(t, writes, h.rec.Writes())

	h.ctrl.TogglePicker()
	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	assert.False(t, h.ctrl.PickerOpen())
	assert.Equal(t, "false", open())
	h.ctrl.Wait()
}

func TestHandleRejectsBadGestures(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	err := h.ctrl.Handle(ctx, model.Gesture{Kind: "coin.delete"})
	assert.True(t, errors.Is(err, model.ErrUnknownGesture))

	err = h.ctrl.Handle(ctx, model.Gesture{Kind: model.GestureSelectCoin, Value: "notcoin"})
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, "bitcoin", h.ctrl.Current().Coin.ID)

	err = h.ctrl.Handle(ctx, model.Gesture{Kind: model.GestureSelectRange, Value: "week"})
	assert.True(t, errors.Is(err, model.ErrUnknownRange))

	err = h.ctrl.Handle(ctx, model.Gesture{Kind: model.GestureSelectPay, Value: "cash"})
	assert.True(t, errors.Is(err, model.ErrUnknownOption))

	require.NoError(t, h.ctrl.Handle(ctx, model.Gesture{Kind: model.GestureAmountInput, Value: "12"}))
	amount, raw := h.ctrl.calc.Amount()
	assert.Equal(t, 12.0, amount)
	assert.Equal(t, "12", raw)
}

func TestSchedulerDrivesRefresh(t *testing.T) {
	fetcher := newFakeFetcher()
	renderer := view.NewRenderer(viewtest.NewRecorder(), viewtest.NewCharts(), view.Options{Location: time.UTC}, zap.NewNop())
	ctrl, err := New(Options{
		DefaultCoin:     "bitcoin",
		Ranges:          []int{1, 7},
		DefaultRange:    7,
		RefreshInterval: 5 * time.Millisecond,
	}, registry.Default(), fetcher, renderer, executor.NewBlockedExecutor(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	ctrl.Start(context.Background())
	require.Eventually(t, func() bool {
		snaps, _ := fetcher.calls()
		return len(snaps) >= 4
	}, 2*time.Second, 5*time.Millisecond)

	ctrl.Stop()
	snaps, _ := fetcher.calls()
	time.Sleep(30 * time.Millisecond)
	after, _ := fetcher.calls()
	assert.Equal(t, len(snaps), len(after))
}

func TestStopReleasesChartAndCancelsPending(t *testing.T) {
	fetcher := newFakeFetcher()
	charts := viewtest.NewCharts()
	renderer := view.NewRenderer(viewtest.NewRecorder(), charts, view.Options{Location: time.UTC}, zap.NewNop())
	ctrl, err := New(Options{
		DefaultCoin:     "bitcoin",
		Ranges:          []int{1, 7},
		DefaultRange:    7,
		RefreshInterval: time.Hour,
	}, registry.Default(), fetcher, renderer, executor.NewBlockedExecutor(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	ctrl.Start(context.Background())
	ctrl.Wait()
	require.Equal(t, 1, charts.Live())

	fetcher.hold(snapKey("bitcoin"))
	ctrl.Refresh()

	done := make(chan struct{})
	go func() {
		ctrl.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on pending fetch")
	}
	assert.Equal(t, 0, charts.Live())
}

func TestStopRacingGesturesLeavesNoChart(t *testing.T) {
	for i := 0; i < 50; i++ {
		fetcher := newFakeFetcher()
		charts := viewtest.NewCharts()
		renderer := view.NewRenderer(viewtest.NewRecorder(), charts, view.Options{Location: time.UTC}, zap.NewNop())
		ctrl, err := New(Options{
			DefaultCoin:     "bitcoin",
			Ranges:          []int{1, 7},
			DefaultRange:    7,
			RefreshInterval: time.Hour,
		}, registry.Default(), fetcher, renderer, executor.NewBlockedExecutor(zap.NewNop()), zap.NewNop())
		require.NoError(t, err)
		ctrl.Start(context.Background())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = ctrl.SelectCoin("ethereum")
				_ = ctrl.SelectRange(1)
				ctrl.Refresh()
			}
		}()
		go func() {
			defer wg.Done()
			ctrl.Stop()
		}()
		wg.Wait()
		ctrl.Wait()

		assert.Equal(t, 0, charts.Live(), "iteration %d", i)
	}
}

func TestNoFetchAfterStop(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()
	h.ctrl.Stop()
	h.fetcher.reset()

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	require.NoError(t, h.ctrl.SelectRange(30))
	h.ctrl.Refresh()
	h.ctrl.Wait()

	snaps, series := h.fetcher.calls()
	assert.Empty(t, snaps)
	assert.Empty(t, series)
	assert.Equal(t, 0, h.charts.Live())
}

func TestFailureForAbandonedCoinNotSurfaced(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.Start(context.Background())
	h.ctrl.Wait()

	h.fetcher.mu.Lock()
	h.fetcher.snapErr["ethereum"] = fmt.Errorf("snapshot [ethereum]: %w", model.ErrAPIUnavailable)
	h.fetcher.seriesErr["ethereum"] = fmt.Errorf("series [ethereum/7d]: %w", model.ErrAPIUnavailable)
	h.fetcher.mu.Unlock()
	h.fetcher.hold(snapKey("ethereum"))
	h.fetcher.hold(seriesKey("ethereum", 7))

	require.NoError(t, h.ctrl.SelectCoin("ethereum"))
	require.NoError(t, h.ctrl.SelectCoin("solana"))
	h.fetcher.release(snapKey("ethereum"))
	h.fetcher.release(seriesKey("ethereum", 7))
	h.ctrl.Wait()

	assert.Empty(t, h.rec.Notices())
	assert.Equal(t, "$150.00", h.rec.Text(view.FieldCurrentPrice))
}

func TestControllerExposesOptions(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, []int{1, 7, 14, 30, 90, 365}, h.ctrl.Ranges())
	assert.Equal(t, []string{"card", "bank", "paypal"}, h.ctrl.PaymentMethods())
	assert.Equal(t, []string{"buy", "sell"}, h.ctrl.Tabs())
}
