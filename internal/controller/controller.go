package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crypto-dashboard/internal/executor"
	"crypto-dashboard/internal/model"
	"crypto-dashboard/internal/registry"
	"crypto-dashboard/internal/service"
	"crypto-dashboard/internal/state"
	"crypto-dashboard/internal/view"
)

// Fetcher 是 Data Fetcher 的接口，两个方法都不假设 coinID 仍是当前选中币种
type Fetcher interface {
	FetchSnapshot(ctx context.Context, coinID string) (model.MarketSnapshot, error)
	FetchSeries(ctx context.Context, coinID string, days int) (model.PriceSeries, error)
}

// trigger 标记一次拉取的来源，决定失败时是否提示用户
type trigger string

const (
	triggerStartup trigger = "startup"
	triggerRefresh trigger = "refresh"
	triggerCoin    trigger = "coin"
	triggerRange   trigger = "range"
)

// Options 定义了 Controller 的启动参数
type Options struct {
	DefaultCoin     string
	Ranges          []int
	DefaultRange    int
	RefreshInterval time.Duration
	PaymentMethods  []string
	Tabs            []string // 第一个标签初始为 active
}

// Controller 独占 Selection 状态，把用户操作和定时刷新翻译为状态修改与数据拉取
// 所有状态修改与渲染都在 mu 下串行执行；拉取在各自的 goroutine 中进行，
// 结果在应用前按 (币种, 时间范围) 做过期检查
type Controller struct {
	registry  *registry.Registry
	selection *state.Selection
	calc      state.Calculator
	payment   *state.Choice
	tab       *state.Choice
	fetcher   Fetcher
	view      *view.Renderer
	desk      executor.Executor
	scheduler *Scheduler
	logger    *zap.Logger

	mu         sync.Mutex
	pickerOpen bool
	stopped    bool // Stop 之后不再发起拉取，也不再渲染拉取结果

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建 Controller
func New(
	opts Options,
	reg *registry.Registry,
	fetcher Fetcher,
	renderer *view.Renderer,
	desk executor.Executor,
	logger *zap.Logger,
) (*Controller, error) {
	coin, err := reg.Lookup(opts.DefaultCoin)
	if err != nil {
		return nil, fmt.Errorf("default coin: %w", err)
	}
	selection, err := state.NewSelection(coin, opts.Ranges, opts.DefaultRange, logger)
	if err != nil {
		return nil, err
	}
	payment, err := state.NewChoice(view.GroupPayment, opts.PaymentMethods, "")
	if err != nil {
		return nil, err
	}
	initialTab := ""
	if len(opts.Tabs) > 0 {
		initialTab = opts.Tabs[0]
	}
	tab, err := state.NewChoice(view.GroupTab, opts.Tabs, initialTab)
	if err != nil {
		return nil, err
	}
	if opts.RefreshInterval <= 0 {
		return nil, errors.New("refresh interval must be positive")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		registry:  reg,
		selection: selection,
		payment:   payment,
		tab:       tab,
		fetcher:   fetcher,
		view:      renderer,
		desk:      desk,
		logger:    logger.With(zap.String("component", "controller")),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.scheduler = NewScheduler(opts.RefreshInterval, c.Refresh)
	return c, nil
}

// Start 渲染初始画面，拉取默认币种的数据，并启动定时刷新
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	sel := c.selection.Current()
	c.view.RenderCoinList(c.registry.List())
	c.view.RenderSelection(sel)
	c.view.RenderRange(sel.RangeDays)
	if key, ok := c.tab.Selected(); ok {
		c.view.RenderChoice(view.GroupTab, key)
	}
	c.mu.Unlock()

	c.logger.Info("Dashboard started",
		zap.String("coin", sel.Coin.ID),
		zap.Int("days", sel.RangeDays))

	c.fetchSnapshot(sel.Coin.ID, triggerStartup, nil)
	c.fetchSeries(sel.Coin.ID, sel.RangeDays, triggerStartup, nil)

	c.scheduler.Start(ctx)
}

// Stop 停止定时刷新，取消并等待所有进行中的拉取，释放图表
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	c.scheduler.Stop()
	c.cancel()
	c.wg.Wait()
	c.view.Close()
	c.logger.Info("Dashboard stopped")
}

// Wait 等待所有进行中的拉取完成
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Current 返回当前选择状态
func (c *Controller) Current() state.Selected {
	return c.selection.Current()
}

// Ranges 返回可选的图表时间范围
func (c *Controller) Ranges() []int {
	return c.selection.Ranges()
}

// PaymentMethods 返回可选的支付方式
func (c *Controller) PaymentMethods() []string {
	return c.payment.Options()
}

// Tabs 返回侧边栏标签页
func (c *Controller) Tabs() []string {
	return c.tab.Options()
}

// Refresh 为当前 (每次重新读取) 的币种和时间范围重新拉取快照和序列
func (c *Controller) Refresh() {
	sel := c.selection.Current()
	c.logger.Debug("Auto-updating data...", zap.String("coin", sel.Coin.ID), zap.Int("days", sel.RangeDays))
	c.fetchSnapshot(sel.Coin.ID, triggerRefresh, nil)
	c.fetchSeries(sel.Coin.ID, sel.RangeDays, triggerRefresh, nil)
}

// Handle 把展示层上报的操作分发到对应的处理函数
func (c *Controller) Handle(ctx context.Context, g model.Gesture) error {
	switch g.Kind {
	case model.GestureSelectCoin:
		return c.SelectCoin(g.Value)
	case model.GestureTogglePicker:
		c.TogglePicker()
	case model.GestureClickOutside:
		c.ClickOutside()
	case model.GestureSelectRange:
		days, err := service.ParseDays(g.Value)
		if err != nil {
			return fmt.Errorf("range %q: %w", g.Value, model.ErrUnknownRange)
		}
		return c.SelectRange(days)
	case model.GestureAmountInput:
		c.SetAmount(g.Value)
	case model.GestureAmountPreset:
		c.PresetAmount(g.Value)
	case model.GestureBuy:
		return c.Buy(ctx)
	case model.GestureSelectPay:
		return c.SelectPayment(g.Value)
	case model.GestureSelectTab:
		return c.SelectTab(g.Value)
	default:
		return fmt.Errorf("%q: %w", g.Kind, model.ErrUnknownGesture)
	}
	return nil
}

// SelectCoin 切换币种并重新拉取快照和序列
func (c *Controller) SelectCoin(coinID string) error {
	coin, err := c.registry.Lookup(coinID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	sel := c.selection.SelectCoin(coin)
	c.pickerOpen = false
	c.view.RenderSelection(sel)
	c.mu.Unlock()

	// 同一次切换中两个拉取的失败最多提示一次
	once := &sync.Once{}
	c.fetchSnapshot(coin.ID, triggerCoin, once)
	c.fetchSeries(coin.ID, sel.RangeDays, triggerCoin, once)
	return nil
}

// SelectRange 切换图表时间范围，只重新拉取序列
func (c *Controller) SelectRange(days int) error {
	c.mu.Lock()
	sel, err := c.selection.SelectRange(days)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.view.RenderRange(days)
	c.mu.Unlock()

	c.fetchSeries(sel.Coin.ID, days, triggerRange, nil)
	return nil
}

// SetAmount 记录输入金额并重新计算换算结果，不发起网络请求
func (c *Controller) SetAmount(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	amount := c.calc.SetAmount(raw)
	c.view.RenderCalculator(c.selection.Current(), amount)
}

// PresetAmount 先回写输入框，然后按 SetAmount 处理
func (c *Controller) PresetAmount(raw string) {
	c.mu.Lock()
	c.view.RenderAmount(raw)
	c.mu.Unlock()
	c.SetAmount(raw)
}

// Buy 只展示说明，不产生任何交易或状态修改
func (c *Controller) Buy(ctx context.Context) error {
	sel := c.selection.Current()
	amount, raw := c.calc.Amount()
	method, _ := c.payment.Selected()

	receipt, err := c.desk.Submit(ctx, executor.Order{
		CoinID:     sel.Coin.ID,
		CoinName:   sel.Coin.Name,
		AmountText: raw,
		USDAmount:  amount,
		Method:     method,
	})
	if err != nil {
		return fmt.Errorf("buy: %w", err)
	}

	level := view.LevelInfo
	if !receipt.Accepted {
		level = view.LevelError
	}
	c.view.Notify(view.Notice{Level: level, Title: receipt.Title, Message: receipt.Message})
	return nil
}

// SelectPayment 标记唯一选中的支付方式
func (c *Controller) SelectPayment(key string) error {
	return c.choose(c.payment, key)
}

// SelectTab 标记唯一 active 的标签页
func (c *Controller) SelectTab(key string) error {
	return c.choose(c.tab, key)
}

func (c *Controller) choose(group *state.Choice, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := group.Select(key); err != nil {
		return err
	}
	c.view.RenderChoice(group.Name(), key)
	return nil
}

// TogglePicker 打开或关闭币种下拉列表
func (c *Controller) TogglePicker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pickerOpen = !c.pickerOpen
	c.view.RenderPicker(c.pickerOpen)
}

// ClickOutside 点击下拉区域之外时关闭已打开的列表
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pickerOpen {
		return
	}
	c.pickerOpen = false
	c.view.RenderPicker(false)
}

// PickerOpen 返回下拉列表是否打开
func (c *Controller) PickerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pickerOpen
}

// track 在未停止时登记一个拉取 goroutine；wg.Add 与 Stop 中的 wg.Wait 由 mu 串行化
func (c *Controller) track() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.wg.Add(1)
	return true
}

func (c *Controller) fetchSnapshot(coinID string, trig trigger, once *sync.Once) {
	if !c.track() {
		return
	}
	logger := c.logger.With(
		zap.String("request", uuid.NewString()),
		zap.String("coin", coinID),
		zap.String("trigger", string(trig)))

	go func() {
		defer c.wg.Done()

		snap, err := c.fetcher.FetchSnapshot(c.ctx, coinID)
		if err != nil {
			c.fetchFailed(logger, coinID, trig, once, err)
			return
		}
		snap.CoinID = coinID
		c.applySnapshot(logger, snap)
	}()
}

func (c *Controller) fetchSeries(coinID string, days int, trig trigger, once *sync.Once) {
	if !c.track() {
		return
	}
	logger := c.logger.With(
		zap.String("request", uuid.NewString()),
		zap.String("coin", coinID),
		zap.Int("days", days),
		zap.String("trigger", string(trig)))

	go func() {
		defer c.wg.Done()

		series, err := c.fetcher.FetchSeries(c.ctx, coinID, days)
		if err != nil {
			c.fetchFailed(logger, coinID, trig, once, err)
			return
		}
		series.CoinID, series.RangeDays = coinID, days
		c.applySeries(logger, series)
	}()
}

// applySnapshot 过期检查通过后记录价格并整体渲染
func (c *Controller) applySnapshot(logger *zap.Logger, snap model.MarketSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if !c.selection.RecordSnapshot(snap) {
		logger.Debug("Stale snapshot dropped", zap.String("selected", c.selection.Current().Coin.ID))
		return
	}
	amount, _ := c.calc.Amount()
	c.view.RenderSnapshot(c.selection.Current(), snap, amount)
}

// applySeries 过期检查通过后替换图表；失败时图表保持原状
func (c *Controller) applySeries(logger *zap.Logger, series model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	sel := c.selection.Current()
	applied, err := c.view.RenderSeries(sel, series)
	if err != nil {
		logger.Error("Chart render failed", zap.Error(err))
		return
	}
	if !applied {
		logger.Debug("Stale series dropped",
			zap.String("selected", sel.Coin.ID),
			zap.Int("selectedDays", sel.RangeDays))
	}
}

// fetchFailed 后台拉取的失败只记录日志；用户切换币种触发的失败提示一次
func (c *Controller) fetchFailed(logger *zap.Logger, coinID string, trig trigger, once *sync.Once, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	logger.Warn("Error fetching market data", zap.Error(err))

	if trig != triggerCoin || once == nil {
		return
	}
	// 检查与提示在 mu 下完成，期间不会发生新的切换
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || !c.selection.Current().MatchesCoin(coinID) {
		return
	}
	once.Do(func() {
		name := coinID
		if coin, lookupErr := c.registry.Lookup(coinID); lookupErr == nil {
			name = coin.Name
		}
		c.view.Notify(view.Notice{
			Level:   view.LevelError,
			Title:   "Market data unavailable",
			Message: describeFailure(name, err),
		})
	})
}

func describeFailure(name string, err error) string {
	switch {
	case errors.Is(err, model.ErrIncompleteData):
		return "The market data provider is rate limiting requests for " + name + ". Data will refresh automatically."
	default:
		return "Could not reach the market data provider for " + name + ". Data will refresh automatically."
	}
}

