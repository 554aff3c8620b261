package state

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"crypto-dashboard/internal/model"
)

// Selected 是 Selection 在某一时刻的只读副本
type Selected struct {
	Coin       model.CoinDescriptor
	PriceUSD   float64 // 仅当 PriceKnown 为 true 时有效
	PriceKnown bool
	RangeDays  int
}

// MatchesCoin 快照的过期检查：响应对应的币种必须仍是当前选中币种
func (s Selected) MatchesCoin(coinID string) bool {
	return s.Coin.ID == coinID
}

// MatchesSeries 序列的过期检查：币种和时间范围都必须一致
func (s Selected) MatchesSeries(coinID string, days int) bool {
	return s.Coin.ID == coinID && s.RangeDays == days
}

// Selection 保存当前选中的币种、最近一次已知价格和图表时间范围
// 只会被用户操作或成功的数据拉取修改
type Selection struct {
	mu         sync.RWMutex
	coin       model.CoinDescriptor
	price      float64
	priceKnown bool
	rangeDays  int
	ranges     []int // 允许的时间范围 (天)
	logger     *zap.Logger
}

// NewSelection 初始化选择状态，defaultRange 必须属于 ranges
func NewSelection(coin model.CoinDescriptor, ranges []int, defaultRange int, logger *zap.Logger) (*Selection, error) {
	if !slices.Contains(ranges, defaultRange) {
		return nil, fmt.Errorf("default range %d: %w", defaultRange, model.ErrUnknownRange)
	}
	return &Selection{
		coin:      coin,
		rangeDays: defaultRange,
		ranges:    slices.Clone(ranges),
		logger:    logger,
	}, nil
}

// Current 返回当前状态的副本
func (s *Selection) Current() Selected {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Selected{
		Coin:       s.coin,
		PriceUSD:   s.price,
		PriceKnown: s.priceKnown,
		RangeDays:  s.rangeDays,
	}
}

// Ranges 返回允许的时间范围 (按配置顺序)
func (s *Selection) Ranges() []int {
	return slices.Clone(s.ranges)
}

// SelectCoin 切换币种：价格重置为未知，时间范围保持不变
func (s *Selection) SelectCoin(coin model.CoinDescriptor) Selected {
	s.mu.Lock()
	defer s.mu.Unlock()

	if coin.ID != s.coin.ID {
		s.logger.Info("Coin selected",
			zap.String("From", s.coin.ID),
			zap.String("To", coin.ID))
	}
	s.coin = coin
	s.price = 0
	s.priceKnown = false

	return Selected{Coin: s.coin, RangeDays: s.rangeDays}
}

// SelectRange 切换图表时间范围，只接受预设集合中的值
func (s *Selection) SelectRange(days int) (Selected, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.ranges, days) {
		return Selected{}, fmt.Errorf("range %d: %w", days, model.ErrUnknownRange)
	}
	s.rangeDays = days

	return Selected{Coin: s.coin, PriceUSD: s.price, PriceKnown: s.priceKnown, RangeDays: s.rangeDays}, nil
}

// RecordSnapshot 仅当快照币种与当前选中币种一致时更新最近价格
// 返回 false 表示快照已过期并被丢弃
func (s *Selection) RecordSnapshot(snap model.MarketSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.CoinID != s.coin.ID {
		s.logger.Debug("Dropping stale snapshot",
			zap.String("snapshot", snap.CoinID),
			zap.String("selected", s.coin.ID))
		return false
	}
	s.price = snap.PriceUSD
	s.priceKnown = true
	return true
}
