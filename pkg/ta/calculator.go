package ta

import (
	"github.com/markcheno/go-talib"
)

// Overlay 是叠加在价格曲线上的指标序列
// Values[i] 对应价格序列的第 Offset+i 个点 (前 Offset 个点处于指标预热期，没有值)
type Overlay struct {
	Period int
	Offset int
	Values []float64
}

// MovingAverage 计算简单移动平均 (SMA)
// period <= 1 或历史长度不足一个周期时返回 false
func MovingAverage(prices []float64, period int) (Overlay, bool) {
	if period <= 1 || len(prices) < period {
		return Overlay{}, false
	}

	// talib 在预热期填 0，这里直接截掉
	sma := talib.Sma(prices, period)
	offset := period - 1

	values := make([]float64, len(sma)-offset)
	copy(values, sma[offset:])

	return Overlay{Period: period, Offset: offset, Values: values}, true
}
