package state

import (
	"sync"

	"github.com/shopspring/decimal"

	"crypto-dashboard/internal/service"
)

// CryptoPlaces 换算结果展示的小数位数
const CryptoPlaces = 8

// Calculator 保存 USD 输入金额；换算结果由价格派生，不单独存储
type Calculator struct {
	mu     sync.RWMutex
	raw    string  // 输入框原始文本 (Buy 提示中原样展示)
	amount float64 // 非负
}

// SetAmount 记录输入框文本，并解析为非负金额
func (c *Calculator) SetAmount(raw string) float64 {
	amount := service.ParseAmount(raw)
	c.mu.Lock()
	c.raw = raw
	c.amount = amount
	c.mu.Unlock()
	return amount
}

// Amount 返回解析后的金额和原始文本
func (c *Calculator) Amount() (float64, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.amount, c.raw
}

// Convert 计算 usd / price；价格未知或不为正时返回 false
func Convert(usd, price float64, priceKnown bool) (decimal.Decimal, bool) {
	if !priceKnown || price <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(usd).Div(decimal.NewFromFloat(price)), true
}

// FormatCrypto 把换算结果四舍五入到 8 位小数
func FormatCrypto(amount decimal.Decimal) string {
	return amount.StringFixed(CryptoPlaces)
}
