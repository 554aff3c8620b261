package executor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MethodNotSelected 未选择支付方式时展示的文本
const MethodNotSelected = "Not Selected"

const blockedTitle = "TRANSACTION BLOCKED!"

const blockedDisclaimer = "This application is a personal project intended for demonstration and portfolio purposes only. " +
	"The Buy/Sell functionality, payment processing, and order execution are not implemented in this demo."

// BlockedExecutor 拒绝所有购买：没有网络调用，没有状态变化，只返回说明
// 不要把它替换成真实的支付后端
type BlockedExecutor struct {
	logger *zap.Logger
}

// NewBlockedExecutor 初始化
func NewBlockedExecutor(logger *zap.Logger) *BlockedExecutor {
	return &BlockedExecutor{logger: logger.With(zap.String("executor", "Blocked"))}
}

// Submit 始终返回 Accepted=false 的答复
func (e *BlockedExecutor) Submit(ctx context.Context, order Order) (Receipt, error) {
	method := order.Method
	if method == "" {
		method = MethodNotSelected
	}
	amount := order.AmountText
	if amount == "" {
		amount = "0"
	}

	e.logger.Info("Buy request blocked",
		zap.String("coin", order.CoinID),
		zap.Float64("usd", order.USDAmount),
		zap.String("method", method))

	return Receipt{
		Accepted: false,
		Title:    blockedTitle,
		Message: fmt.Sprintf("%s\n\nCurrent Coin: %s\nAmount: %s USD\nMethod: %s",
			blockedDisclaimer, order.CoinName, amount, method),
	}, nil
}
