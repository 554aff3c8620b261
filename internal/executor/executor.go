package executor

import (
	"context"
)

// Order 是侧边栏 Buy 按钮提交的购买意图
type Order struct {
	CoinID     string
	CoinName   string
	AmountText string  // 输入框原始文本
	USDAmount  float64 // 解析后的金额
	Method     string  // 支付方式，空字符串表示未选择
}

// Receipt 是执行器对一次提交的答复，展示给用户
type Receipt struct {
	Accepted bool
	Title    string
	Message  string
}

// Executor 是购买执行器的通用接口
type Executor interface {
	// Submit 接收购买意图并返回给用户的答复
	Submit(ctx context.Context, order Order) (Receipt, error)
}
