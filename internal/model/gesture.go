package model

// GestureKind 定义了展示层上报的用户操作类型
type GestureKind string

const (
	GestureSelectCoin   GestureKind = "coin.select"    // 从下拉列表选择币种，Value = coin id
	GestureTogglePicker GestureKind = "picker.toggle"  // 打开/关闭币种下拉列表
	GestureClickOutside GestureKind = "outside.click"  // 点击币种选择区域之外
	GestureSelectRange  GestureKind = "range.select"   // 图表时间范围按钮，Value = 天数
	GestureAmountInput  GestureKind = "amount.input"   // 编辑 USD 金额，Value = 输入框原始文本
	GestureAmountPreset GestureKind = "amount.preset"  // 预设金额按钮，Value = 金额
	GestureBuy          GestureKind = "buy"            // 点击 Buy 按钮
	GestureSelectPay    GestureKind = "payment.select" // 选择支付方式，Value = 方式 key
	GestureSelectTab    GestureKind = "tab.select"     // 选择标签页，Value = 标签 key
)

// Gesture 是一次用户操作
type Gesture struct {
	Kind  GestureKind `json:"type"`
	Value string      `json:"value,omitempty"`
}
