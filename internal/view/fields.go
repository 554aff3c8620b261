package view

// 展示层的命名字段 (与页面元素 id 一一对应)
const (
	FieldCoinName      = "coinName"
	FieldCoinSymbol    = "coinSymbol"
	FieldBreadcrumb    = "breadCoin"
	FieldCoinIcon      = "coinIcon"
	FieldCoinDropdown  = "coinDropdown"
	FieldCurrentPrice  = "currentPrice"
	FieldPriceChange   = "priceChange"
	FieldChangeIcon    = "priceChangeIcon"
	FieldChangeValue   = "priceChangeValue"
	FieldMarketCap     = "marketCap"
	FieldVolume        = "volume"
	FieldSupply        = "supply"
	FieldAth           = "ath"
	FieldRank          = "rank"
	FieldHigh24        = "high24"
	FieldLow24         = "low24"
	FieldBuyButton     = "buyBtn"
	FieldSidebarSymbol = "sidebarSymbol"
	FieldSidebarIcon   = "sidebarIcon"
	FieldConvSymbol    = "convSymbol"
	FieldConvPrice     = "convPrice"
	FieldUSDInput      = "usdInput"
	FieldCryptoInput   = "cryptoInput"
	FieldChart         = "cryptoChart"
)

// 互斥选项组，组内任意时刻只有一个元素带 active/selected 标记
const (
	GroupRange   = "range"
	GroupPayment = "payment"
	GroupTab     = "tab"
)

// LoadingText 价格尚未返回时的占位文本
const LoadingText = "Loading..."

// Prop 定义了一次字段写入修改的属性
type Prop string

const (
	PropText   Prop = "text"   // 文本内容
	PropValue  Prop = "value"  // 输入框的值
	PropSrc    Prop = "src"    // 图片地址
	PropClass  Prop = "class"  // class 列表 (整体覆盖)
	PropActive Prop = "active" // Field 为选项组名，Value 为被标记的选项
	PropOpen   Prop = "open"   // 下拉列表开关，Value 为 "true"/"false"
	PropItems  Prop = "items"  // 列表内容，见 Items
)

// Item 是下拉列表中的一项
type Item struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Update 是对一个命名字段的一次完整覆盖写入
type Update struct {
	Field string `json:"field"`
	Prop  Prop   `json:"prop"`
	Value string `json:"value,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Key 用于去重缓存：同一字段同一属性只保留最后一次写入
func (u Update) Key() string {
	return u.Field + "#" + string(u.Prop)
}

// Level 定义了用户提示的级别
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice 是一次非阻塞的用户提示
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Writer 是 View Renderer 依赖的命名字段写入能力
// 实现必须是非阻塞的；测试中使用记录型实现
type Writer interface {
	Write(updates ...Update)
	Notify(n Notice)
}

func text(field, value string) Update {
	return Update{Field: field, Prop: PropText, Value: value}
}
