package registry

import (
	"fmt"

	"crypto-dashboard/internal/model"
)

const iconBase = "https://assets.coingecko.com/coins/images/"

// defaultCoins 按展示顺序排列
var defaultCoins = []model.CoinDescriptor{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", IconRef: iconBase + "1/large/bitcoin.png"},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum", IconRef: iconBase + "279/large/ethereum.png"},
	{ID: "binancecoin", Symbol: "bnb", Name: "BNB", IconRef: iconBase + "825/large/bnb-icon2_2x.png"},
	{ID: "solana", Symbol: "sol", Name: "Solana", IconRef: iconBase + "4128/large/solana.png"},
	{ID: "ripple", Symbol: "xrp", Name: "XRP", IconRef: iconBase + "44/large/xrp-symbol-white-128.png"},
	{ID: "cardano", Symbol: "ada", Name: "Cardano", IconRef: iconBase + "975/large/cardano.png"},
	{ID: "avalanche-2", Symbol: "avax", Name: "Avalanche", IconRef: iconBase + "12559/large/Avalanche_Circle_RedWhite_Trans.png"},
	{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", IconRef: iconBase + "5/large/dogecoin.png"},
	{ID: "tron", Symbol: "trx", Name: "TRON", IconRef: iconBase + "1094/large/tron-logo.png"},
	{ID: "polkadot", Symbol: "dot", Name: "Polkadot", IconRef: iconBase + "12171/large/polkadot.png"},
	{ID: "chainlink", Symbol: "link", Name: "Chainlink", IconRef: iconBase + "877/large/chainlink-new-logo.png"},
	{ID: "matic-network", Symbol: "matic", Name: "Polygon", IconRef: iconBase + "4713/large/matic-token-icon.png"},
	{ID: "shiba-inu", Symbol: "shib", Name: "Shiba Inu", IconRef: iconBase + "11939/large/shiba.png"},
	{ID: "litecoin", Symbol: "ltc", Name: "Litecoin", IconRef: iconBase + "2/large/litecoin.png"},
	{ID: "bitcoin-cash", Symbol: "bch", Name: "Bitcoin Cash", IconRef: iconBase + "780/large/bitcoin-cash-circle.png"},
	{ID: "uniswap", Symbol: "uni", Name: "Uniswap", IconRef: iconBase + "12504/large/uniswap-uni.png"},
	{ID: "near", Symbol: "near", Name: "NEAR Protocol", IconRef: iconBase + "10365/large/near.png"},
	{ID: "stellar", Symbol: "xlm", Name: "Stellar", IconRef: iconBase + "100/large/stellar_logo.png"},
	{ID: "monero", Symbol: "xmr", Name: "Monero", IconRef: iconBase + "69/large/monero_logo.png"},
	{ID: "cosmos", Symbol: "atom", Name: "Cosmos", IconRef: iconBase + "1481/large/cosmos_hub.png"},
}

// Registry 是受支持币种的静态目录，创建后只读
type Registry struct {
	coins []model.CoinDescriptor
	byID  map[string]int
}

// New 按注册顺序构建目录，重复的 id 以第一次出现为准
func New(coins ...model.CoinDescriptor) *Registry {
	r := &Registry{
		coins: make([]model.CoinDescriptor, 0, len(coins)),
		byID:  make(map[string]int, len(coins)),
	}
	for _, c := range coins {
		if _, dup := r.byID[c.ID]; dup {
			continue
		}
		r.byID[c.ID] = len(r.coins)
		r.coins = append(r.coins, c)
	}
	return r
}

// Default 返回内置的 20 个主流币种
func Default() *Registry {
	return New(defaultCoins...)
}

// Lookup 按 id 查找币种
func (r *Registry) Lookup(id string) (model.CoinDescriptor, error) {
	i, ok := r.byID[id]
	if !ok {
		return model.CoinDescriptor{}, fmt.Errorf("lookup %q: %w", id, model.ErrNotFound)
	}
	return r.coins[i], nil
}

// List 返回按注册顺序排列的全部币种 (副本)
func (r *Registry) List() []model.CoinDescriptor {
	out := make([]model.CoinDescriptor, len(r.coins))
	copy(out, r.coins)
	return out
}

func (r *Registry) Len() int {
	return len(r.coins)
}
