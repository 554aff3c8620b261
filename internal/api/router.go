package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"crypto-dashboard/internal/model"
	"crypto-dashboard/internal/state"
)

// StatusSource 提供当前选择状态，用于健康检查
type StatusSource interface {
	Current() state.Selected
}

// Settings 是页面构建按钮所需的静态配置
type Settings struct {
	Coins          []model.CoinDescriptor `json:"coins"`
	Ranges         []int                  `json:"ranges"`
	DefaultRange   int                    `json:"defaultRange"`
	AmountPresets  []float64              `json:"amountPresets"`
	PaymentMethods []string               `json:"paymentMethods"`
	Tabs           []string               `json:"tabs"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Coin       string `json:"coin"`
	Days       int    `json:"days"`
	PriceKnown bool   `json:"priceKnown"`
	Sessions   int    `json:"sessions"`
}

// NewRouter 注册 WebSocket、健康检查、页面配置和 (可选的) 静态文件路由
func NewRouter(hub *Hub, status StatusSource, settings Settings, staticDir string, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/ws", hub)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		sel := status.Current()
		writeJSON(w, logger, healthResponse{
			Status:     "ok",
			Coin:       sel.Coin.ID,
			Days:       sel.RangeDays,
			PriceKnown: sel.PriceKnown,
			Sessions:   hub.Sessions(),
		})
	})
	mux.HandleFunc("GET /api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, settings)
	})

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", zap.Error(err))
	}
}
