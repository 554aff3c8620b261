package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"crypto-dashboard/internal/api"
	"crypto-dashboard/internal/controller"
	"crypto-dashboard/internal/executor"
	"crypto-dashboard/internal/registry"
	"crypto-dashboard/internal/service"
	"crypto-dashboard/internal/view"
)

func main() {
	cfg, err := service.LoadConfig("config")
	if err != nil {
		service.InitLogger("info")
		service.Logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	service.InitLogger(cfg.Log.Level)
	defer service.Logger.Sync()

	loc, _ := cfg.Location()

	// 1. 币种注册表与行情客户端
	coins := registry.Default()
	gecko := api.NewCoinGecko(cfg.Market.BaseURL, cfg.Market.Timeout, service.Logger)

	// 2. 展示层：Hub 同时是字段写入方和图表宿主
	hub := api.NewHub(service.Logger, cfg.Server.AllowedOrigins)
	renderer := view.NewRenderer(hub, hub, view.Options{
		Location:            loc,
		MovingAveragePeriod: cfg.Chart.MovingAveragePeriod,
		Palette: view.Palette{
			Positive:     cfg.Chart.Palette.Positive,
			Negative:     cfg.Chart.Palette.Negative,
			PositiveFill: cfg.Chart.Palette.PositiveFill,
			NegativeFill: cfg.Chart.Palette.NegativeFill,
			FillEnd:      cfg.Chart.Palette.FillEnd,
		},
	}, service.Logger)

	// 3. 控制器
	ctrl, err := controller.New(controller.Options{
		DefaultCoin:     cfg.Dashboard.DefaultCoin,
		Ranges:          cfg.Chart.Ranges,
		DefaultRange:    cfg.Chart.DefaultRange,
		RefreshInterval: cfg.Refresh.Interval,
		PaymentMethods:  cfg.Dashboard.PaymentMethods,
		Tabs:            cfg.Dashboard.Tabs,
	}, coins, gecko, renderer, executor.NewBlockedExecutor(service.Logger), service.Logger)
	if err != nil {
		service.Logger.Fatal("Failed to create dashboard controller", zap.Error(err))
	}
	hub.SetHandler(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)

	// 4. HTTP 服务
	router := api.NewRouter(hub, ctrl, api.Settings{
		Coins:          coins.List(),
		Ranges:         ctrl.Ranges(),
		DefaultRange:   cfg.Chart.DefaultRange,
		AmountPresets:  cfg.Dashboard.AmountPresets,
		PaymentMethods: ctrl.PaymentMethods(),
		Tabs:           ctrl.Tabs(),
	}, cfg.Server.StaticDir, service.Logger)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		service.Logger.Info("Starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			service.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	service.Logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		service.Logger.Error("Server shutdown error", zap.Error(err))
	}
	// Shutdown 不会关闭已升级的 WebSocket 连接，先断开会话再停止控制器
	hub.Close()
	ctrl.Stop()
	service.Logger.Info("Server stopped")
}
