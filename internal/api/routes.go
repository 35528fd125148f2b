package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/api/middleware"
	"github.com/simvista/sim-server/internal/catalog"
	"github.com/simvista/sim-server/internal/permission"
	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/switchflow"
	"github.com/simvista/sim-server/internal/telephony"
)

// Deps 路由依赖集合
type Deps struct {
	Repo      storage.CoreRepo
	Gate      *permission.Gate
	Reader    *telephony.Reader
	PlanCache *catalog.PlanCache
	Switch    *switchflow.Service
	Flow      *switchflow.Coordinator
	Auth      middleware.AuthConfig
	RateLimit middleware.RateLimitConfig
	Logger    *zap.Logger
}

// RegisterRoutes 注册全部业务路由
func RegisterRoutes(r *gin.Engine, deps Deps) {
	if r == nil || deps.Repo == nil {
		return
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(deps.RateLimit))

	simHandler := NewSimStatusHandler(deps.Gate, deps.Reader, logger)
	cardHandler := NewSimCardHandler(deps.Repo, logger)
	planHandler := NewPlanHandler(deps.PlanCache, deps.Repo, logger)
	eventHandler := NewEventHandler(deps.Repo, logger)
	switchHandler := NewSwitchHandler(deps.Switch, deps.Flow, logger)

	api := r.Group("/api")
	if deps.Auth.Enabled {
		api.Use(middleware.APIKeyAuth(deps.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(deps.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}

	// SIM状态
	api.GET("/sim/status", simHandler.GetStatus)
	api.GET("/sim/permission", simHandler.GetPermission)

	// SIM卡资源
	api.GET("/simcards", cardHandler.List)
	api.GET("/simcards/:id", cardHandler.Get)
	api.POST("/simcards", cardHandler.Create)
	api.PUT("/simcards/:id", cardHandler.Update)
	api.DELETE("/simcards/:id", cardHandler.Delete)

	// 套餐目录
	api.GET("/plans", planHandler.List)
	api.GET("/plans/:id", planHandler.Get)
	api.POST("/plans/refresh", planHandler.Refresh)

	// 切换事件（/switch 为已确认调用方的直达入口，/switch/request 走确认流程）
	api.POST("/switch", switchHandler.Switch)
	api.POST("/switch/request", switchHandler.RequestSwitch)
	api.GET("/switch/request/:id", switchHandler.SwitchStatus)
	api.POST("/switch/request/:id/confirm", switchHandler.ConfirmSwitch)
	api.POST("/switch/request/:id/cancel", switchHandler.CancelSwitch)
	api.GET("/events", eventHandler.List)
	api.GET("/events/latest", eventHandler.Latest)
	api.GET("/events/slot/:slot", eventHandler.BySlot)
	api.GET("/events/stats", eventHandler.Stats)

	logger.Info("api routes registered", zap.Int("endpoints", 19))
}
