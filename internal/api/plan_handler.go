package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/catalog"
	"github.com/simvista/sim-server/internal/storage"
)

// PlanHandler 套餐目录处理器。
// 读取永远走本地镜像（离线优先），只有显式 refresh 触网。
type PlanHandler struct {
	cache  *catalog.PlanCache
	repo   storage.CoreRepo
	logger *zap.Logger
}

// NewPlanHandler 创建套餐处理器
func NewPlanHandler(cache *catalog.PlanCache, repo storage.CoreRepo, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{cache: cache, repo: repo, logger: logger}
}

// List 查询套餐列表
// @Summary 查询套餐列表
// @Description 从本地镜像读取套餐，支持运营商名过滤（大小写不敏感子串）
// @Tags 套餐目录
// @Produce json
// @Security ApiKeyAuth
// @Param carrier query string false "运营商名过滤"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	if fragment := c.Query("carrier"); fragment != "" {
		// 过滤查询直达 DB 镜像，热缓存只存全集
		plans, err := h.repo.ListPlansByCarrier(c.Request.Context(), fragment)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondList(c, plans, len(plans))
		return
	}

	plans, err := h.cache.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondList(c, plans, len(plans))
}

// Get 查询单个套餐
// @Summary 查询套餐详情
// @Tags 套餐目录
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "套餐ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	id := c.Param("id")
	plan, err := h.repo.GetPlan(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "plan not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, http.StatusOK, plan)
}

// Refresh 触发目录刷新
// @Summary 刷新套餐目录
// @Description 从远端拉取最新目录；失败时退回非空镜像，镜像为空才报错
// @Tags 套餐目录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 502 {object} map[string]interface{} "刷新失败且镜像为空"
// @Router /api/plans/refresh [post]
func (h *PlanHandler) Refresh(c *gin.Context) {
	plans, err := h.cache.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyCache) {
			respondError(c, http.StatusBadGateway, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondList(c, plans, len(plans))
}
