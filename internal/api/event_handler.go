package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/storage"
)

// EventHandler 切换事件查询处理器
type EventHandler struct {
	repo   storage.CoreRepo
	logger *zap.Logger
}

// NewEventHandler 创建事件处理器
func NewEventHandler(repo storage.CoreRepo, logger *zap.Logger) *EventHandler {
	return &EventHandler{repo: repo, logger: logger}
}

// List 查询切换事件列表
// @Summary 查询切换事件
// @Description 按时间倒序分页；可选 since 参数(RFC3339)只取该时刻之后的事件
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "每页数量(默认100)"
// @Param offset query int false "偏移量(默认0)"
// @Param since query string false "RFC3339 起始时间"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid since timestamp, expected RFC3339")
			return
		}
		events, err := h.repo.ListSwitchEventsSince(c.Request.Context(), since)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondList(c, events, len(events))
		return
	}

	limit := 100
	offset := 0
	if v := c.Query("limit"); v != "" {
		if vv, e := strconv.Atoi(v); e == nil {
			limit = vv
		}
	}
	if v := c.Query("offset"); v != "" {
		if vv, e := strconv.Atoi(v); e == nil {
			offset = vv
		}
	}

	events, err := h.repo.ListSwitchEvents(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondList(c, events, len(events))
}

// Latest 查询最近一次切换
// @Summary 查询最近一次切换
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 404 {object} map[string]interface{} "无事件"
// @Router /api/events/latest [get]
func (h *EventHandler) Latest(c *gin.Context) {
	ev, err := h.repo.LatestSwitchEvent(c.Request.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "no switch events recorded")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, http.StatusOK, ev)
}

// BySlot 查询涉及指定槽位的事件
// @Summary 查询槽位相关事件
// @Description 返回 old 或 new 槽位匹配的全部事件
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Param slot path int true "槽位号"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/events/slot/{slot} [get]
func (h *EventHandler) BySlot(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < 0 {
		respondError(c, http.StatusBadRequest, "invalid slot")
		return
	}
	events, err := h.repo.ListSwitchEventsBySlot(c.Request.Context(), slot)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondList(c, events, len(events))
}

// Stats 切换次数汇总
// @Summary 切换统计
// @Description 返回最近24小时与最近7天的切换次数
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/events/stats [get]
func (h *EventHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	day, err := h.repo.CountSwitchEventsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	week, err := h.repo.CountSwitchEventsSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"last_24h": day,
		"last_7d":  week,
		"as_of":    now.Format(time.RFC3339),
	})
}
