package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/switchflow"
)

// SwitchHandler SIM切换处理器
type SwitchHandler struct {
	service *switchflow.Service
	flow    *switchflow.Coordinator
	logger  *zap.Logger
}

// NewSwitchHandler 创建切换处理器
func NewSwitchHandler(service *switchflow.Service, flow *switchflow.Coordinator, logger *zap.Logger) *SwitchHandler {
	return &SwitchHandler{service: service, flow: flow, logger: logger}
}

type switchPayload struct {
	OldSim      string  `json:"old_sim" binding:"required"`
	NewSim      string  `json:"new_sim" binding:"required"`
	OldSimSlot  int     `json:"old_sim_slot"`
	NewSimSlot  int     `json:"new_sim_slot"`
	Reason      *string `json:"reason"`
	CarrierName string  `json:"carrier_name"`
}

func (p switchPayload) toRequest() switchflow.Request {
	return switchflow.Request{
		OldSim:      p.OldSim,
		NewSim:      p.NewSim,
		OldSimSlot:  p.OldSimSlot,
		NewSimSlot:  p.NewSimSlot,
		Reason:      p.Reason,
		CarrierName: p.CarrierName,
	}
}

func bindSwitchPayload(c *gin.Context) (switchPayload, bool) {
	var payload switchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "old_sim and new_sim are required")
		return payload, false
	}
	if payload.OldSimSlot < 0 || payload.NewSimSlot < 0 {
		respondError(c, http.StatusBadRequest, "slot numbers must be non-negative")
		return payload, false
	}
	return payload, true
}

// Switch 执行SIM切换（调用方已完成确认）
// @Summary 执行SIM切换
// @Description 记录切换事件并调度对应运营商的余额同步任务
// @Tags 切换事件
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} map[string]interface{} "事件已记录"
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Router /api/switch [post]
func (h *SwitchHandler) Switch(c *gin.Context) {
	payload, ok := bindSwitchPayload(c)
	if !ok {
		return
	}

	id, err := h.service.Execute(c.Request.Context(), payload.toRequest())
	if err != nil {
		// 事件可能已落库但调度失败，把 id 一并带回
		if id > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":  false,
				"error":    err.Error(),
				"event_id": id,
			})
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"event_id": id})
}

// RequestSwitch 发起待确认切换
// @Summary 发起待确认切换
// @Description 登记切换请求并返回确认 id，确认窗口内未确认按取消处理
// @Tags 切换事件
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 202 {object} map[string]interface{} "等待确认"
// @Router /api/switch/request [post]
func (h *SwitchHandler) RequestSwitch(c *gin.Context) {
	payload, ok := bindSwitchPayload(c)
	if !ok {
		return
	}

	id := h.flow.Begin(payload.toRequest())
	respondOK(c, http.StatusAccepted, gin.H{"confirmation_id": id})
}

// ConfirmSwitch 确认切换
// @Summary 确认切换
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Router /api/switch/request/{id}/confirm [post]
func (h *SwitchHandler) ConfirmSwitch(c *gin.Context) {
	if err := h.flow.Confirm(c.Param("id")); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"confirmation_id": c.Param("id")})
}

// CancelSwitch 取消切换
// @Summary 取消切换
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Router /api/switch/request/{id}/cancel [post]
func (h *SwitchHandler) CancelSwitch(c *gin.Context) {
	if err := h.flow.Cancel(c.Param("id")); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, http.StatusOK, gin.H{"confirmation_id": c.Param("id")})
}

// SwitchStatus 查询切换确认状态
// @Summary 查询切换确认状态
// @Description 等待确认返回 loading，确认落库返回 success，取消/超时返回 empty，执行失败返回 error
// @Tags 切换事件
// @Produce json
// @Security ApiKeyAuth
// @Router /api/switch/request/{id} [get]
func (h *SwitchHandler) SwitchStatus(c *gin.Context) {
	status, err := h.flow.Status(c.Param("id"))
	if errors.Is(err, switchflow.ErrUnknownConfirmation) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}

	var view ViewState
	switch status.State {
	case switchflow.StateConfirmed:
		view = ViewSuccess(gin.H{"event_id": status.EventID})
	case switchflow.StateCancelled:
		view = ViewEmpty()
	case switchflow.StateFailed:
		view = ViewError(status.Err)
	default:
		view = ViewLoading()
	}
	respondOK(c, http.StatusOK, view)
}
