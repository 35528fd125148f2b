package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/permission"
	"github.com/simvista/sim-server/internal/telephony"
)

// SimStatusHandler SIM状态查询处理器。
// 读取路径永不失败：权限不足或平台读取异常时降级为占位数据，
// 由 data 中的 mock 标记区分真实与占位。
type SimStatusHandler struct {
	gate   *permission.Gate
	reader *telephony.Reader
	logger *zap.Logger
}

// NewSimStatusHandler 创建SIM状态处理器
func NewSimStatusHandler(gate *permission.Gate, reader *telephony.Reader, logger *zap.Logger) *SimStatusHandler {
	return &SimStatusHandler{gate: gate, reader: reader, logger: logger}
}

// GetStatus 查询SIM卡状态
// @Summary 查询SIM卡状态
// @Description 返回当前设备各槽位SIM状态，权限不足时返回占位数据
// @Tags SIM状态
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/sim/status [get]
func (h *SimStatusHandler) GetStatus(c *gin.Context) {
	decision := h.gate.Evaluate()
	records := h.reader.Read(c.Request.Context(), decision)

	state := ViewSuccess(records)
	if len(records) == 0 {
		state = ViewEmpty()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"permission": decision.String(),
		"data":       state,
		"count":      len(records),
	})
}

// GetPermission 查询电话状态权限判定
// @Summary 查询权限判定
// @Description 返回三态权限判定结果（granted/needs_rationale/permanently_denied）
// @Tags SIM状态
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/sim/permission [get]
func (h *SimStatusHandler) GetPermission(c *gin.Context) {
	decision := h.gate.Evaluate()
	respondOK(c, http.StatusOK, gin.H{"decision": decision.String()})
}
