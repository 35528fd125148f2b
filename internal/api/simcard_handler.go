package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simvista/sim-server/internal/storage"
	"github.com/simvista/sim-server/internal/storage/models"
	"github.com/simvista/sim-server/internal/telephony"
)

// SimCardHandler SIM卡资源CRUD处理器
type SimCardHandler struct {
	repo   storage.CoreRepo
	logger *zap.Logger
}

// NewSimCardHandler 创建SIM卡处理器
func NewSimCardHandler(repo storage.CoreRepo, logger *zap.Logger) *SimCardHandler {
	return &SimCardHandler{repo: repo, logger: logger}
}

type simCardPayload struct {
	SlotNumber  int     `json:"slot_number"`
	CarrierName *string `json:"carrier_name"`
	SimState    string  `json:"sim_state"`
	NetworkType *string `json:"network_type"`
	ICCID       *string `json:"iccid"`
	IMSI        *string `json:"imsi"`
	PhoneNumber *string `json:"phone_number"`
	CountryCode *string `json:"country_code"`
	IsActive    *bool   `json:"is_active"`
}

// List 查询SIM卡列表
// @Summary 查询SIM卡列表
// @Tags SIM卡管理
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "每页数量(默认100)"
// @Param offset query int false "偏移量(默认0)"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/simcards [get]
func (h *SimCardHandler) List(c *gin.Context) {
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

	cards, err := h.repo.ListSimCards(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondList(c, cards, len(cards))
}

// Get 查询单张SIM卡
// @Summary 查询SIM卡详情
// @Tags SIM卡管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "SIM卡ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/simcards/{id} [get]
func (h *SimCardHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	card, err := h.repo.GetSimCard(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "sim card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, http.StatusOK, card)
}

// Create 新增SIM卡
// @Summary 新增SIM卡
// @Tags SIM卡管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} map[string]interface{} "创建成功"
// @Router /api/simcards [post]
func (h *SimCardHandler) Create(c *gin.Context) {
	var payload simCardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SlotNumber < 0 {
		respondError(c, http.StatusBadRequest, "slot_number must be non-negative")
		return
	}

	card := models.SimCard{
		SlotNumber:  payload.SlotNumber,
		CarrierName: payload.CarrierName,
		SimState:    string(telephony.ParseSimState(payload.SimState)),
		NetworkType: payload.NetworkType,
		ICCID:       payload.ICCID,
		IMSI:        payload.IMSI,
		PhoneNumber: payload.PhoneNumber,
		CountryCode: payload.CountryCode,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		card.IsActive = *payload.IsActive
	}

	if err := h.repo.CreateSimCard(c.Request.Context(), &card); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("sim card created", zap.Int64("id", card.ID), zap.Int("slot", card.SlotNumber))
	respondOK(c, http.StatusCreated, card)
}

// Update 更新SIM卡
// @Summary 更新SIM卡
// @Tags SIM卡管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "SIM卡ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/simcards/{id} [put]
func (h *SimCardHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.repo.GetSimCard(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "sim card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var payload simCardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	existing.SlotNumber = payload.SlotNumber
	existing.CarrierName = payload.CarrierName
	if payload.SimState != "" {
		existing.SimState = string(telephony.ParseSimState(payload.SimState))
	}
	existing.NetworkType = payload.NetworkType
	existing.ICCID = payload.ICCID
	existing.IMSI = payload.IMSI
	existing.PhoneNumber = payload.PhoneNumber
	existing.CountryCode = payload.CountryCode
	if payload.IsActive != nil {
		existing.IsActive = *payload.IsActive
	}

	if err := h.repo.UpdateSimCard(c.Request.Context(), existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "sim card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, http.StatusOK, existing)
}

// Delete 删除SIM卡
// @Summary 删除SIM卡
// @Tags SIM卡管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "SIM卡ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Failure 404 {object} map[string]interface{} "不存在"
// @Router /api/simcards/{id} [delete]
func (h *SimCardHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.repo.DeleteSimCard(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "sim card not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("sim card deleted", zap.Int64("id", id))
	respondOK(c, http.StatusOK, gin.H{"deleted": id})
}
