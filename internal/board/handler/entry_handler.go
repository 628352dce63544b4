package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// EntryHandler 日报处理器
type EntryHandler struct {
	svc *service.EntryService
}

// NewEntryHandler 创建日报处理器
func NewEntryHandler(svc *service.EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// SubmitForecast 提交计划数据
// POST /api/v1/entries/forecast
func (h *EntryHandler) SubmitForecast(c *gin.Context) {
	var req service.SubmitForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	entry, err := h.svc.SubmitForecast(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, entry)
}

// SubmitActuals 提交实际数据
// POST /api/v1/entries/actuals
func (h *EntryHandler) SubmitActuals(c *gin.Context) {
	var req service.SubmitActualsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	entry, err := h.svc.SubmitActuals(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, entry)
}

// Submit 组合提交，计划和实际可在同一请求里给出
// POST /api/v1/entries
func (h *EntryHandler) Submit(c *gin.Context) {
	var req service.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	entry, err := h.svc.Submit(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, entry)
}

// Delete 删除日报
// DELETE /api/v1/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已删除"})
}

// ListByActivity 活动的日报列表
// GET /api/v1/activities/:id/entries?start_date=&end_date=
func (h *EntryHandler) ListByActivity(c *gin.Context) {
	startDate, endDate := dateRange(c)

	entries, err := h.svc.ListByActivity(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": entries})
}
