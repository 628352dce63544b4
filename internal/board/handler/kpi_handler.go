package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// KPIHandler 指标处理器。无权限的读取返回空数据而不是错误
type KPIHandler struct {
	svc *service.KPIService
}

// NewKPIHandler 创建指标处理器
func NewKPIHandler(svc *service.KPIService) *KPIHandler {
	return &KPIHandler{svc: svc}
}

// ProjectKPIs 项目级指标
// GET /api/v1/projects/:id/kpis?start_date=&end_date=
func (h *KPIHandler) ProjectKPIs(c *gin.Context) {
	startDate, endDate := dateRange(c)

	totals, err := h.svc.GetProjectKPIs(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, totals)
}

// ScopeKPIs 分项级指标
// GET /api/v1/scopes/:id/kpis
func (h *KPIHandler) ScopeKPIs(c *gin.Context) {
	startDate, endDate := dateRange(c)

	totals, err := h.svc.GetScopeKPIs(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, totals)
}

// ActivityKPIs 活动级指标
// GET /api/v1/activities/:id/kpis
func (h *KPIHandler) ActivityKPIs(c *gin.Context) {
	startDate, endDate := dateRange(c)

	totals, err := h.svc.GetActivityKPIs(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, totals)
}

// ProjectTrend 项目按日趋势
// GET /api/v1/projects/:id/trend
func (h *KPIHandler) ProjectTrend(c *gin.Context) {
	startDate, endDate := dateRange(c)

	points, err := h.svc.GetProjectTrend(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": points})
}

// ScopeTrend 分项按日趋势
// GET /api/v1/scopes/:id/trend
func (h *KPIHandler) ScopeTrend(c *gin.Context) {
	startDate, endDate := dateRange(c)

	points, err := h.svc.GetScopeTrend(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": points})
}

// PortfolioKPIs 跨项目指标，只统计可见项目
// GET /api/v1/portfolio/kpis
func (h *KPIHandler) PortfolioKPIs(c *gin.Context) {
	startDate, endDate := dateRange(c)

	totals, err := h.svc.GetPortfolioKPIs(c.Request.Context(), GetUserID(c), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, totals)
}

// PortfolioTrend 跨项目趋势
// GET /api/v1/portfolio/trend
func (h *KPIHandler) PortfolioTrend(c *gin.Context) {
	startDate, endDate := dateRange(c)

	points, err := h.svc.GetPortfolioTrend(c.Request.Context(), GetUserID(c), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": points})
}
