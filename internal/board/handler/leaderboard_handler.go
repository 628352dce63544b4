package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// LeaderboardHandler 排行与分解处理器
type LeaderboardHandler struct {
	svc *service.LeaderboardService
}

// NewLeaderboardHandler 创建排行处理器
func NewLeaderboardHandler(svc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// ProjectLeaderboard 项目工长排行榜
// GET /api/v1/projects/:id/leaderboard?start_date=&end_date=
func (h *LeaderboardHandler) ProjectLeaderboard(c *gin.Context) {
	startDate, endDate := dateRange(c)

	rows, err := h.svc.GetProjectLeaderboard(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": rows})
}

// ScopeLeaderboard 分项工长排行榜
// GET /api/v1/scopes/:id/leaderboard?start_date=&end_date=
func (h *LeaderboardHandler) ScopeLeaderboard(c *gin.Context) {
	startDate, endDate := dateRange(c)

	rows, err := h.svc.GetScopeLeaderboard(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": rows})
}

// ScopeBreakdown 项目内各分项汇总
// GET /api/v1/projects/:id/breakdown/scopes
func (h *LeaderboardHandler) ScopeBreakdown(c *gin.Context) {
	startDate, endDate := dateRange(c)

	rows, err := h.svc.GetScopeBreakdown(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": rows})
}

// ProjectActivityBreakdown 项目内各活动汇总
// GET /api/v1/projects/:id/breakdown/activities
func (h *LeaderboardHandler) ProjectActivityBreakdown(c *gin.Context) {
	startDate, endDate := dateRange(c)

	rows, err := h.svc.GetProjectActivityBreakdown(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": rows})
}

// ActivityBreakdown 分项内各活动汇总
// GET /api/v1/scopes/:id/breakdown/activities
func (h *LeaderboardHandler) ActivityBreakdown(c *gin.Context) {
	startDate, endDate := dateRange(c)

	rows, err := h.svc.GetActivityBreakdown(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": rows})
}

// Participation 项目参与度统计
// GET /api/v1/projects/:id/participation
func (h *LeaderboardHandler) Participation(c *gin.Context) {
	startDate, endDate := dateRange(c)

	stats, err := h.svc.GetParticipation(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, stats)
}
