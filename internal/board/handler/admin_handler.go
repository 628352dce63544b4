package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler 管理处理器，路由层已限定控制中心角色
type AdminHandler struct {
	svc *service.AdminService
}

// NewAdminHandler 创建管理处理器
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Reset 清空全部业务数据，日常运营不可用，仅供演示环境重置
// POST /api/v1/admin/reset
func (h *AdminHandler) Reset(c *gin.Context) {
	var req struct {
		Confirm string `json:"confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if req.Confirm != "RESET" {
		BadRequest(c, "confirm 字段必须为 RESET")
		return
	}

	if err := h.svc.Reset(c.Request.Context()); err != nil {
		InternalError(c, "重置失败: "+err.Error())
		return
	}

	Success(c, gin.H{"message": "已重置"})
}
