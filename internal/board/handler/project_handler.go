package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler 项目处理器：项目、分项、活动与人员分配
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List 项目列表，只含调用方可见的项目
// GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	projects, err := h.svc.ListProjects(c.Request.Context(), GetUserID(c), filters)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": projects})
}

// Get 项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, project)
}

// Create 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, project)
}

// Update 更新项目
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.UpdateProject(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, project)
}

// ListScopes 项目分项列表
// GET /api/v1/projects/:id/scopes
func (h *ProjectHandler) ListScopes(c *gin.Context) {
	scopes, err := h.svc.ListScopes(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": scopes})
}

// CreateScope 创建分项
// POST /api/v1/scopes
func (h *ProjectHandler) CreateScope(c *gin.Context) {
	var req service.CreateScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	scope, err := h.svc.CreateScope(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, scope)
}

// UpdateScope 更新分项
// PUT /api/v1/scopes/:id
func (h *ProjectHandler) UpdateScope(c *gin.Context) {
	var req service.UpdateScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	scope, err := h.svc.UpdateScope(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, scope)
}

// DeleteScope 删除分项及下属数据
// DELETE /api/v1/scopes/:id
func (h *ProjectHandler) DeleteScope(c *gin.Context) {
	if err := h.svc.DeleteScope(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已删除"})
}

// ListActivities 分项活动列表
// GET /api/v1/scopes/:id/activities
func (h *ProjectHandler) ListActivities(c *gin.Context) {
	activities, err := h.svc.ListActivities(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": activities})
}

// CreateActivity 创建活动
// POST /api/v1/activities
func (h *ProjectHandler) CreateActivity(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	activity, err := h.svc.CreateActivity(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, activity)
}

// UpdateActivity 更新活动
// PUT /api/v1/activities/:id
func (h *ProjectHandler) UpdateActivity(c *gin.Context) {
	var req service.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	activity, err := h.svc.UpdateActivity(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, activity)
}

// DeleteActivity 删除活动及其日报
// DELETE /api/v1/activities/:id
func (h *ProjectHandler) DeleteActivity(c *gin.Context) {
	if err := h.svc.DeleteActivity(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已删除"})
}

// ListAssignments 项目人员分配列表
// GET /api/v1/projects/:id/assignments
func (h *ProjectHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.svc.ListAssignments(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": assignments})
}

// AssignUser 把用户分配到项目
// POST /api/v1/projects/:id/assignments
func (h *ProjectHandler) AssignUser(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	assignment, err := h.svc.AssignUser(c.Request.Context(), GetUserID(c), c.Param("id"), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, assignment)
}

// UnassignUser 移除用户的项目分配
// DELETE /api/v1/projects/:id/assignments/:userId
func (h *ProjectHandler) UnassignUser(c *gin.Context) {
	if err := h.svc.UnassignUser(c.Request.Context(), GetUserID(c), c.Param("id"), c.Param("userId")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已移除"})
}

// SetScopeForeman 指定分项负责工长
// PUT /api/v1/scopes/:id/foreman
func (h *ProjectHandler) SetScopeForeman(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	assignment, err := h.svc.SetScopeForeman(c.Request.Context(), GetUserID(c), c.Param("id"), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, assignment)
}

// ClearScopeForeman 取消分项负责工长
// DELETE /api/v1/scopes/:id/foreman
func (h *ProjectHandler) ClearScopeForeman(c *gin.Context) {
	if err := h.svc.ClearScopeForeman(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已取消"})
}
