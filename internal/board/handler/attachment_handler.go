package handler

import (
	"io"

	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// AttachmentHandler 附件处理器
type AttachmentHandler struct {
	svc *service.AttachmentService
}

// NewAttachmentHandler 创建附件处理器
func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload 上传附件
// POST /api/v1/entries/:id/attachments  (multipart form, field "file")
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "缺少上传文件: "+err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败: "+err.Error())
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.svc.Upload(c.Request.Context(), GetUserID(c), c.Param("id"),
		fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		fail(c, err)
		return
	}

	Created(c, attachment)
}

// List 附件清单
// GET /api/v1/entries/:id/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	attachments, err := h.svc.List(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"items": attachments})
}

// Download 下载附件
// GET /api/v1/attachments/:id/download
func (h *AttachmentHandler) Download(c *gin.Context) {
	object, attachment, err := h.svc.Download(c.Request.Context(), GetUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	defer object.Close()

	c.Header("Content-Type", attachment.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+attachment.FileName+"\"")

	if _, err := io.Copy(c.Writer, object); err != nil {
		InternalError(c, "write file: "+err.Error())
	}
}

// Delete 删除附件
// DELETE /api/v1/attachments/:id
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), GetUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	Success(c, gin.H{"message": "已删除"})
}
