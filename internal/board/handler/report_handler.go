package handler

import (
	"github.com/atgonza18/buildboard/internal/board/service"
	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Export 导出项目报表xlsx
// GET /api/v1/projects/:id/report?start_date=&end_date=
func (h *ReportHandler) Export(c *gin.Context) {
	startDate, endDate := dateRange(c)

	f, filename, err := h.svc.ExportProjectReport(c.Request.Context(), GetUserID(c), c.Param("id"), startDate, endDate)
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
