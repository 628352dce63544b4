package service

import (
	"context"
	"fmt"
	"time"

	"github.com/atgonza18/buildboard/internal/board/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService 项目周报/月报导出服务
type ReportService struct {
	projectRepo *repository.ProjectRepository
	kpi         *KPIService
	leaderboard *LeaderboardService
}

// NewReportService 创建报表服务
func NewReportService(projectRepo *repository.ProjectRepository, kpi *KPIService, leaderboard *LeaderboardService) *ReportService {
	return &ReportService{
		projectRepo: projectRepo,
		kpi:         kpi,
		leaderboard: leaderboard,
	}
}

var leaderboardHeaders = []string{
	"名次", "工长", "计划数量", "实际数量", "计划工时", "实际工时", "生产系数", "偏差%", "日报数",
}

var breakdownHeaders = []string{
	"分项", "计划数量", "实际数量", "计划工时", "实际工时", "数量偏差", "生产效率", "日报数",
}

// ExportProjectReport 导出项目报表为xlsx：指标页 + 排行页 + 分项页
func (s *ReportService) ExportProjectReport(ctx context.Context, userID, projectID, startDate, endDate string) (*excelize.File, string, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, "", fmt.Errorf("project not found: %w", err)
	}

	totals, err := s.kpi.GetProjectKPIs(ctx, userID, projectID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}
	if totals == nil {
		return nil, "", ErrAccessDenied
	}

	rows, err := s.leaderboard.GetProjectLeaderboard(ctx, userID, projectID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	breakdown, err := s.leaderboard.GetScopeBreakdown(ctx, userID, projectID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 指标页
	kpiSheet := "项目指标"
	f.SetSheetName("Sheet1", kpiSheet)
	kpiRows := [][]interface{}{
		{"项目", project.Name},
		{"编号", project.Code},
		{"统计区间", rangeLabel(startDate, endDate)},
		{"计划数量", totals.TotalForecastQuantity},
		{"实际数量", totals.TotalActualQuantity},
		{"计划工时", totals.TotalForecastHours},
		{"实际工时", totals.TotalActualHours},
		{"数量偏差", totals.QuantityVariance},
		{"生产效率", totals.ProductionRate},
		{"日报数", totals.EntryCount},
	}
	for i, pair := range kpiRows {
		row := i + 1
		f.SetCellValue(kpiSheet, fmt.Sprintf("A%d", row), pair[0])
		f.SetCellValue(kpiSheet, fmt.Sprintf("B%d", row), pair[1])
		f.SetCellStyle(kpiSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
	}
	f.SetColWidth(kpiSheet, "A", "A", 14)
	f.SetColWidth(kpiSheet, "B", "B", 24)

	// 排行页
	lbSheet := "工长排行"
	f.NewSheet(lbSheet)
	for i, h := range leaderboardHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(lbSheet, cell, h)
		f.SetCellStyle(lbSheet, cell, cell, boldStyle)
	}
	for rowIdx, r := range rows {
		row := rowIdx + 2
		if r.Rank > 0 {
			f.SetCellValue(lbSheet, fmt.Sprintf("A%d", row), r.Rank)
		}
		f.SetCellValue(lbSheet, fmt.Sprintf("B%d", row), r.ForemanName)
		f.SetCellValue(lbSheet, fmt.Sprintf("C%d", row), r.ForecastQuantity)
		f.SetCellValue(lbSheet, fmt.Sprintf("D%d", row), r.ActualQuantity)
		f.SetCellValue(lbSheet, fmt.Sprintf("E%d", row), r.ForecastHours)
		f.SetCellValue(lbSheet, fmt.Sprintf("F%d", row), r.ActualHours)
		f.SetCellValue(lbSheet, fmt.Sprintf("G%d", row), r.ProductionFactor)
		f.SetCellValue(lbSheet, fmt.Sprintf("H%d", row), r.VariancePercent)
		f.SetCellValue(lbSheet, fmt.Sprintf("I%d", row), r.EntryCount)
	}
	lbWidths := []float64{6, 16, 12, 12, 12, 12, 10, 8, 8}
	for i, w := range lbWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(lbSheet, col, col, w)
	}

	// 分项页
	bdSheet := "分项汇总"
	f.NewSheet(bdSheet)
	for i, h := range breakdownHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(bdSheet, cell, h)
		f.SetCellStyle(bdSheet, cell, cell, boldStyle)
	}
	for rowIdx, b := range breakdown {
		row := rowIdx + 2
		f.SetCellValue(bdSheet, fmt.Sprintf("A%d", row), b.Name)
		f.SetCellValue(bdSheet, fmt.Sprintf("B%d", row), b.Totals.TotalForecastQuantity)
		f.SetCellValue(bdSheet, fmt.Sprintf("C%d", row), b.Totals.TotalActualQuantity)
		f.SetCellValue(bdSheet, fmt.Sprintf("D%d", row), b.Totals.TotalForecastHours)
		f.SetCellValue(bdSheet, fmt.Sprintf("E%d", row), b.Totals.TotalActualHours)
		f.SetCellValue(bdSheet, fmt.Sprintf("F%d", row), b.Totals.QuantityVariance)
		f.SetCellValue(bdSheet, fmt.Sprintf("G%d", row), b.Totals.ProductionRate)
		f.SetCellValue(bdSheet, fmt.Sprintf("H%d", row), b.Totals.EntryCount)
	}
	bdWidths := []float64{20, 12, 12, 12, 12, 10, 10, 8}
	for i, w := range bdWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(bdSheet, col, col, w)
	}

	filename := fmt.Sprintf("Report_%s_%s.xlsx", project.Code, time.Now().Format("20060102"))
	return f, filename, nil
}

func rangeLabel(startDate, endDate string) string {
	if startDate == "" && endDate == "" {
		return "全部"
	}
	if startDate == "" {
		startDate = "…"
	}
	if endDate == "" {
		endDate = "…"
	}
	return startDate + " ~ " + endDate
}
