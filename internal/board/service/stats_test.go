package service

import (
	"testing"

	"github.com/atgonza18/buildboard/internal/board/entity"
)

func f(x float64) *float64 {
	return &x
}

func TestReduceTotals(t *testing.T) {
	entries := []entity.DailyEntry{
		{EntryDate: "2026-03-01", ForecastQuantity: f(100), ActualQuantity: f(90), ForecastHours: f(40), ActualHours: f(40)},
		{EntryDate: "2026-03-02", ForecastQuantity: f(50), ActualQuantity: f(55), ForecastHours: f(20), ActualHours: f(24)},
	}

	totals := reduceTotals(entries)

	if totals.TotalForecastQuantity != 150 {
		t.Errorf("Expected forecast quantity 150, got %v", totals.TotalForecastQuantity)
	}
	if totals.TotalActualQuantity != 145 {
		t.Errorf("Expected actual quantity 145, got %v", totals.TotalActualQuantity)
	}
	if totals.TotalForecastHours != 60 {
		t.Errorf("Expected forecast hours 60, got %v", totals.TotalForecastHours)
	}
	if totals.TotalActualHours != 64 {
		t.Errorf("Expected actual hours 64, got %v", totals.TotalActualHours)
	}
	if totals.QuantityVariance != -5 {
		t.Errorf("Expected variance -5, got %v", totals.QuantityVariance)
	}
	// 145 / 64 = 2.265625 → 2.27
	if totals.ProductionRate != 2.27 {
		t.Errorf("Expected production rate 2.27, got %v", totals.ProductionRate)
	}
	if totals.EntryCount != 2 {
		t.Errorf("Expected entry count 2, got %v", totals.EntryCount)
	}
}

func TestReduceTotalsNilFieldsCountAsZero(t *testing.T) {
	entries := []entity.DailyEntry{
		{EntryDate: "2026-03-01", ForecastQuantity: f(100)},
		{EntryDate: "2026-03-02"},
	}

	totals := reduceTotals(entries)

	if totals.TotalForecastQuantity != 100 {
		t.Errorf("Expected forecast quantity 100, got %v", totals.TotalForecastQuantity)
	}
	if totals.TotalActualQuantity != 0 {
		t.Errorf("Expected actual quantity 0, got %v", totals.TotalActualQuantity)
	}
	// 实际工时为0，效率记0而不是报错
	if totals.ProductionRate != 0 {
		t.Errorf("Expected production rate 0, got %v", totals.ProductionRate)
	}
	if totals.EntryCount != 2 {
		t.Errorf("Expected entry count 2, got %v", totals.EntryCount)
	}
}

func TestReduceTotalsEmpty(t *testing.T) {
	totals := reduceTotals(nil)
	if totals.EntryCount != 0 || totals.ProductionRate != 0 || totals.QuantityVariance != 0 {
		t.Errorf("Expected zero totals, got %+v", totals)
	}
}

func TestProductionFactorZeroDenominator(t *testing.T) {
	if got := productionFactor(90, 0); got != 0 {
		t.Errorf("Expected 0 with zero forecast, got %v", got)
	}
	if got := productionFactor(90, 100); got != 0.9 {
		t.Errorf("Expected 0.9, got %v", got)
	}
	// 2/3 = 0.666… → 0.67
	if got := productionFactor(2, 3); got != 0.67 {
		t.Errorf("Expected 0.67, got %v", got)
	}
}

func TestVariancePercent(t *testing.T) {
	if got := variancePercent(90, 100); got != -10 {
		t.Errorf("Expected -10, got %v", got)
	}
	if got := variancePercent(100, 0); got != 0 {
		t.Errorf("Expected 0 with zero forecast, got %v", got)
	}
	// (95-90)/90*100 = 5.555… → 5.6
	if got := variancePercent(95, 90); got != 5.6 {
		t.Errorf("Expected 5.6, got %v", got)
	}
}

func TestReduceTrendWeightedFactor(t *testing.T) {
	// 同一天两个活动：PF 0.95 权重40小时，PF 1.0 权重10小时
	// 加权 = (0.95*40 + 1.0*10) / 50 = 0.96
	entries := []entity.DailyEntry{
		{EntryDate: "2026-03-01", ForecastQuantity: f(100), ActualQuantity: f(95), ForecastHours: f(40)},
		{EntryDate: "2026-03-01", ForecastQuantity: f(50), ActualQuantity: f(50), ForecastHours: f(10)},
	}

	points := reduceTrend(entries)
	if len(points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(points))
	}
	if points[0].ProductionFactor != 0.96 {
		t.Errorf("Expected weighted factor 0.96, got %v", points[0].ProductionFactor)
	}
	if points[0].EntryCount != 2 {
		t.Errorf("Expected entry count 2, got %v", points[0].EntryCount)
	}
	if points[0].TotalForecastQuantity != 150 {
		t.Errorf("Expected forecast quantity 150, got %v", points[0].TotalForecastQuantity)
	}
}

func TestReduceTrendSortedByDate(t *testing.T) {
	entries := []entity.DailyEntry{
		{EntryDate: "2026-03-03", ForecastQuantity: f(10), ActualQuantity: f(10), ForecastHours: f(8)},
		{EntryDate: "2026-03-01", ForecastQuantity: f(10), ActualQuantity: f(9), ForecastHours: f(8)},
		{EntryDate: "2026-03-02", ForecastQuantity: f(10), ActualQuantity: f(11), ForecastHours: f(8)},
	}

	points := reduceTrend(entries)
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	want := []string{"2026-03-01", "2026-03-02", "2026-03-03"}
	for i, date := range want {
		if points[i].Date != date {
			t.Errorf("Point %d: expected date %s, got %s", i, date, points[i].Date)
		}
	}
}

func TestReduceTrendZeroWeight(t *testing.T) {
	// 没有计划工时权重的日期，系数记0
	entries := []entity.DailyEntry{
		{EntryDate: "2026-03-01", ForecastQuantity: f(100), ActualQuantity: f(90)},
	}

	points := reduceTrend(entries)
	if len(points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(points))
	}
	if points[0].ProductionFactor != 0 {
		t.Errorf("Expected factor 0 without weights, got %v", points[0].ProductionFactor)
	}
	if points[0].TotalActualQuantity != 90 {
		t.Errorf("Expected actual quantity 90, got %v", points[0].TotalActualQuantity)
	}
}
