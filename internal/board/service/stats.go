package service

import (
	"math"
	"sort"

	"github.com/atgonza18/buildboard/internal/board/entity"
)

// Totals 汇总指标：计划/实际工程量与工时、量差、生产效率
type Totals struct {
	TotalForecastQuantity float64 `json:"total_forecast_quantity"`
	TotalActualQuantity   float64 `json:"total_actual_quantity"`
	TotalForecastHours    float64 `json:"total_forecast_hours"`
	TotalActualHours      float64 `json:"total_actual_hours"`
	QuantityVariance      float64 `json:"quantity_variance"`
	ProductionRate        float64 `json:"production_rate"`
	EntryCount            int     `json:"entry_count"`
}

// TrendPoint 按日期的趋势点，生产系数按计划工时加权
type TrendPoint struct {
	Date                  string  `json:"date"`
	TotalForecastQuantity float64 `json:"total_forecast_quantity"`
	TotalActualQuantity   float64 `json:"total_actual_quantity"`
	TotalForecastHours    float64 `json:"total_forecast_hours"`
	TotalActualHours      float64 `json:"total_actual_hours"`
	ProductionFactor      float64 `json:"production_factor"`
	EntryCount            int     `json:"entry_count"`
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// fv 解引用可空数值，缺省按0
func fv(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// productionFactor 实际/计划，分母为0时返回0，保留2位
func productionFactor(actual, forecast float64) float64 {
	if forecast <= 0 {
		return 0
	}
	return round2(actual / forecast)
}

// productionRate 工程量/实际工时，分母为0时返回0，保留2位
func productionRate(quantity, hours float64) float64 {
	if hours <= 0 {
		return 0
	}
	return round2(quantity / hours)
}

// variancePercent (实际-计划)/计划×100，分母为0时返回0，保留1位
func variancePercent(actual, forecast float64) float64 {
	if forecast <= 0 {
		return 0
	}
	return round1((actual - forecast) / forecast * 100)
}

// reduceTotals 单遍汇总一组日报
func reduceTotals(entries []entity.DailyEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.TotalForecastQuantity += fv(e.ForecastQuantity)
		t.TotalActualQuantity += fv(e.ActualQuantity)
		t.TotalForecastHours += fv(e.ForecastHours)
		t.TotalActualHours += fv(e.ActualHours)
	}
	t.EntryCount = len(entries)
	t.QuantityVariance = t.TotalActualQuantity - t.TotalForecastQuantity
	t.ProductionRate = productionRate(t.TotalActualQuantity, t.TotalActualHours)
	return t
}

// reduceTrend 按日期汇总并计算加权生产系数。
// 单条日报的系数 = 实际量/计划量，以该条的计划工时为权重累加：
// 不同活动的工程量单位不可比，按计划投入工时加权才有意义。
// 权重和为0的日期系数记0。结果按日期升序
func reduceTrend(entries []entity.DailyEntry) []TrendPoint {
	type acc struct {
		point       TrendPoint
		weightedSum float64
		weightTotal float64
	}

	byDate := make(map[string]*acc)
	for _, e := range entries {
		a, ok := byDate[e.EntryDate]
		if !ok {
			a = &acc{point: TrendPoint{Date: e.EntryDate}}
			byDate[e.EntryDate] = a
		}

		fq := fv(e.ForecastQuantity)
		fh := fv(e.ForecastHours)
		a.point.TotalForecastQuantity += fq
		a.point.TotalActualQuantity += fv(e.ActualQuantity)
		a.point.TotalForecastHours += fh
		a.point.TotalActualHours += fv(e.ActualHours)
		a.point.EntryCount++

		if fq > 0 && fh > 0 {
			entryPF := fv(e.ActualQuantity) / fq
			a.weightedSum += entryPF * fh
			a.weightTotal += fh
		}
	}

	points := make([]TrendPoint, 0, len(byDate))
	for _, a := range byDate {
		if a.weightTotal > 0 {
			a.point.ProductionFactor = round2(a.weightedSum / a.weightTotal)
		}
		points = append(points, a.point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}
