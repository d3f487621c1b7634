package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

// GetStats 返回全量统计，身高已配置且有记录时附带 BMI 与分类。
func (a *API) GetStats(c *gin.Context) {
	records, err := a.records.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	stats := service.ComputeStats(records, todayString())
	payload := gin.H{"stats": stats}

	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	if stats.Current != nil {
		if bmi := service.CalculateBMI(*stats.Current, settings.Height); bmi > 0 {
			category := service.BMICategoryOf(bmi)
			payload["bmi"] = service.Round1(bmi)
			payload["bmiCategory"] = category
			payload["bmiLabel"] = service.BMILabels[category]
		}
	}
	if settings.GoalWeight > 0 {
		payload["goalWeight"] = settings.GoalWeight
	}

	c.JSON(http.StatusOK, payload)
}

type chartPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// GetChart 返回绘图用的数据点，按日期升序。
func (a *API) GetChart(c *gin.Context) {
	records, err := a.records.ListRange(c.DefaultQuery("range", service.RangeAll), todayString())
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, "时间范围不合法")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取图表数据失败")
		return
	}

	points := make([]chartPoint, 0, len(records))
	for _, r := range records {
		points = append(points, chartPoint{Date: r.Date, Weight: r.Weight})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	c.JSON(http.StatusOK, gin.H{"points": points})
}
