package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

type recordPayload struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Note   string  `json:"note"`
}

// ListRecords 返回记录列表 JSON，最新在前，支持 range=7d|30d|90d|all 过滤。
func (a *API) ListRecords(c *gin.Context) {
	records, err := a.records.ListRange(c.DefaultQuery("range", service.RangeAll), todayString())
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, "时间范围不合法")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取记录列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// UpsertRecord 写入某天的体重，同一天重复提交为覆盖更新。
func (a *API) UpsertRecord(c *gin.Context) {
	var payload recordPayload
	if !bindJSON(c, &payload, "请求格式不正确") {
		return
	}

	record, err := a.records.Upsert(payload.Date, payload.Weight, payload.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecordDate):
			respondError(c, http.StatusBadRequest, "日期格式不正确")
		case errors.Is(err, service.ErrInvalidWeight):
			respondError(c, http.StatusBadRequest, "体重必须为正数")
		default:
			respondError(c, http.StatusInternalServerError, "保存记录失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord 按 ID 删除记录，不存在时同样返回成功。
func (a *API) DeleteRecord(c *gin.Context) {
	if err := a.records.Delete(c.Param("id")); err != nil {
		respondError(c, http.StatusInternalServerError, "删除记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
