package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

// GetSettings 返回当前用户设置。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.Get()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 按字段合并更新设置，未提供的字段保持原值。
func (a *API) UpdateSettings(c *gin.Context) {
	var patch service.SettingsPatch
	if !bindJSON(c, &patch, "请求格式不正确") {
		return
	}

	settings, err := a.settings.Update(patch)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDarkMode):
			respondError(c, http.StatusBadRequest, "外观模式不合法")
		case errors.Is(err, service.ErrInvalidSettingValue):
			respondError(c, http.StatusBadRequest, "身高与目标体重不能为负数")
		default:
			respondError(c, http.StatusInternalServerError, "保存设置失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
