package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

// SyncUp 触发一次上传同步。
func (a *API) SyncUp(c *gin.Context) {
	if err := a.sync.SyncUp(c.Request.Context()); err != nil {
		a.respondSyncError(c, err)
		return
	}
	a.respondSyncStatus(c)
}

// SyncDown 触发一次下载同步。
func (a *API) SyncDown(c *gin.Context) {
	if err := a.sync.SyncDown(c.Request.Context()); err != nil {
		a.respondSyncError(c, err)
		return
	}
	a.respondSyncStatus(c)
}

// GetSyncStatus 返回同步状态机的当前状态。
func (a *API) GetSyncStatus(c *gin.Context) {
	a.respondSyncStatus(c)
}

// DismissSyncError 清除错误状态。
func (a *API) DismissSyncError(c *gin.Context) {
	a.sync.Dismiss()
	a.respondSyncStatus(c)
}

func (a *API) respondSyncStatus(c *gin.Context) {
	status, message := a.sync.Status()
	c.JSON(http.StatusOK, gin.H{"status": status, "error": message})
}

// respondSyncError 把同步失败映射为 HTTP 状态码，
// 状态机里的错误信息同样随响应返回，供前端展示。
func (a *API) respondSyncError(c *gin.Context, err error) {
	var apiErr *service.GistAPIError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSyncInProgress):
		status = http.StatusConflict
	case errors.Is(err, service.ErrSyncTokenMissing),
		errors.Is(err, service.ErrGistNotConfigured):
		status = http.StatusBadRequest
	case errors.As(err, &apiErr), errors.Is(err, service.ErrGistFileMissing):
		status = http.StatusBadGateway
	}

	syncStatus, message := a.sync.Status()
	if message == "" {
		message = err.Error()
	}
	c.JSON(status, gin.H{"status": syncStatus, "error": message})
}
