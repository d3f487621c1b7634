package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// todayString 返回服务器本地时区的当天日期。
func todayString() string {
	return time.Now().Format(service.DateFormat)
}
