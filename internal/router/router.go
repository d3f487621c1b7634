package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/db"
	"github.com/weightlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由。
// authEnabled 为 true 时 /api 分组要求登录会话，
// 否则按本地单用户模式放开（未配置管理账号时的默认形态）。
func SetupRouter(sessionSecret string, authEnabled bool) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("weightlog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)

	a := handler.NewAPI(db.DB)

	api := r.Group("/api")
	if authEnabled {
		api.Use(handler.AuthRequired())
	}
	{
		api.GET("/records", a.ListRecords)
		api.POST("/records", a.UpsertRecord)
		api.DELETE("/records/:id", a.DeleteRecord)

		api.GET("/stats", a.GetStats)
		api.GET("/chart", a.GetChart)

		api.GET("/settings", a.GetSettings)
		api.PUT("/settings", a.UpdateSettings)

		api.POST("/sync/up", a.SyncUp)
		api.POST("/sync/down", a.SyncDown)
		api.GET("/sync/status", a.GetSyncStatus)
		api.POST("/sync/dismiss", a.DismissSyncError)

		api.GET("/export", a.ExportData)
		api.POST("/import", a.ImportData)
	}

	return r
}
