package main

import (
	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/config"
	"github.com/weightlog/internal/db"
	"github.com/weightlog/internal/router"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 配置了管理账号时确保其存在
	if err := db.EnsureUser(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}
	if !cfg.AuthEnabled() {
		log.Warn("no admin credentials configured, API runs in open local mode")
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg.SessionSecret, cfg.AuthEnabled())
	log.Infof("weightlog listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
