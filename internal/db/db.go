package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 weightlog.db。
// 本地库文件损坏无法打开时会先把旧文件改名保留，再重建一个空库，
// 保证进程总能以空记录/默认设置启动。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "weightlog.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	gdb, err := open(path)
	if err != nil {
		if quarantineErr := quarantine(path); quarantineErr != nil {
			return err
		}
		gdb, err = open(path)
		if err != nil {
			return err
		}
	}

	DB = gdb
	return nil
}

func open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// 自动迁移模式，为核心模型创建表
	if err := gdb.AutoMigrate(
		&User{},
		&WeightRecord{},
		&UserSetting{},
	); err != nil {
		return nil, err
	}

	return gdb, nil
}

// quarantine 把无法读取的库文件改名保留，不直接删除用户数据。
func quarantine(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	backup := fmt.Sprintf("%s.corrupt-%s", path, time.Now().Format("20060102150405"))
	return os.Rename(path, backup)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
