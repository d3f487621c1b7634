package db

import "gorm.io/gorm"

// UserSetting 存储用户偏好与同步凭据的键值对。
// 缺失的键在读取时回退到默认值，写入按字段逐个合并。
type UserSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (UserSetting) TableName() string {
	return "user_settings"
}

const (
	// SettingKeyHeight 表示身高（厘米），0 表示未设置。
	SettingKeyHeight = "height"
	// SettingKeyGoalWeight 表示目标体重（公斤），0 表示未设置。
	SettingKeyGoalWeight = "goal_weight"
	// SettingKeyDarkMode 表示外观模式 system/light/dark。
	SettingKeyDarkMode = "dark_mode"
	// SettingKeyGistToken 表示 GitHub Gist 访问令牌，视为密钥。
	SettingKeyGistToken = "gist_token"
	// SettingKeyGistID 表示远端 Gist 文档的标识符。
	SettingKeyGistID = "gist_id"
	// SettingKeyLastSyncAt 表示最近一次成功同步的时间戳。
	SettingKeyLastSyncAt = "last_sync_at"
)
