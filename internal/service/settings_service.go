package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/weightlog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 外观模式取值
const (
	DarkModeSystem = "system"
	DarkModeLight  = "light"
	DarkModeDark   = "dark"
)

var (
	// ErrInvalidDarkMode 在外观模式不是 system/light/dark 时返回
	ErrInvalidDarkMode = errors.New("invalid dark mode value")
	// ErrInvalidSettingValue 在身高或目标体重为负数时返回
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

// UserSettings 汇总用户的全部设置，height/goalWeight 为 0 表示未设置，
// gistToken 为同步凭据，导出到远端前必须剥离。
type UserSettings struct {
	Height     float64 `json:"height"`
	GoalWeight float64 `json:"goalWeight"`
	DarkMode   string  `json:"darkMode"`
	GistToken  string  `json:"gistToken"`
	GistID     string  `json:"gistId"`
	LastSyncAt string  `json:"lastSyncAt"`
}

// SettingsPatch 描述一次部分更新，nil 字段保持原值。
type SettingsPatch struct {
	Height     *float64 `json:"height"`
	GoalWeight *float64 `json:"goalWeight"`
	DarkMode   *string  `json:"darkMode"`
	GistToken  *string  `json:"gistToken"`
	GistID     *string  `json:"gistId"`
	LastSyncAt *string  `json:"lastSyncAt"`
}

// DefaultSettings 返回默认设置。
func DefaultSettings() UserSettings {
	return UserSettings{DarkMode: DarkModeSystem}
}

// SettingsService 提供用户设置的读取与合并更新能力。
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService 构造 SettingsService
func NewSettingsService(gdb *gorm.DB) *SettingsService {
	return &SettingsService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeyHeight,
	db.SettingKeyGoalWeight,
	db.SettingKeyDarkMode,
	db.SettingKeyGistToken,
	db.SettingKeyGistID,
	db.SettingKeyLastSyncAt,
}

// Get 读取用户设置，缺失或无法解析的键回退默认值。
func (s *SettingsService) Get() (UserSettings, error) {
	result := DefaultSettings()

	var rows []db.UserSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&rows).Error; err != nil {
		return result, fmt.Errorf("load user settings: %w", err)
	}

	for _, row := range rows {
		switch row.Key {
		case db.SettingKeyHeight:
			if v, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64); err == nil && v >= 0 {
				result.Height = v
			}
		case db.SettingKeyGoalWeight:
			if v, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64); err == nil && v >= 0 {
				result.GoalWeight = v
			}
		case db.SettingKeyDarkMode:
			if mode := normalizeDarkMode(row.Value); mode != "" {
				result.DarkMode = mode
			}
		case db.SettingKeyGistToken:
			result.GistToken = row.Value
		case db.SettingKeyGistID:
			result.GistID = row.Value
		case db.SettingKeyLastSyncAt:
			result.LastSyncAt = row.Value
		}
	}

	return result, nil
}

// Update 把补丁逐字段合并进当前设置并持久化，返回合并后的完整设置。
func (s *SettingsService) Update(patch SettingsPatch) (UserSettings, error) {
	values := map[string]string{}

	if patch.Height != nil {
		if *patch.Height < 0 {
			return UserSettings{}, ErrInvalidSettingValue
		}
		values[db.SettingKeyHeight] = strconv.FormatFloat(*patch.Height, 'f', -1, 64)
	}
	if patch.GoalWeight != nil {
		if *patch.GoalWeight < 0 {
			return UserSettings{}, ErrInvalidSettingValue
		}
		values[db.SettingKeyGoalWeight] = strconv.FormatFloat(*patch.GoalWeight, 'f', -1, 64)
	}
	if patch.DarkMode != nil {
		mode := normalizeDarkMode(*patch.DarkMode)
		if mode == "" {
			return UserSettings{}, ErrInvalidDarkMode
		}
		values[db.SettingKeyDarkMode] = mode
	}
	if patch.GistToken != nil {
		values[db.SettingKeyGistToken] = strings.TrimSpace(*patch.GistToken)
	}
	if patch.GistID != nil {
		values[db.SettingKeyGistID] = strings.TrimSpace(*patch.GistID)
	}
	if patch.LastSyncAt != nil {
		values[db.SettingKeyLastSyncAt] = strings.TrimSpace(*patch.LastSyncAt)
	}

	if len(values) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			for key, value := range values {
				if err := upsertSetting(tx, key, value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return UserSettings{}, fmt.Errorf("update user settings: %w", err)
		}
	}

	return s.Get()
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.UserSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func normalizeDarkMode(mode string) string {
	trimmed := strings.ToLower(strings.TrimSpace(mode))
	switch trimmed {
	case DarkModeSystem, DarkModeLight, DarkModeDark:
		return trimmed
	}
	return ""
}
