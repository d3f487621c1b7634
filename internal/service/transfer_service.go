package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/weightlog/internal/db"
)

// ErrMalformedImport 在导入文件不是合法 JSON 或形状不符时返回，
// 此时本地数据保持原样。
var ErrMalformedImport = errors.New("导入失败：文件格式不正确")

// Snapshot 是导出文件的信封：完整设置（含凭据）加全部记录。
// 导出仅用于本地备份，与远端负载不同，不剥离密钥。
type Snapshot struct {
	Records  []db.WeightRecord `json:"records"`
	Settings UserSettings      `json:"settings"`
}

// TransferService 负责本地备份文件的导出与导入。
type TransferService struct {
	records  *RecordService
	settings *SettingsService
}

// NewTransferService 构造 TransferService
func NewTransferService(records *RecordService, settings *SettingsService) *TransferService {
	return &TransferService{records: records, settings: settings}
}

// Export 生成当前记录与设置的快照。
func (s *TransferService) Export() (Snapshot, error) {
	records, err := s.records.List()
	if err != nil {
		return Snapshot{}, err
	}
	settings, err := s.settings.Get()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Records: records, Settings: settings}, nil
}

// ExportFileName 返回内嵌导出日期的文件名。
func ExportFileName(today string) string {
	return fmt.Sprintf("weight-data-%s.json", today)
}

// Import 解析导入文件并应用：records 必须是数组才会整体替换，
// settings 存在时按字段合并。任何解析或形状错误都在改动本地状态之前返回。
func (s *TransferService) Import(raw []byte) error {
	var envelope struct {
		Records  json.RawMessage `json:"records"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ErrMalformedImport
	}

	var records []db.WeightRecord
	replaceRecords := false
	if len(envelope.Records) > 0 && !bytes.Equal(envelope.Records, []byte("null")) {
		if err := json.Unmarshal(envelope.Records, &records); err != nil {
			return ErrMalformedImport
		}
		replaceRecords = true
	}

	var patch SettingsPatch
	applySettings := false
	if len(envelope.Settings) > 0 && !bytes.Equal(envelope.Settings, []byte("null")) {
		if err := json.Unmarshal(envelope.Settings, &patch); err != nil {
			return ErrMalformedImport
		}
		if err := validatePatch(patch); err != nil {
			return ErrMalformedImport
		}
		applySettings = true
	}

	// 校验全部通过后才开始改动本地状态
	if replaceRecords {
		if err := s.records.ReplaceAll(records); err != nil {
			return err
		}
	}
	if applySettings {
		if _, err := s.settings.Update(patch); err != nil {
			return err
		}
	}
	return nil
}

func validatePatch(patch SettingsPatch) error {
	if patch.Height != nil && *patch.Height < 0 {
		return ErrInvalidSettingValue
	}
	if patch.GoalWeight != nil && *patch.GoalWeight < 0 {
		return ErrInvalidSettingValue
	}
	if patch.DarkMode != nil && normalizeDarkMode(*patch.DarkMode) == "" {
		return ErrInvalidDarkMode
	}
	return nil
}
