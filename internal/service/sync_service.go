package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// SyncStatus 表示同步状态机的当前状态
type SyncStatus string

const (
	SyncStatusIdle        SyncStatus = "idle"
	SyncStatusUploading   SyncStatus = "uploading"
	SyncStatusDownloading SyncStatus = "downloading"
	SyncStatusSuccess     SyncStatus = "success"
	SyncStatusError       SyncStatus = "error"
)

var (
	// ErrSyncTokenMissing 在未配置 GitHub Token 时返回，不发起网络请求
	ErrSyncTokenMissing = errors.New("请先填写 GitHub Token")
	// ErrSyncInProgress 在已有同步进行中时返回，并发的同步请求被拒绝而非排队
	ErrSyncInProgress = errors.New("同步进行中，请稍候")
)

// defaultSuccessHold 是 success 状态自动回到 idle 前的停留时长。
const defaultSuccessHold = 2 * time.Second

// SyncService 协调本地存储与 Gist 客户端：
// idle → uploading|downloading → success（短暂停留后自动回 idle）
// 或 → error（保持到下一次同步或用户主动清除）。
type SyncService struct {
	records  *RecordService
	settings *SettingsService
	gist     *GistClient

	mu          sync.Mutex
	status      SyncStatus
	lastError   string
	successHold time.Duration
	resetSeq    int
}

// NewSyncService 构造 SyncService，初始状态 idle。
func NewSyncService(records *RecordService, settings *SettingsService, gist *GistClient) *SyncService {
	return &SyncService{
		records:     records,
		settings:    settings,
		gist:        gist,
		status:      SyncStatusIdle,
		successHold: defaultSuccessHold,
	}
}

// SetSuccessHold 覆盖 success 状态的停留时长，主要面向测试场景。
func (s *SyncService) SetSuccessHold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.successHold = d
	}
}

// Status 返回当前状态与最近一次失败的描述。
func (s *SyncService) Status() (SyncStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastError
}

// Dismiss 清除 error 状态，回到 idle。其他状态不受影响。
func (s *SyncService) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == SyncStatusError {
		s.status = SyncStatusIdle
		s.lastError = ""
	}
}

// SyncUp 把当前记录与设置上传到远端文档。
// 首次上传创建文档并记住返回的 gistId，之后原地更新同一文档。
func (s *SyncService) SyncUp(ctx context.Context) error {
	settings, err := s.settings.Get()
	precheck := err
	if precheck == nil && strings.TrimSpace(settings.GistToken) == "" {
		precheck = ErrSyncTokenMissing
	}
	if err := s.begin(SyncStatusUploading, precheck); err != nil {
		return err
	}

	records, err := s.records.List()
	if err != nil {
		return s.fail(err)
	}

	gistID, err := s.gist.Upload(ctx, settings.GistToken, settings.GistID, records, settings)
	if err != nil {
		return s.fail(err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.settings.Update(SettingsPatch{GistID: &gistID, LastSyncAt: &now}); err != nil {
		return s.fail(err)
	}

	log.Infof("sync up finished, gist id %s, %d records", gistID, len(records))
	s.succeed()
	return nil
}

// SyncDown 用远端文档整体替换本地记录，并合并远端设置。
// 本地 gistToken 与 gistId 始终保持不变，远端负载无权覆盖本地凭据。
func (s *SyncService) SyncDown(ctx context.Context) error {
	settings, err := s.settings.Get()
	precheck := err
	if precheck == nil && strings.TrimSpace(settings.GistToken) == "" {
		precheck = ErrSyncTokenMissing
	}
	if precheck == nil && settings.GistID == "" {
		precheck = ErrGistNotConfigured
	}
	if err := s.begin(SyncStatusDownloading, precheck); err != nil {
		return err
	}

	data, err := s.gist.Download(ctx, settings.GistToken, settings.GistID)
	if err != nil {
		return s.fail(err)
	}

	// 补丁在替换记录之前构造：远端的非法数值与非法 darkMode 一样被忽略，
	// 确保后续的设置合并不会因校验失败而留下半途状态
	now := time.Now().UTC().Format(time.RFC3339)
	patch := SettingsPatch{LastSyncAt: &now}
	if data.Settings.Height >= 0 {
		patch.Height = &data.Settings.Height
	}
	if data.Settings.GoalWeight >= 0 {
		patch.GoalWeight = &data.Settings.GoalWeight
	}
	if mode := normalizeDarkMode(data.Settings.DarkMode); mode != "" {
		patch.DarkMode = &mode
	}

	if err := s.records.ReplaceAll(data.Records); err != nil {
		return s.fail(err)
	}
	if _, err := s.settings.Update(patch); err != nil {
		return s.fail(err)
	}

	log.Infof("sync down finished, %d records replaced", len(data.Records))
	s.succeed()
	return nil
}

// begin 进入 uploading/downloading 状态；已有同步进行中时拒绝。
// precheck 带错误时直接落入 error 状态，不经过进行中状态。
func (s *SyncService) begin(next SyncStatus, precheck error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == SyncStatusUploading || s.status == SyncStatusDownloading {
		return ErrSyncInProgress
	}
	s.resetSeq++
	if precheck != nil {
		s.status = SyncStatusError
		s.lastError = precheck.Error()
		log.Warnf("sync failed: %v", precheck)
		return precheck
	}
	s.status = next
	s.lastError = ""
	return nil
}

func (s *SyncService) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = SyncStatusError
	s.lastError = err.Error()
	log.Warnf("sync failed: %v", err)
	return err
}

// succeed 进入 success 状态，停留 successHold 后自动回到 idle。
// 期间若有新的同步开始，过期的定时器不再生效。
func (s *SyncService) succeed() {
	s.mu.Lock()
	s.status = SyncStatusSuccess
	s.lastError = ""
	seq := s.resetSeq
	hold := s.successHold
	s.mu.Unlock()

	time.AfterFunc(hold, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.status == SyncStatusSuccess && s.resetSeq == seq {
			s.status = SyncStatusIdle
		}
	})
}
