package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weightlog/internal/db"
)

const (
	gistFileName       = "weight-tracker-data.json"
	gistDescription    = "体重记录 - Weight Tracker Data"
	defaultGistBaseURL = "https://api.github.com/gists"
)

var (
	// ErrGistNotConfigured 在尚无远端文档（gistId 为空）时下载返回
	ErrGistNotConfigured = errors.New("尚未同步过，请先上传数据")
	// ErrGistFileMissing 在远端文档中找不到数据文件或内容为空时返回
	ErrGistFileMissing = errors.New("Gist 中未找到体重数据文件")
)

// GistAPIError 表示 GitHub API 返回的非成功响应。
type GistAPIError struct {
	StatusCode int
	Message    string
}

func (e *GistAPIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("GitHub API 错误 (%d)", e.StatusCode)
}

// RemoteSettings 是同步到远端的设置投影，
// 不包含 gistToken/gistId/lastSyncAt，远端文档永远不携带凭据与同步书签。
type RemoteSettings struct {
	Height     float64 `json:"height"`
	GoalWeight float64 `json:"goalWeight"`
	DarkMode   string  `json:"darkMode"`
}

// StripSyncFields 把完整设置投影成可上传的远端形态。
func StripSyncFields(settings UserSettings) RemoteSettings {
	return RemoteSettings{
		Height:     settings.Height,
		GoalWeight: settings.GoalWeight,
		DarkMode:   settings.DarkMode,
	}
}

// GistData 是从远端文档解析出的数据信封。
// Settings 按完整结构解码：即便远端意外携带凭据字段，
// 合并逻辑也要显式保留本地凭据，不依赖字段缺失。
type GistData struct {
	Records  []db.WeightRecord `json:"records"`
	Settings UserSettings      `json:"settings"`
}

type gistUploadPayload struct {
	Records  []db.WeightRecord `json:"records"`
	Settings RemoteSettings    `json:"settings"`
}

type gistFile struct {
	Content string `json:"content"`
}

type gistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	ID    string              `json:"id"`
	Files map[string]gistFile `json:"files"`
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GistClient 把本地状态与 GitHub Gist 上的单文档互相转换，
// 不关心同步策略，只负责请求/响应契约。
type GistClient struct {
	httpClient httpDoer
	baseURL    string
}

// NewGistClient 构造 GistClient。
func NewGistClient() *GistClient {
	return &GistClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultGistBaseURL,
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，主要面向测试场景。
func (c *GistClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
		return
	}
	c.httpClient = client
}

// SetBaseURL 覆盖 Gist API 的基础地址，便于测试或自定义代理。
func (c *GistClient) SetBaseURL(base string) {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		trimmed = defaultGistBaseURL
	}
	c.baseURL = trimmed
}

// Upload 上传当前状态：gistID 为空时创建新文档并返回其 ID，
// 否则原地更新该文档并返回同一 ID。凭据在序列化前剥离。
func (c *GistClient) Upload(ctx context.Context, token, gistID string, records []db.WeightRecord, settings UserSettings) (string, error) {
	payload := gistUploadPayload{
		Records:  records,
		Settings: StripSyncFields(settings),
	}
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal gist payload: %w", err)
	}

	body, err := json.Marshal(gistRequest{
		Description: gistDescription,
		Public:      false,
		Files: map[string]gistFile{
			gistFileName: {Content: string(content)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gist request: %w", err)
	}

	method := http.MethodPost
	url := c.baseURL
	if gistID != "" {
		method = http.MethodPatch
		url = c.baseURL + "/" + gistID
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build gist request: %w", err)
	}
	setGistHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求 GitHub 接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", apiError(resp)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return "", fmt.Errorf("decode gist response: %w", err)
	}
	if gist.ID == "" {
		return "", errors.New("gist response missing id")
	}
	return gist.ID, nil
}

// Download 拉取远端文档并解析数据文件为信封结构。
func (c *GistClient) Download(ctx context.Context, token, gistID string) (GistData, error) {
	if gistID == "" {
		return GistData{}, ErrGistNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+gistID, nil)
	if err != nil {
		return GistData{}, fmt.Errorf("build gist request: %w", err)
	}
	setGistHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return GistData{}, fmt.Errorf("请求 GitHub 接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return GistData{}, apiError(resp)
	}

	var gist gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&gist); err != nil {
		return GistData{}, fmt.Errorf("decode gist response: %w", err)
	}

	file, ok := gist.Files[gistFileName]
	if !ok || strings.TrimSpace(file.Content) == "" {
		return GistData{}, ErrGistFileMissing
	}

	var data GistData
	if err := json.Unmarshal([]byte(file.Content), &data); err != nil {
		return GistData{}, fmt.Errorf("%w: %v", ErrGistFileMissing, err)
	}
	return data, nil
}

func setGistHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")
}

// apiError 把非成功响应转成 GistAPIError，尽量携带远端给出的 message。
func apiError(resp *http.Response) error {
	apiErr := &GistAPIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = strings.TrimSpace(payload.Message)
	}
	return apiErr
}
