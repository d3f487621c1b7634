package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/weightlog/internal/service"
)

func TestGetSyncStatusInitiallyIdle(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := performJSON(t, api.GetSyncStatus, http.MethodGet, "/api/sync/status", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var payload struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Status != "idle" || payload.Error != "" {
		t.Fatalf("unexpected initial status: %+v", payload)
	}
}

func TestSyncUpWithoutTokenReturnsError(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := performJSON(t, api.SyncUp, http.MethodPost, "/api/sync/up", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Status != "error" {
		t.Fatalf("expected error status, got %s", payload.Status)
	}
	if payload.Error == "" {
		t.Fatal("expected error message in response")
	}

	// 错误状态保持，直到被主动清除
	w = performJSON(t, api.GetSyncStatus, http.MethodGet, "/api/sync/status", nil, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Status != "error" {
		t.Fatalf("expected error status retained, got %s", payload.Status)
	}

	w = performJSON(t, api.DismissSyncError, http.MethodPost, "/api/sync/dismiss", nil, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if payload.Status != "idle" {
		t.Fatalf("expected idle after dismiss, got %s", payload.Status)
	}
}

func TestSyncDownWithoutGistIDReturnsError(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	token := "tok"
	if _, err := api.settings.Update(service.SettingsPatch{GistToken: &token}); err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}

	w := performJSON(t, api.SyncDown, http.MethodPost, "/api/sync/down", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}
