package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/weightlog/internal/service"
)

func performImport(t *testing.T, api *API, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "weight-data-2024-01-08.json")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.ImportData(c)
	return w
}

func TestExportDataAttachment(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := performJSON(t, api.UpsertRecord, http.MethodPost, "/api/records",
		map[string]any{"date": "2024-01-08", "weight": 78.5}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to seed record: %d", w.Code)
	}

	w = performJSON(t, api.ExportData, http.MethodGet, "/api/export", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, "weight-data-") {
		t.Fatalf("unexpected content disposition: %s", disposition)
	}

	var snapshot service.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("failed to parse export body: %v", err)
	}
	if len(snapshot.Records) != 1 || snapshot.Records[0].Date != "2024-01-08" {
		t.Fatalf("unexpected export payload: %+v", snapshot.Records)
	}
}

func TestImportDataRoundTrip(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	content := `{"records":[{"id":"r1","date":"2024-01-08","weight":78.5}],"settings":{"height":175}}`
	w := performImport(t, api, content)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = performJSON(t, api.ListRecords, http.MethodGet, "/api/records", nil, nil)
	var listed struct {
		Records []struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(listed.Records) != 1 || listed.Records[0].ID != "r1" {
		t.Fatalf("unexpected records after import: %+v", listed.Records)
	}
}

func TestImportDataMalformed(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := performJSON(t, api.UpsertRecord, http.MethodPost, "/api/records",
		map[string]any{"date": "2024-01-01", "weight": 80}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("failed to seed record: %d", w.Code)
	}

	w = performImport(t, api, "{broken")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	// 导入失败不得改动本地数据
	w = performJSON(t, api.ListRecords, http.MethodGet, "/api/records", nil, nil)
	var listed struct {
		Records []struct {
			Date string `json:"date"`
		} `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(listed.Records) != 1 || listed.Records[0].Date != "2024-01-01" {
		t.Fatalf("local state modified by rejected import: %+v", listed.Records)
	}
}

func TestImportDataMissingFile(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/api/import", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.ImportData(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
