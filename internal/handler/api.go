package handler

import (
	"github.com/weightlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	records  *service.RecordService
	settings *service.SettingsService
	sync     *service.SyncService
	transfer *service.TransferService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	recordService := service.NewRecordService(gdb)
	settingsService := service.NewSettingsService(gdb)
	gistClient := service.NewGistClient()

	return &API{
		db:       gdb,
		records:  recordService,
		settings: settingsService,
		sync:     service.NewSyncService(recordService, settingsService, gistClient),
		transfer: service.NewTransferService(recordService, settingsService),
	}
}

// Sync exposes the sync orchestrator, mainly for tests that need to tune it.
func (a *API) Sync() *service.SyncService {
	return a.sync
}
