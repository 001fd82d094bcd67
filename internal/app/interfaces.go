package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/jobdesk/config"
	"github.com/talkincode/jobdesk/internal/importer"
	"github.com/talkincode/jobdesk/internal/metrics"
	"github.com/talkincode/jobdesk/internal/storage"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StorageProvider provides the customer and job store
type StorageProvider interface {
	Storage() storage.Storage
}

// ImporterProvider provides the spreadsheet importer
type ImporterProvider interface {
	Importer() *importer.Importer
}

// MetricsProvider provides the Prometheus collectors
type MetricsProvider interface {
	Metrics() *metrics.Metrics
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	StorageProvider
	ImporterProvider
	MetricsProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// SweepOverdue marks past Scheduled jobs as Overdue and returns how many changed
	SweepOverdue(ctx context.Context) (int, error)
}
