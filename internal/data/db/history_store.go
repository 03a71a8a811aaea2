package db

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Zeuyel/MathImage/internal/constant"
)

// Operation names recorded in probe history
const (
	OpConnectionTest = "connection_test"
	OpListModels     = "list_models"
)

// ProbeRecord is the GORM model for one diagnostic outcome, kept so the
// shell can show past connection tests and model fetches
type ProbeRecord struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	Operation   string    `gorm:"column:operation;not null;index" json:"operation"`
	BaseURL     string    `gorm:"column:base_url;not null" json:"base_url"`
	Success     bool      `gorm:"column:success" json:"success"`
	StatusCode  int       `gorm:"column:status_code" json:"status_code,omitempty"`
	ErrorKind   string    `gorm:"column:error_kind" json:"error_kind,omitempty"`
	Message     string    `gorm:"column:message" json:"message"`
	LatencyMs   int64     `gorm:"column:latency_ms" json:"latency_ms"`
	ModelsCount int       `gorm:"column:models_count" json:"models_count,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (ProbeRecord) TableName() string {
	return "probe_history"
}

// HistoryStore persists probe records to SQLite
type HistoryStore struct {
	db     *gorm.DB
	dbPath string
	mu     sync.Mutex
}

// NewHistoryStore creates or opens the history store under baseDir
func NewHistoryStore(baseDir string) (*HistoryStore, error) {
	logrus.Debugf("Initializing history store in directory: %s", baseDir)
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history store directory: %w", err)
	}

	dbPath := constant.GetDBFile(baseDir)
	dsn := dbPath + "?_busy_timeout=5000&_journal_mode=WAL"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &HistoryStore{
		db:     gdb,
		dbPath: dbPath,
	}

	if err := gdb.AutoMigrate(&ProbeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	return store, nil
}

// Record appends one probe outcome
func (hs *HistoryStore) Record(record *ProbeRecord) error {
	if record == nil {
		return errors.New("record cannot be nil")
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()

	if err := hs.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create probe record: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first
func (hs *HistoryStore) Recent(limit int) ([]ProbeRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	hs.mu.Lock()
	defer hs.mu.Unlock()

	var records []ProbeRecord
	if err := hs.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list probe history: %w", err)
	}
	return records, nil
}

// Count returns the total number of records
func (hs *HistoryStore) Count() (int64, error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	var count int64
	if err := hs.db.Model(&ProbeRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count probe history: %w", err)
	}
	return count, nil
}

// Prune deletes records older than the retention window
func (hs *HistoryStore) Prune(olderThan time.Duration) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	result := hs.db.Where("created_at < ?", cutoff).Delete(&ProbeRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune probe history: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logrus.Debugf("Pruned %d probe history records", result.RowsAffected)
	}
	return nil
}

// Close closes the database connection
func (hs *HistoryStore) Close() error {
	sqlDB, err := hs.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
