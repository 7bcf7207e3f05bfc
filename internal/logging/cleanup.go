package logging

import (
	"log/slog"
	"time"

	"github.com/societyhub/backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs and published
// outbox rows older than retentionDays.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				Cleanup(db, time.Now().AddDate(0, 0, -retentionDays))
			case <-done:
				return
			}
		}
	}()
}

// Cleanup deletes rows older than cutoff.
func Cleanup(db *gorm.DB, cutoff time.Time) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error, "component", "cleanup")
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}

	result = db.Where("status = ? AND published_at < ?", models.OutboxPublished, cutoff).Delete(&models.OutboxEvent{})
	if result.Error != nil {
		slog.Error("outbox cleanup failed", "error", result.Error, "component", "cleanup")
	} else if result.RowsAffected > 0 {
		slog.Info("outbox cleanup completed", "deleted", result.RowsAffected)
	}
}
