// Package events records domain events in a transactional outbox and relays
// them to a broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/societyhub/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event topics.
const (
	TopicNoticeApproved         = "notice.approved"
	TopicVoteRecorded           = "poll.vote_recorded"
	TopicComplaintStatusChanged = "complaint.status_changed"
)

const defaultMaxAttempts = 10

// Enqueue writes an event using tx so it commits or rolls back with the
// change it describes.
func Enqueue(tx *gorm.DB, topic, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}
	ev := models.OutboxEvent{
		Topic:   topic,
		Key:     key,
		Payload: datatypes.JSON(raw),
		Status:  models.OutboxPending,
	}
	if err := tx.Create(&ev).Error; err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", topic, err)
	}
	return nil
}

// Relay moves pending outbox rows to a Publisher.
type Relay struct {
	db          *gorm.DB
	publisher   Publisher
	interval    time.Duration
	batch       int
	maxAttempts int
}

func NewRelay(db *gorm.DB, publisher Publisher, interval time.Duration, batch int) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Relay{
		db:          db,
		publisher:   publisher,
		interval:    interval,
		batch:       batch,
		maxAttempts: defaultMaxAttempts,
	}
}

// Run relays on every tick until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n, err := r.RelayOnce(ctx); err != nil {
				slog.Error("outbox relay failed", "error", err, "component", "outbox")
			} else if n > 0 {
				slog.Info("outbox relayed", "count", n, "component", "outbox")
			}
		case <-ctx.Done():
			return
		}
	}
}

// RelayOnce publishes one batch of pending events. Rows are locked with SKIP
// LOCKED so several relays can run side by side.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending []models.OutboxEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", models.OutboxPending).
			Order("created_at").
			Limit(r.batch).
			Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		if err := r.publisher.Publish(ctx, pending); err != nil {
			for i := range pending {
				ev := &pending[i]
				ev.Attempts++
				status := models.OutboxPending
				if ev.Attempts >= r.maxAttempts {
					status = models.OutboxFailed
				}
				if uerr := tx.Model(ev).Updates(map[string]interface{}{
					"attempts":   ev.Attempts,
					"status":     status,
					"last_error": err.Error(),
				}).Error; uerr != nil {
					return uerr
				}
			}
			slog.Warn("outbox publish failed", "error", err, "count", len(pending), "component", "outbox")
			return nil
		}

		ids := make([]interface{}, len(pending))
		for i, ev := range pending {
			ids[i] = ev.ID
		}
		now := time.Now()
		if err := tx.Model(&models.OutboxEvent{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{"status": models.OutboxPublished, "published_at": now}).Error; err != nil {
			return err
		}
		published = len(pending)
		return nil
	})
	return published, err
}
