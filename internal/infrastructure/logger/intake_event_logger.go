package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// WebhookProcessedEvent is one audit row per handled webhook delivery.
type WebhookProcessedEvent struct {
	ID           uint `gorm:"primaryKey"`
	RequestID    string
	OrderID      string
	Outcome      string
	Reason       string
	OwedQuantity int
	IssuedCount  int
	TotalCount   int
	Recipient    string
	Timestamp    time.Time
}

type IntakeEventLogger interface {
	LogWebhookProcessed(ctx context.Context, event WebhookProcessedEvent) error
}

type PGIntakeEventLogger struct {
	db *gorm.DB
}

func NewPGIntakeEventLogger(db *gorm.DB) *PGIntakeEventLogger {
	return &PGIntakeEventLogger{db: db}
}

func (l *PGIntakeEventLogger) LogWebhookProcessed(ctx context.Context, event WebhookProcessedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
