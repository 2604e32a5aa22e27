package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/showroomlab/showroom-token-service/internal/domain"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/kafka"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/logger"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/metrics"
	intakedto "github.com/showroomlab/showroom-token-service/internal/usecase/dto/intake"
)

type IntakeUsecase interface {
	ProcessOrder(ctx context.Context, payload intakedto.OrderPayload) (*intakedto.Result, error)
}

type DefaultIntakeUsecase struct {
	TokenRepo       domain.TokenRepository
	Mailer          domain.Mailer
	Publisher       *kafka.KafkaPublisher
	EventLogger     logger.IntakeEventLogger
	Metrics         *metrics.IntakeMetrics
	TargetProductID string
	EventTopic      string
}

func NewDefaultIntakeUsecase(
	tokenRepo domain.TokenRepository,
	mailer domain.Mailer,
	publisher *kafka.KafkaPublisher,
	eventLogger logger.IntakeEventLogger,
	m *metrics.IntakeMetrics,
	targetProductID, eventTopic string,
) *DefaultIntakeUsecase {
	return &DefaultIntakeUsecase{
		TokenRepo:       tokenRepo,
		Mailer:          mailer,
		Publisher:       publisher,
		EventLogger:     eventLogger,
		Metrics:         m,
		TargetProductID: targetProductID,
		EventTopic:      eventTopic,
	}
}

// ProcessOrder runs one webhook delivery end to end: normalize, classify,
// reconcile the ledger, then notify. The mail is sent strictly after the
// ledger transaction commits.
func (uc *DefaultIntakeUsecase) ProcessOrder(ctx context.Context, payload intakedto.OrderPayload) (*intakedto.Result, error) {
	order, err := NormalizeOrder(payload)
	if err != nil {
		return nil, err
	}

	c := Classify(order, uc.TargetProductID)
	if !c.Eligible {
		uc.countOutcome(string(intakedto.StatusIgnored))
		uc.audit(ctx, logger.WebhookProcessedEvent{
			OrderID: order.OrderID,
			Outcome: string(intakedto.StatusIgnored),
			Reason:  c.Reason,
		})
		return &intakedto.Result{Status: intakedto.StatusIgnored, Reason: c.Reason}, nil
	}
	if order.Recipient == "" {
		return nil, domain.NewValidationError(domain.CodeNoRecipient)
	}

	start := time.Now()
	res, err := uc.TokenRepo.Reconcile(ctx, order, c.Owed)
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
		uc.Metrics.TokensIssuedTotal.Add(float64(len(res.Created)))
	}

	status := intakedto.StatusAlreadyProcessed
	if len(res.Created) > 0 {
		status = intakedto.StatusStored
	}
	uc.countOutcome(string(status))
	uc.audit(ctx, logger.WebhookProcessedEvent{
		OrderID:      order.OrderID,
		Outcome:      string(status),
		OwedQuantity: c.Owed,
		IssuedCount:  len(res.Created),
		TotalCount:   len(res.Tokens),
		Recipient:    order.Recipient,
	})

	// Ledger committed; nothing past this point may mint tokens.
	uc.publishIssued(order, res)

	if err := uc.Mailer.SendTokens(ctx, order.Recipient, res.Tokens); err != nil {
		if uc.Metrics != nil {
			uc.Metrics.MailFailedTotal.Inc()
		}
		slog.Error("token mail failed", "order_id", order.OrderID, "error", err)
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.MailSentTotal.Inc()
	}

	return &intakedto.Result{Status: status, Tokens: res.Tokens, Created: res.Created}, nil
}

func (uc *DefaultIntakeUsecase) publishIssued(order *domain.NormalizedOrder, res *domain.ReconcileResult) {
	if uc.Publisher == nil || len(res.Created) == 0 {
		return
	}
	event := kafka.TokenIssuedEvent{
		OrderID:      order.OrderID,
		Recipient:    order.Recipient,
		CreatedCount: len(res.Created),
		TotalCount:   len(res.Tokens),
		Test:         order.Test,
	}
	if order.OrderNumber != nil {
		event.OrderNumber = *order.OrderNumber
	}
	if err := uc.Publisher.PublishTokenIssued(uc.EventTopic, event); err != nil {
		slog.Error("token event publish failed", "order_id", order.OrderID, "error", err)
	}
}

func (uc *DefaultIntakeUsecase) audit(ctx context.Context, event logger.WebhookProcessedEvent) {
	if uc.EventLogger == nil {
		return
	}
	event.RequestID = logger.RequestID(ctx)
	event.Timestamp = time.Now()
	if err := uc.EventLogger.LogWebhookProcessed(ctx, event); err != nil {
		slog.Error("audit log write failed", "order_id", event.OrderID, "error", err)
	}
}

func (uc *DefaultIntakeUsecase) countOutcome(outcome string) {
	if uc.Metrics != nil {
		uc.Metrics.WebhooksReceivedTotal.WithLabelValues(outcome).Inc()
	}
}
