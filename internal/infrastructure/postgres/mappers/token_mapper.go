package mappers

import (
	"github.com/showroomlab/showroom-token-service/internal/domain"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/models"
)

func ToDomainToken(model *models.AccessTokenModel) *domain.AccessToken {
	return &domain.AccessToken{
		ID:                model.ID,
		OrderID:           model.OrderID,
		SeqNo:             model.SeqNo,
		Token:             model.Token,
		OrderNumber:       model.OrderNumber,
		Email:             model.Email,
		ContactEmail:      model.ContactEmail,
		CustomerEmail:     model.CustomerEmail,
		CustomerFirstName: model.CustomerFirstName,
		CustomerLastName:  model.CustomerLastName,
		BillingName:       model.BillingName,
		ShippingName:      model.ShippingName,
		FinancialStatus:   model.FinancialStatus,
		Test:              model.Test,
		OrderCreatedAt:    model.OrderCreatedAt,
		ProcessedAt:       model.ProcessedAt,
		CancelledAt:       model.CancelledAt,
		CreatedAt:         model.CreatedAt,
	}
}

// ToGORMToken builds a fresh ledger row from the normalized order's
// descriptive fields.
func ToGORMToken(id string, order *domain.NormalizedOrder, token string, seqNo int) *models.AccessTokenModel {
	return &models.AccessTokenModel{
		ID:                id,
		OrderID:           order.OrderID,
		SeqNo:             seqNo,
		Token:             token,
		OrderNumber:       order.OrderNumber,
		Email:             order.Email,
		ContactEmail:      order.ContactEmail,
		CustomerEmail:     order.CustomerEmail,
		CustomerFirstName: order.CustomerFirstName,
		CustomerLastName:  order.CustomerLastName,
		BillingName:       order.BillingName,
		ShippingName:      order.ShippingName,
		FinancialStatus:   order.FinancialStatus,
		Test:              order.Test,
		OrderCreatedAt:    order.CreatedAt,
		ProcessedAt:       order.ProcessedAt,
		CancelledAt:       order.CancelledAt,
	}
}
