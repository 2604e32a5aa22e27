package usecase

import (
	"context"

	"github.com/showroomlab/showroom-token-service/internal/domain"
	accessdto "github.com/showroomlab/showroom-token-service/internal/usecase/dto/access"
)

type AccessUsecase interface {
	Login(ctx context.Context, token string) (*accessdto.LoginOutput, error)
	Resend(ctx context.Context, email string) (*accessdto.ResendOutput, error)
}

type DefaultAccessUsecase struct {
	TokenRepo domain.TokenRepository
	Mailer    domain.Mailer
}

func NewDefaultAccessUsecase(tokenRepo domain.TokenRepository, mailer domain.Mailer) *DefaultAccessUsecase {
	return &DefaultAccessUsecase{TokenRepo: tokenRepo, Mailer: mailer}
}

// Login looks up a token row by exact match. Read-only.
func (uc *DefaultAccessUsecase) Login(ctx context.Context, token string) (*accessdto.LoginOutput, error) {
	row, err := uc.TokenRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &accessdto.LoginOutput{
		OrderID:           row.OrderID,
		OrderNumber:       row.OrderNumber,
		Email:             resolveFirst(row.Email, row.ContactEmail, row.CustomerEmail),
		CustomerFirstName: row.CustomerFirstName,
		CustomerLastName:  row.CustomerLastName,
		BillingName:       row.BillingName,
		ShippingName:      row.ShippingName,
		FinancialStatus:   row.FinancialStatus,
		Test:              row.Test,
		OrderCreatedAt:    row.OrderCreatedAt,
		ProcessedAt:       row.ProcessedAt,
	}, nil
}

// Resend re-sends the full token set for every order owned by the address.
// One message per distinct order id.
func (uc *DefaultAccessUsecase) Resend(ctx context.Context, email string) (*accessdto.ResendOutput, error) {
	rows, err := uc.TokenRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmailNotFound
	}

	orderIDs := make([]string, 0, 1)
	byOrder := make(map[string][]*domain.AccessToken)
	for _, row := range rows {
		if _, ok := byOrder[row.OrderID]; !ok {
			orderIDs = append(orderIDs, row.OrderID)
		}
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row)
	}

	out := &accessdto.ResendOutput{}
	for _, orderID := range orderIDs {
		group := byOrder[orderID]
		recipient := resolveFirst(group[0].Email, group[0].ContactEmail, group[0].CustomerEmail)
		if recipient == "" {
			continue
		}
		tokens := make([]string, 0, len(group))
		for _, row := range group {
			tokens = append(tokens, row.Token)
		}
		if err := uc.Mailer.SendTokens(ctx, recipient, tokens); err != nil {
			return nil, err
		}
		out.Orders++
		out.Tokens += len(tokens)
	}
	if out.Orders == 0 {
		return nil, domain.ErrNoUsableRecipient
	}
	return out, nil
}
