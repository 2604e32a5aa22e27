package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/showroomlab/showroom-token-service/internal/domain"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/mappers"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultTokenRepository struct {
	DB *gorm.DB
}

func NewDefaultTokenRepository(db *gorm.DB) *DefaultTokenRepository {
	return &DefaultTokenRepository{DB: db}
}

// Reconcile brings the stored token count for the order up to owed inside a
// single transaction. A per-order advisory lock serializes concurrent
// deliveries of the same order id; the unique (order_id, seq_no) index backs
// that up at the constraint level.
func (r *DefaultTokenRepository) Reconcile(ctx context.Context, order *domain.NormalizedOrder, owed int) (*domain.ReconcileResult, error) {
	result := &domain.ReconcileResult{}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", order.OrderID).Error; err != nil {
			return err
		}

		var rows []models.AccessTokenModel
		if err := tx.
			Where("order_id = ?", order.OrderID).
			Order("seq_no ASC").
			Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			result.Tokens = append(result.Tokens, row.Token)
		}

		for seqNo := len(rows) + 1; seqNo <= owed; seqNo++ {
			token, err := domain.NewToken()
			if err != nil {
				return err
			}
			model := mappers.ToGORMToken(uuid.New().String(), order, token, seqNo)
			if err := tx.Create(model).Error; err != nil {
				return err
			}
			result.Tokens = append(result.Tokens, token)
			result.Created = append(result.Created, token)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.StorageError{Err: err}
	}
	return result, nil
}

func (r *DefaultTokenRepository) GetByToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	var row models.AccessTokenModel
	if err := r.DB.WithContext(ctx).First(&row, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, &domain.StorageError{Err: err}
	}
	return mappers.ToDomainToken(&row), nil
}

func (r *DefaultTokenRepository) FindByEmail(ctx context.Context, email string) ([]*domain.AccessToken, error) {
	var rows []models.AccessTokenModel
	if err := r.DB.WithContext(ctx).
		Where("email = ? OR contact_email = ? OR customer_email = ?", email, email, email).
		Order("order_id ASC, seq_no ASC").
		Find(&rows).Error; err != nil {
		return nil, &domain.StorageError{Err: err}
	}

	tokens := make([]*domain.AccessToken, len(rows))
	for i, row := range rows {
		tokens[i] = mappers.ToDomainToken(&row)
	}
	return tokens, nil
}
