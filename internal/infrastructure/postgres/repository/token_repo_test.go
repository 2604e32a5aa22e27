package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/showroomlab/showroom-token-service/internal/domain"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Integration tests against a real Postgres, gated on TEST_DATABASE_DSN,
// e.g. "host=localhost user=postgres password=postgres dbname=tokens_test port=5432 sslmode=disable".
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.AutoMigrate(&models.AccessTokenModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testOrder(id, email string) *domain.NormalizedOrder {
	return &domain.NormalizedOrder{
		OrderID:         id,
		Email:           email,
		FinancialStatus: "paid",
		CreatedAt:       time.Now(),
	}
}

// uniqueOrderID keeps runs against a shared database from colliding.
func uniqueOrderID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func cleanupOrder(t *testing.T, db *gorm.DB, orderID string) {
	t.Cleanup(func() {
		db.Where("order_id = ?", orderID).Delete(&models.AccessTokenModel{})
	})
}

func TestReconcileIdempotent(t *testing.T) {
	db := testDB(t)
	repo := NewDefaultTokenRepository(db)
	orderID := uniqueOrderID(t)
	cleanupOrder(t, db, orderID)
	order := testOrder(orderID, "repo-test@example.com")

	first, err := repo.Reconcile(context.Background(), order, 2)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if len(first.Created) != 2 || len(first.Tokens) != 2 {
		t.Fatalf("expected 2 created / 2 total, got %d / %d", len(first.Created), len(first.Tokens))
	}

	again, err := repo.Reconcile(context.Background(), order, 2)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if len(again.Created) != 0 {
		t.Fatalf("redelivery minted %d tokens", len(again.Created))
	}
	for i, token := range again.Tokens {
		if token != first.Tokens[i] {
			t.Fatal("token set changed between reconciles")
		}
	}
}

func TestReconcileTopUp(t *testing.T) {
	db := testDB(t)
	repo := NewDefaultTokenRepository(db)
	orderID := uniqueOrderID(t)
	cleanupOrder(t, db, orderID)
	order := testOrder(orderID, "repo-test@example.com")

	first, err := repo.Reconcile(context.Background(), order, 1)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	second, err := repo.Reconcile(context.Background(), order, 3)
	if err != nil {
		t.Fatalf("top-up reconcile: %v", err)
	}
	if len(second.Created) != 2 || len(second.Tokens) != 3 {
		t.Fatalf("expected 2 created / 3 total, got %d / %d", len(second.Created), len(second.Tokens))
	}
	if second.Tokens[0] != first.Tokens[0] {
		t.Fatal("top-up replaced the original token")
	}
}

func TestReconcileConcurrent(t *testing.T) {
	db := testDB(t)
	repo := NewDefaultTokenRepository(db)
	orderID := uniqueOrderID(t)
	cleanupOrder(t, db, orderID)
	order := testOrder(orderID, "repo-test@example.com")

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := repo.Reconcile(context.Background(), order, 2)
			if err != nil {
				t.Errorf("concurrent reconcile: %v", err)
				return
			}
			mu.Lock()
			created += len(result.Created)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if created != 2 {
		t.Fatalf("expected exactly 2 created tokens across workers, got %d", created)
	}
	var count int64
	db.Model(&models.AccessTokenModel{}).Where("order_id = ?", orderID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}
}

func TestGetByTokenAndFindByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewDefaultTokenRepository(db)
	orderID := uniqueOrderID(t)
	cleanupOrder(t, db, orderID)
	email := fmt.Sprintf("lookup-%s@example.com", orderID)

	result, err := repo.Reconcile(context.Background(), testOrder(orderID, email), 1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	row, err := repo.GetByToken(context.Background(), result.Tokens[0])
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if row.OrderID != orderID || row.Email != email {
		t.Fatalf("unexpected row: %+v", row)
	}

	if _, err := repo.GetByToken(context.Background(), "no-such-token"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}

	rows, err := repo.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if len(rows) != 1 || rows[0].Token != result.Tokens[0] {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
