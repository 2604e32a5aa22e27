package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/showroomlab/showroom-token-service/internal/domain"
	intakedto "github.com/showroomlab/showroom-token-service/internal/usecase/dto/intake"
)

// fakeTokenRepo is an in-memory ledger with the same serialization guarantee
// the Postgres repository provides.
type fakeTokenRepo struct {
	mu   sync.Mutex
	rows map[string][]*domain.AccessToken
	err  error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{rows: make(map[string][]*domain.AccessToken)}
}

func (f *fakeTokenRepo) Reconcile(_ context.Context, order *domain.NormalizedOrder, owed int) (*domain.ReconcileResult, error) {
	if f.err != nil {
		return nil, &domain.StorageError{Err: f.err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	result := &domain.ReconcileResult{}
	for _, row := range f.rows[order.OrderID] {
		result.Tokens = append(result.Tokens, row.Token)
	}
	for seqNo := len(f.rows[order.OrderID]) + 1; seqNo <= owed; seqNo++ {
		token, err := domain.NewToken()
		if err != nil {
			return nil, &domain.StorageError{Err: err}
		}
		f.rows[order.OrderID] = append(f.rows[order.OrderID], &domain.AccessToken{
			OrderID:           order.OrderID,
			SeqNo:             seqNo,
			Token:             token,
			OrderNumber:       order.OrderNumber,
			Email:             order.Email,
			ContactEmail:      order.ContactEmail,
			CustomerEmail:     order.CustomerEmail,
			CustomerFirstName: order.CustomerFirstName,
			CustomerLastName:  order.CustomerLastName,
			FinancialStatus:   order.FinancialStatus,
			Test:              order.Test,
			OrderCreatedAt:    order.CreatedAt,
		})
		result.Tokens = append(result.Tokens, token)
		result.Created = append(result.Created, token)
	}
	return result, nil
}

func (f *fakeTokenRepo) GetByToken(_ context.Context, token string) (*domain.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rows := range f.rows {
		for _, row := range rows {
			if row.Token == token {
				return row, nil
			}
		}
	}
	return nil, domain.ErrTokenNotFound
}

func (f *fakeTokenRepo) FindByEmail(_ context.Context, email string) ([]*domain.AccessToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []*domain.AccessToken
	for _, rows := range f.rows {
		for _, row := range rows {
			if row.Email == email || row.ContactEmail == email || row.CustomerEmail == email {
				matches = append(matches, row)
			}
		}
	}
	return matches, nil
}

func (f *fakeTokenRepo) count(orderID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows[orderID])
}

type sentMail struct {
	recipient string
	tokens    []string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendTokens(_ context.Context, recipient string, tokens []string) error {
	if recipient == "" || len(tokens) == 0 {
		return &domain.MailError{Err: errors.New("empty recipient or token set")}
	}
	if f.err != nil {
		return &domain.MailError{Err: f.err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{recipient: recipient, tokens: append([]string(nil), tokens...)})
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestIntake(repo *fakeTokenRepo, m *fakeMailer) *DefaultIntakeUsecase {
	return NewDefaultIntakeUsecase(repo, m, nil, nil, nil, testTarget, "token-events")
}

func webhookPayload(id string, qty float64, status, email string) intakedto.OrderPayload {
	return map[string]any{
		"id":               id,
		"line_items":       []any{map[string]any{"product_id": testTarget, "quantity": qty}},
		"financial_status": status,
		"email":            email,
	}
}

func TestProcessOrderIdempotency(t *testing.T) {
	repo := newFakeTokenRepo()
	mail := &fakeMailer{}
	uc := newTestIntake(repo, mail)
	payload := webhookPayload("1001", 2, "paid", "a@b.com")

	first, err := uc.ProcessOrder(context.Background(), payload)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if first.Status != intakedto.StatusStored {
		t.Fatalf("expected stored, got %s", first.Status)
	}
	if len(first.Created) != 2 || len(first.Tokens) != 2 {
		t.Fatalf("expected 2 created / 2 total, got %d / %d", len(first.Created), len(first.Tokens))
	}

	// Redeliver the same payload several times.
	for i := 0; i < 3; i++ {
		again, err := uc.ProcessOrder(context.Background(), payload)
		if err != nil {
			t.Fatalf("redelivery %d: %v", i, err)
		}
		if again.Status != intakedto.StatusAlreadyProcessed {
			t.Fatalf("expected already_processed, got %s", again.Status)
		}
		if len(again.Created) != 0 {
			t.Fatalf("redelivery minted %d tokens", len(again.Created))
		}
		for j, token := range again.Tokens {
			if token != first.Tokens[j] {
				t.Fatalf("token set changed on redelivery")
			}
		}
	}
	if repo.count("1001") != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", repo.count("1001"))
	}
	// Every successful delivery re-sends the full set.
	if mail.sentCount() != 4 {
		t.Fatalf("expected 4 mails, got %d", mail.sentCount())
	}
	last := mail.sent[len(mail.sent)-1]
	if len(last.tokens) != 2 {
		t.Fatalf("resend mail carried %d tokens, expected full set of 2", len(last.tokens))
	}
}

func TestProcessOrderMonotonicTopUp(t *testing.T) {
	repo := newFakeTokenRepo()
	mail := &fakeMailer{}
	uc := newTestIntake(repo, mail)

	first, err := uc.ProcessOrder(context.Background(), webhookPayload("2002", 1, "paid", "a@b.com"))
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if len(first.Tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(first.Tokens))
	}

	second, err := uc.ProcessOrder(context.Background(), webhookPayload("2002", 3, "paid", "a@b.com"))
	if err != nil {
		t.Fatalf("top-up delivery: %v", err)
	}
	if second.Status != intakedto.StatusStored {
		t.Fatalf("expected stored on top-up, got %s", second.Status)
	}
	if len(second.Created) != 2 || len(second.Tokens) != 3 {
		t.Fatalf("expected 2 created / 3 total, got %d / %d", len(second.Created), len(second.Tokens))
	}
	if second.Tokens[0] != first.Tokens[0] {
		t.Fatal("top-up replaced the original token")
	}
}

func TestProcessOrderIgnoredCreatesNothing(t *testing.T) {
	repo := newFakeTokenRepo()
	mail := &fakeMailer{}
	uc := newTestIntake(repo, mail)

	result, err := uc.ProcessOrder(context.Background(), webhookPayload("3003", 1, "pending", "a@b.com"))
	if err != nil {
		t.Fatalf("ProcessOrder: %v", err)
	}
	if result.Status != intakedto.StatusIgnored || result.Reason != domain.ReasonUnsuccessfulOrder {
		t.Fatalf("expected ignored/unsuccessful_order, got %+v", result)
	}
	if repo.count("3003") != 0 {
		t.Fatal("ignored delivery reached the ledger")
	}
	if mail.sentCount() != 0 {
		t.Fatal("ignored delivery sent mail")
	}
}

func TestProcessOrderNoRecipient(t *testing.T) {
	repo := newFakeTokenRepo()
	uc := newTestIntake(repo, &fakeMailer{})

	_, err := uc.ProcessOrder(context.Background(), webhookPayload("4004", 1, "paid", ""))
	if code := validationCode(t, err); code != domain.CodeNoRecipient {
		t.Fatalf("expected %s, got %s", domain.CodeNoRecipient, code)
	}
	if repo.count("4004") != 0 {
		t.Fatal("recipient-less delivery reached the ledger")
	}
}

func TestProcessOrderMailFailureAfterCommit(t *testing.T) {
	repo := newFakeTokenRepo()
	mail := &fakeMailer{err: errors.New("smtp down")}
	uc := newTestIntake(repo, mail)
	payload := webhookPayload("5005", 1, "paid", "a@b.com")

	_, err := uc.ProcessOrder(context.Background(), payload)
	var mErr *domain.MailError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MailError, got %v", err)
	}
	// Tokens are persisted even though the mail failed.
	if repo.count("5005") != 1 {
		t.Fatalf("expected 1 persisted row, got %d", repo.count("5005"))
	}

	// The caller retries; the idempotent path prevents double issuance.
	mail.err = nil
	retry, err := uc.ProcessOrder(context.Background(), payload)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retry.Status != intakedto.StatusAlreadyProcessed || len(retry.Created) != 0 {
		t.Fatalf("expected idempotent retry, got %+v", retry)
	}
	if repo.count("5005") != 1 {
		t.Fatalf("retry minted extra rows: %d", repo.count("5005"))
	}
}

func TestProcessOrderStorageErrorPropagates(t *testing.T) {
	repo := newFakeTokenRepo()
	repo.err = errors.New("connection refused")
	uc := newTestIntake(repo, &fakeMailer{})

	_, err := uc.ProcessOrder(context.Background(), webhookPayload("6006", 1, "paid", "a@b.com"))
	var sErr *domain.StorageError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestProcessOrderConcurrentDeliveries(t *testing.T) {
	repo := newFakeTokenRepo()
	uc := newTestIntake(repo, &fakeMailer{})
	payload := webhookPayload("7007", 1, "paid", "a@b.com")

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.ProcessOrder(context.Background(), payload)
			if err != nil {
				t.Errorf("concurrent delivery: %v", err)
				return
			}
			mu.Lock()
			created += len(result.Created)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if repo.count("7007") != 1 {
		t.Fatalf("expected exactly 1 row, got %d", repo.count("7007"))
	}
	if created != 1 {
		t.Fatalf("expected exactly 1 created token across deliveries, got %d", created)
	}
}
