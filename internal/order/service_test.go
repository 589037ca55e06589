package order

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendaviva/storefront-backend/internal/product"
)

type stubCatalog struct {
	products map[int]product.Product
	err      error
}

func (s *stubCatalog) ListByIDs(ids []int) ([]product.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{products: map[int]product.Product{
		1: {ID: 1, Name: "Arroz Extra", Price: decimal.RequireFromString("10.00"), ImageURL: "/img/arroz.jpg", Presentation: "Bolsa 1kg"},
		2: {ID: 2, Name: "Aceite Premium", Price: decimal.RequireFromString("15.50"), ImageURL: "/img/aceite.jpg", Presentation: "Botella 1L"},
	}}
}

// collidingRepo reports an id collision for the first n creates.
type collidingRepo struct {
	*InMemoryRepository
	mu         sync.Mutex
	collisions int
	attempts   []string
}

func (r *collidingRepo) Create(ord Order) (Order, error) {
	r.mu.Lock()
	r.attempts = append(r.attempts, ord.ID)
	fail := len(r.attempts) <= r.collisions
	r.mu.Unlock()
	if fail {
		return Order{}, ErrDuplicateID
	}
	return r.InMemoryRepository.Create(ord)
}

// brokenRepo simulates the storage layer failing mid-write. Nothing is
// persisted, mirroring a rolled-back transaction.
type brokenRepo struct {
	*InMemoryRepository
	createErr error
}

func (r *brokenRepo) Create(ord Order) (Order, error) {
	return Order{}, r.createErr
}

func checkoutRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Client:          ClientInfo{Name: "Juan Perez", Email: "juan@test.com", Phone: "987654321"},
		ShippingAddress: "Av. Siempre Viva 742, Lima",
		TotalAmount:     decimal.RequireFromString("35.50"),
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{ProductID: 2, Quantity: 1, Price: decimal.RequireFromString("15.50")},
		},
	}
}

func TestServiceCreate(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())

	created, err := svc.Create(checkoutRequest(), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.Status != StatusProcessing {
		t.Errorf("expected initial status Processing, got %s", created.Status)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created.Items))
	}
	if !created.TotalAmount.Equal(decimal.RequireFromString("35.50")) {
		t.Errorf("totalAmount = %s", created.TotalAmount)
	}
	if !created.Items[0].TotalPrice.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("items[0].totalPrice = %s, want 20.00", created.Items[0].TotalPrice)
	}
	if created.UserID != nil {
		t.Error("guest checkout must not carry a user id")
	}
	if created.Items[0].ProductName != "Arroz Extra" {
		t.Errorf("product name not snapshotted: %q", created.Items[0].ProductName)
	}

	// read-after-write: the stored order matches what was returned
	stored, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("lookup after create failed: %v", err)
	}
	if len(stored.Items) != 2 || !stored.TotalAmount.Equal(created.TotalAmount) {
		t.Errorf("stored order differs from created order")
	}
}

func TestServiceCreate_AttachesUser(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog())
	uid := 42

	created, err := svc.Create(checkoutRequest(), &uid)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.UserID == nil || *created.UserID != 42 {
		t.Errorf("expected userId 42, got %v", created.UserID)
	}
}

func TestServiceCreate_ValidationFailurePersistsNothing(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())

	req := checkoutRequest()
	req.Items = nil

	_, err := svc.Create(req, nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	orders, _ := repo.List()
	if len(orders) != 0 {
		t.Fatalf("nothing should be persisted on validation failure, found %d orders", len(orders))
	}
}

func TestServiceCreate_RetriesOnIDCollision(t *testing.T) {
	repo := &collidingRepo{InMemoryRepository: NewInMemoryRepository(), collisions: 2}
	svc := NewService(repo, testCatalog())

	created, err := svc.Create(checkoutRequest(), nil)
	if err != nil {
		t.Fatalf("create should survive two collisions: %v", err)
	}
	if len(repo.attempts) != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", len(repo.attempts))
	}
	if repo.attempts[2] != created.ID {
		t.Errorf("final attempt %s should be the persisted id %s", repo.attempts[2], created.ID)
	}
	if repo.attempts[0] == repo.attempts[1] {
		t.Error("colliding id must be regenerated, not reused")
	}
}

func TestServiceCreate_GivesUpAfterBoundedRetries(t *testing.T) {
	repo := &collidingRepo{InMemoryRepository: NewInMemoryRepository(), collisions: maxIDAttempts}
	svc := NewService(repo, testCatalog())

	_, err := svc.Create(checkoutRequest(), nil)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError after exhausted retries, got %v", err)
	}
	if len(repo.attempts) != maxIDAttempts {
		t.Fatalf("expected %d attempts, got %d", maxIDAttempts, len(repo.attempts))
	}
}

func TestServiceCreate_StorageFailure(t *testing.T) {
	repo := &brokenRepo{InMemoryRepository: NewInMemoryRepository(), createErr: errors.New("connection reset")}
	svc := NewService(repo, testCatalog())

	req := checkoutRequest()
	_, err := svc.Create(req, nil)

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}

	// no partial order is visible after the failure
	orders, _ := repo.List()
	if len(orders) != 0 {
		t.Fatal("failed create must leave no rows behind")
	}
}

func TestServiceCreate_CatalogDownStillCreates(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), &stubCatalog{err: errors.New("catalog unavailable")})

	created, err := svc.Create(checkoutRequest(), nil)
	if err != nil {
		t.Fatalf("create must not depend on the catalog: %v", err)
	}
	if created.Items[0].ProductName != "" {
		t.Error("snapshot should be empty when the catalog is down")
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())
	created, _ := svc.Create(checkoutRequest(), nil)

	updated, previous, err := svc.UpdateStatus(created.ID, StatusShipped)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if previous != StatusProcessing {
		t.Errorf("previousStatus = %s, want Processing", previous)
	}
	if updated.Status != StatusShipped {
		t.Errorf("status = %s, want Shipped", updated.Status)
	}
}

func TestServiceUpdateStatus_IllegalTransition(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())
	created, _ := svc.Create(checkoutRequest(), nil)
	_, _, _ = svc.UpdateStatus(created.ID, StatusDelivered)

	_, _, err := svc.UpdateStatus(created.ID, StatusPreparing)
	var terr *StateTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}
	if terr.From != StatusDelivered || terr.To != StatusPreparing {
		t.Errorf("error should carry both states, got %+v", terr)
	}

	// rejected transition mutates nothing
	stored, _ := repo.GetByID(created.ID)
	if stored.Status != StatusDelivered {
		t.Errorf("order mutated by rejected transition: %s", stored.Status)
	}
}

func TestServiceUpdateStatus_UnknownOrder(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog())

	_, _, err := svc.UpdateStatus("ORD-0-XXXXX", StatusShipped)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceBulkCancel_PartialApplication(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())

	a, _ := svc.Create(checkoutRequest(), nil)
	b, _ := svc.Create(checkoutRequest(), nil)
	_, _, _ = svc.UpdateStatus(b.ID, StatusDelivered)

	count, err := svc.BulkCancel([]string{a.ID, b.ID})
	if err != nil {
		t.Fatalf("bulk cancel failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cancelledCount = %d, want 1", count)
	}

	gotA, _ := repo.GetByID(a.ID)
	gotB, _ := repo.GetByID(b.ID)
	if gotA.Status != StatusCancelled {
		t.Errorf("order A should be cancelled, got %s", gotA.Status)
	}
	if gotB.Status != StatusDelivered {
		t.Errorf("order B must stay Delivered, got %s", gotB.Status)
	}
}

func TestServiceBulkCancel_DuplicateIDsCountOnce(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())
	a, _ := svc.Create(checkoutRequest(), nil)

	count, err := svc.BulkCancel([]string{a.ID, a.ID})
	if err != nil {
		t.Fatalf("bulk cancel failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cancelledCount = %d for a single order submitted twice, want 1", count)
	}

	got, _ := repo.GetByID(a.ID)
	if got.Status != StatusCancelled {
		t.Errorf("order should be cancelled, got %s", got.Status)
	}
}

func TestServiceBulkCancel_UnknownIDsSkipped(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())
	a, _ := svc.Create(checkoutRequest(), nil)

	count, err := svc.BulkCancel([]string{a.ID, "ORD-0-XXXXX"})
	if err != nil {
		t.Fatalf("bulk cancel failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cancelledCount = %d, want 1", count)
	}
}

// Concurrent status writes race with last-write-wins semantics: there is no
// version column, so neither writer fails and the final state is whichever
// update landed last.
func TestConcurrentStatusUpdates_LastWriteWins(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, testCatalog())
	created, _ := svc.Create(checkoutRequest(), nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = repo.UpdateStatus(created.ID, StatusPreparing)
	}()
	go func() {
		defer wg.Done()
		_, _ = repo.UpdateStatus(created.ID, StatusShipped)
	}()
	wg.Wait()

	final, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if final.Status != StatusPreparing && final.Status != StatusShipped {
		t.Fatalf("final status %s is neither of the racing writes", final.Status)
	}
}
