package order

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tiendaviva/storefront-backend/internal/product"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "order").Logger()

// ProductCatalog is the slice of the catalog the order subsystem consumes:
// display data by product id. Lookups are read-only and never participate in
// the order transaction.
type ProductCatalog interface {
	ListByIDs(ids []int) ([]product.Product, error)
}

// Service orchestrates order creation, retrieval and status changes.
type Service struct {
	repo    Repository
	catalog ProductCatalog
}

func NewService(repo Repository, catalog ProductCatalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Create validates and persists a checkout submission. The id is regenerated
// a bounded number of times if the insert collides with an existing order;
// any other storage failure surfaces as a PersistenceError with the
// transaction already rolled back.
func (s *Service) Create(req CreateOrderRequest, userID *int) (Order, error) {
	normalized, verr := ValidateCreate(req)
	if verr != nil {
		return Order{}, verr
	}

	ord := Order{
		UserID:          userID,
		ClientName:      normalized.Client.Name,
		ClientEmail:     normalized.Client.Email,
		ClientPhone:     normalized.Client.Phone,
		ShippingAddress: normalized.ShippingAddress,
		TotalAmount:     normalized.TotalAmount,
		Status:          StatusProcessing,
		PaymentMethod:   normalized.PaymentMethod,
	}
	if ord.PaymentMethod == "" {
		ord.PaymentMethod = "Tarjeta"
	}

	ord.Items = make([]OrderItem, len(normalized.Items))
	for i, item := range normalized.Items {
		ord.Items[i] = OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
	}
	s.snapshotProducts(ord.Items)

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		ord.ID = NewOrderID()
		created, err := s.repo.Create(ord)
		if err == nil {
			logger.Info().Str("orderId", created.ID).Int("items", len(created.Items)).Msg("order created")
			return created, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return Order{}, &PersistenceError{Op: "create", Err: err}
		}
		logger.Warn().Str("orderId", ord.ID).Int("attempt", attempt).Msg("order id collision, regenerating")
	}
	return Order{}, &PersistenceError{Op: "create", Err: ErrDuplicateID}
}

// snapshotProducts copies the current catalog name and image onto each item
// so the order keeps displaying what was bought even if the catalog entry is
// later edited or removed. A catalog failure here is not fatal; the order is
// still valid without the display snapshot.
func (s *Service) snapshotProducts(items []OrderItem) {
	if s.catalog == nil || len(items) == 0 {
		return
	}
	ids := make([]int, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	prods, err := s.catalog.ListByIDs(ids)
	if err != nil {
		logger.Warn().Err(err).Msg("could not snapshot product display data")
		return
	}
	byID := make(map[int]product.Product, len(prods))
	for _, p := range prods {
		byID[p.ID] = p
	}
	for i := range items {
		if p, ok := byID[items[i].ProductID]; ok {
			items[i].ProductName = p.Name
			items[i].ProductImage = p.ImageURL
		}
	}
}

func (s *Service) Get(id string) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List() ([]Order, error) {
	return s.repo.List()
}

// UpdateStatus moves a single order along the status machine. It returns the
// updated order together with the status it held before the change. A
// rejected transition mutates nothing.
//
// Two concurrent updates on the same order race with last-write-wins
// semantics; there is no version column.
func (s *Service) UpdateStatus(id string, requested Status) (Order, Status, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, "", err
	}
	if !CanTransition(current.Status, requested) {
		return Order{}, current.Status, &StateTransitionError{From: current.Status, To: requested}
	}

	updated, err := s.repo.UpdateStatus(id, requested)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, current.Status, err
		}
		return Order{}, current.Status, &PersistenceError{Op: "update status", Err: err}
	}
	logger.Info().Str("orderId", id).Str("from", string(current.Status)).Str("to", string(requested)).Msg("order status updated")
	return updated, current.Status, nil
}

// BulkCancel cancels every order in ids that the status machine allows and
// returns how many actually changed. Duplicate ids count once. Orders
// already in a terminal state are skipped, not errored; the operation is
// deliberately not atomic across the set.
func (s *Service) BulkCancel(ids []string) (int, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	orders, err := s.repo.ListByIDs(unique)
	if err != nil {
		return 0, &PersistenceError{Op: "bulk cancel", Err: err}
	}

	cancelled := 0
	for _, ord := range orders {
		if !CanTransition(ord.Status, StatusCancelled) {
			continue
		}
		if _, err := s.repo.UpdateStatus(ord.ID, StatusCancelled); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return cancelled, &PersistenceError{Op: "bulk cancel", Err: err}
		}
		cancelled++
	}
	logger.Info().Int("requested", len(unique)).Int("cancelled", cancelled).Msg("bulk cancel applied")
	return cancelled, nil
}
