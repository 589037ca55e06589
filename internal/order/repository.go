package order

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("order not found")
	ErrDuplicateID = errors.New("order id already exists")
)

// PersistenceError signals that the storage layer failed mid-write. By the
// time a caller sees one, the enclosing transaction has already been rolled
// back; no partial order is ever visible as a side effect.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Repository defines persistence operations for orders and their items.
type Repository interface {
	// Create persists the order and every item as one atomic unit and
	// returns ErrDuplicateID when the id is already taken.
	Create(ord Order) (Order, error)
	GetByID(id string) (Order, error)
	// List returns all orders with items, newest first.
	List() ([]Order, error)
	// UpdateStatus overwrites the status of a single order. Last write
	// wins between concurrent callers; there is no version column.
	UpdateStatus(id string, status Status) (Order, error)
	// ListByIDs returns the orders whose id is present in ids, in the
	// same sequence. Unknown ids are skipped, not errored.
	ListByIDs(ids []string) ([]Order, error)
}

// InMemoryRepository backs service and handler tests.
type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     map[string]Order
	nextItemID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]Order), nextItemID: 1}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[ord.ID]; exists {
		return Order{}, ErrDuplicateID
	}

	now := time.Now().UTC()
	ord.CreatedAt = now
	ord.UpdatedAt = now
	items := make([]OrderItem, len(ord.Items))
	copy(items, ord.Items)
	for i := range items {
		items[i].ID = r.nextItemID
		items[i].OrderID = ord.ID
		r.nextItemID++
	}
	ord.Items = items
	r.orders[ord.ID] = ord
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(ord), nil
}

func (r *InMemoryRepository) List() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		out = append(out, cloneOrder(ord))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id string, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	ord.Status = status
	ord.UpdatedAt = time.Now().UTC()
	r.orders[id] = ord
	return cloneOrder(ord), nil
}

func (r *InMemoryRepository) ListByIDs(ids []string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(ids))
	for _, id := range ids {
		if ord, ok := r.orders[id]; ok {
			out = append(out, cloneOrder(ord))
		}
	}
	return out, nil
}

func cloneOrder(ord Order) Order {
	items := make([]OrderItem, len(ord.Items))
	copy(items, ord.Items)
	ord.Items = items
	return ord
}
