package order

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgresRepository stores orders in the `orders` and `order_items` tables.
// Items carry a foreign key to orders with ON DELETE CASCADE; products are
// referenced by id only.
type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
        INSERT INTO orders (id, user_id, client_name, client_email, client_phone, shipping_address, total_amount, status, payment_method, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
        RETURNING created_at, updated_at
    `
	insertItemQuery = `
        INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price, product_name, product_image)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id
    `
	selectOrderColumns = `id, user_id, client_name, client_email, client_phone, shipping_address, total_amount, status, payment_method, created_at, updated_at`

	updateStatusQuery = `
        UPDATE orders SET status=$2, updated_at=now()
        WHERE id=$1
        RETURNING ` + selectOrderColumns + `
    `
	selectItemsQuery = `
        SELECT id, order_id, product_id, quantity, unit_price, total_price, product_name, product_image
        FROM order_items
        WHERE order_id = ANY($1)
        ORDER BY id
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the order row and every item row inside one transaction.
// Either all rows exist afterwards or none do; any failure rolls back before
// the error is returned, so readers never observe a half-written order.
func (r *PostgresRepository) Create(ord Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(insertOrderQuery,
		ord.ID, nullableInt(ord.UserID), ord.ClientName, ord.ClientEmail, ord.ClientPhone,
		ord.ShippingAddress, ord.TotalAmount, string(ord.Status), ord.PaymentMethod,
	).Scan(&ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Order{}, ErrDuplicateID
		}
		return Order{}, err
	}

	for i := range ord.Items {
		ord.Items[i].OrderID = ord.ID
		item := &ord.Items[i]
		if err := tx.QueryRow(insertItemQuery,
			item.OrderID, item.ProductID, item.Quantity,
			item.UnitPrice, item.TotalPrice, item.ProductName, item.ProductImage,
		).Scan(&item.ID); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+selectOrderColumns+` FROM orders WHERE id = $1`, id)
	ord, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	items, err := r.loadItems([]string{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = items[ord.ID]
	if ord.Items == nil {
		ord.Items = []OrderItem{}
	}
	return ord, nil
}

func (r *PostgresRepository) List() ([]Order, error) {
	rows, err := r.db.Query(`SELECT ` + selectOrderColumns + ` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.attachItems(orders)
}

func (r *PostgresRepository) UpdateStatus(id string, status Status) (Order, error) {
	row := r.db.QueryRow(updateStatusQuery, id, string(status))
	ord, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	items, err := r.loadItems([]string{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = items[ord.ID]
	if ord.Items == nil {
		ord.Items = []OrderItem{}
	}
	return ord, nil
}

// ListByIDs returns orders matching the given ids, ordered the same way as
// the ids argument. Ids with no matching row are silently skipped.
func (r *PostgresRepository) ListByIDs(ids []string) ([]Order, error) {
	if len(ids) == 0 {
		return []Order{}, nil
	}

	rows, err := r.db.Query(`SELECT `+selectOrderColumns+`
        FROM orders
        WHERE id = ANY($1)
        ORDER BY array_position($1::text[], id)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0, len(ids))
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.attachItems(orders)
}

func (r *PostgresRepository) attachItems(orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, len(orders))
	for i, ord := range orders {
		ids[i] = ord.ID
	}
	items, err := r.loadItems(ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []OrderItem{}
		}
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := r.db.Query(selectItemsQuery, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]OrderItem)
	for rows.Next() {
		var (
			item  OrderItem
			name  sql.NullString
			image sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &name, &image); err != nil {
			return nil, err
		}
		item.ProductName = name.String
		item.ProductImage = image.String
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		ord    Order
		userID sql.NullInt64
		status string
	)
	err := row.Scan(&ord.ID, &userID, &ord.ClientName, &ord.ClientEmail, &ord.ClientPhone,
		&ord.ShippingAddress, &ord.TotalAmount, &status, &ord.PaymentMethod,
		&ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	if userID.Valid {
		v := int(userID.Int64)
		ord.UserID = &v
	}
	return ord, nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
