package admin

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Stats() (Stats, error)
	RecentOrders(limit int) ([]RecentOrder, error)
}

type PostgresRepository struct {
	db *sql.DB
}

const recentOrdersQuery = `
    SELECT o.id, o.user_id, o.client_name, o.client_email, o.total_amount,
           o.status, o.payment_method, o.created_at,
           u.first_name, u.last_name
    FROM orders o
    LEFT JOIN users u ON o.user_id = u.id
    ORDER BY o.created_at DESC
    LIMIT $1
`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Stats aggregates the dashboard numbers. Revenue counts Delivered orders
// only; cancelled and in-flight orders are not income.
func (r *PostgresRepository) Stats() (Stats, error) {
	var s Stats

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&s.TotalOrders); err != nil {
		return Stats{}, err
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'`).Scan(&s.NewUsers); err != nil {
		return Stats{}, err
	}

	var revenue decimal.NullDecimal
	if err := r.db.QueryRow(`SELECT SUM(total_amount) FROM orders WHERE status = 'Delivered'`).Scan(&revenue); err != nil {
		return Stats{}, err
	}
	if revenue.Valid {
		s.TotalRevenue = revenue.Decimal
	} else {
		s.TotalRevenue = decimal.Zero
	}
	return s, nil
}

func (r *PostgresRepository) RecentOrders(limit int) ([]RecentOrder, error) {
	rows, err := r.db.Query(recentOrdersQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecentOrder, 0)
	for rows.Next() {
		var (
			ord        RecentOrder
			userID     sql.NullInt64
			clientName string
			createdAt  time.Time
			firstName  sql.NullString
			lastName   sql.NullString
		)
		if err := rows.Scan(&ord.ID, &userID, &clientName, &ord.ClientEmail, &ord.TotalAmount,
			&ord.Status, &ord.PaymentMethod, &createdAt, &firstName, &lastName); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := int(userID.Int64)
			ord.UserID = &v
		}
		ord.UserName = clientName
		if firstName.Valid && firstName.String != "" {
			ord.UserName = firstName.String
			if lastName.Valid && lastName.String != "" {
				ord.UserName += " " + lastName.String
			}
		}
		ord.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, ord)
	}
	return out, rows.Err()
}
