package product

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectProductColumns = `id, name, price, price_unit, image_url, old_price, discount, category, description, presentation, stock, is_active, is_featured, created_at, updated_at`

	insertProductQuery = `
        INSERT INTO products (name, price, price_unit, image_url, old_price, discount, category, description, presentation, stock, is_active, is_featured, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
        RETURNING ` + selectProductColumns + `
    `
	updateProductQuery = `
        UPDATE products
        SET name=$2, price=$3, price_unit=$4, image_url=$5, old_price=$6, discount=$7, category=$8, description=$9, presentation=$10, stock=$11, is_active=$12, is_featured=$13, updated_at=now()
        WHERE id=$1
        RETURNING ` + selectProductColumns + `
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(filter Filter) ([]Product, error) {
	query := `SELECT ` + selectProductColumns + ` FROM products`
	args := []interface{}{}
	where := ""
	if !filter.IncludeInactive {
		where = ` WHERE is_active`
	}
	if filter.Category != "" {
		if where == "" {
			where = ` WHERE category = $1`
		} else {
			where += ` AND category = $1`
		}
		args = append(args, filter.Category)
	}
	if filter.FeaturedOnly {
		if where == "" {
			where = ` WHERE is_featured`
		} else {
			where += ` AND is_featured`
		}
	}
	rows, err := r.db.Query(query+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(`SELECT `+selectProductColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(`SELECT `+selectProductColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	row := r.db.QueryRow(insertProductQuery,
		p.Name, p.Price, p.PriceUnit, p.ImageURL, p.OldPrice, p.Discount,
		p.Category, p.Description, p.Presentation, p.Stock, p.IsActive, p.IsFeatured)
	return scanProduct(row)
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	row := r.db.QueryRow(updateProductQuery, id,
		p.Name, p.Price, p.PriceUnit, p.ImageURL, p.OldPrice, p.Discount,
		p.Category, p.Description, p.Presentation, p.Stock, p.IsActive, p.IsFeatured)
	out, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return out, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p            Product
		priceUnit    sql.NullString
		imageURL     sql.NullString
		oldPrice     decimal.NullDecimal
		discount     sql.NullInt64
		description  sql.NullString
		presentation sql.NullString
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Name, &p.Price, &priceUnit, &imageURL, &oldPrice, &discount,
		&p.Category, &description, &presentation, &p.Stock, &p.IsActive, &p.IsFeatured,
		&createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}
	p.PriceUnit = priceUnit.String
	p.ImageURL = imageURL.String
	if oldPrice.Valid {
		v := oldPrice.Decimal
		p.OldPrice = &v
	}
	if discount.Valid {
		v := int(discount.Int64)
		p.Discount = &v
	}
	p.Description = description.String
	p.Presentation = presentation.String
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time.UTC().Format(time.RFC3339)
	}
	return p, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
