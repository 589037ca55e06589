package category

import (
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("category not found")

type Repository interface {
	List() ([]Category, error)
	Create(cat Category) (Category, error)
	Delete(id int) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT id, name, image_url FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var (
			cat Category
			img sql.NullString
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &img); err != nil {
			return nil, err
		}
		cat.ImageURL = img.String
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(cat Category) (Category, error) {
	err := r.db.QueryRow(`INSERT INTO categories (name, image_url) VALUES ($1,$2) RETURNING id`,
		cat.Name, cat.ImageURL).Scan(&cat.ID)
	if err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
