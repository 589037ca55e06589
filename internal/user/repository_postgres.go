package user

import (
	"database/sql"
	"errors"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const selectUserColumns = `id, first_name, last_name, email, dni, password, role, is_active, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (first_name, last_name, email, dni, password, role, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,now(),now())
        RETURNING id, created_at, updated_at`,
		u.FirstName, u.LastName, u.Email, u.DNI, u.Password, u.Role, u.IsActive,
	).Scan(&u.ID, scanTime(&u.CreatedAt), scanTime(&u.UpdatedAt))
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByDNI(dni string) (User, error) {
	row := r.db.QueryRow(`SELECT `+selectUserColumns+` FROM users WHERE dni = $1`, dni)
	return scanUser(row)
}

func (r *PostgresRepository) Update(u User) (User, error) {
	row := r.db.QueryRow(`UPDATE users
        SET first_name=$2, last_name=$3, email=$4, dni=$5, password=$6, role=$7, is_active=$8, updated_at=now()
        WHERE id=$1
        RETURNING `+selectUserColumns,
		u.ID, u.FirstName, u.LastName, u.Email, u.DNI, u.Password, u.Role, u.IsActive)
	return scanUser(row)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List() ([]User, error) {
	rows, err := r.db.Query(`SELECT ` + selectUserColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *PostgresRepository) ListRecent(limit int) ([]User, error) {
	rows, err := r.db.Query(`SELECT `+selectUserColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]User, error) {
	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		u   User
		dni sql.NullString
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &dni, &u.Password,
		&u.Role, &u.IsActive, scanTime(&u.CreatedAt), scanTime(&u.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.DNI = dni.String
	return u, nil
}

// timeString scans a timestamptz column into an RFC3339 string field.
type timeString struct {
	dst *string
}

func scanTime(dst *string) *timeString {
	return &timeString{dst: dst}
}

func (t *timeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t.dst = v.UTC().Format(time.RFC3339)
	case string:
		*t.dst = v
	case nil:
		*t.dst = ""
	}
	return nil
}
