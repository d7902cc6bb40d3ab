package suppliers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Search(ctx context.Context, query string) ([]Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const supplierColumns = `id, name, email, phone, cnpj, address, created_at, updated_at, deleted_at`

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSuppliers(rows)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1 AND deleted_at IS NULL`, id)
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Cnpj, &s.Address, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Search(ctx context.Context, query string) ([]Supplier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE deleted_at IS NULL AND name ILIKE $1 ORDER BY name`,
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSuppliers(rows)
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO suppliers (id, name, email, phone, cnpj, address, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		supplier.ID, supplier.Name, supplier.Email, supplier.Phone, supplier.Cnpj, supplier.Address, now, now)
	if err != nil {
		return Supplier{}, err
	}
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	query := "UPDATE suppliers SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range []string{"name", "email", "phone", "cnpj", "address"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE suppliers SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	return err
}

func scanSuppliers(rows pgx.Rows) ([]Supplier, error) {
	var result []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Cnpj, &s.Address, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
