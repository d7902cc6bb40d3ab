package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao-app/balcao/internal/masterdata/customers"
	"github.com/balcao-app/balcao/internal/masterdata/products"
	"github.com/balcao-app/balcao/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]Sale, error)
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
	Search(ctx context.Context, query string) ([]Sale, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, sale Sale, items []SaleProduct) error
	Update(ctx context.Context, id uuid.UUID, customerID uuid.UUID, saleDate time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const saleSelect = `
	SELECT s.id, s.name, s.description, s.customer_id, s.sale_date,
	       s.created_at, s.updated_at, s.deleted_at,
	       c.id, c.name, c.cpf_or_cnpj, c.email, c.phone,
	       c.created_at, c.updated_at, c.deleted_at
	FROM sales s
	JOIN customers c ON c.id = s.customer_id`

func (r *repository) List(ctx context.Context) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, saleSelect+` WHERE s.deleted_at IS NULL ORDER BY s.sale_date DESC`)
	if err != nil {
		return nil, err
	}
	sales, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLineItems(ctx, sales)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	rows, err := r.pool.Query(ctx, saleSelect+` WHERE s.id = $1 AND s.deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	sales, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, nil
	}
	sales, err = r.attachLineItems(ctx, sales)
	if err != nil {
		return nil, err
	}
	return &sales[0], nil
}

func (r *repository) Search(ctx context.Context, query string) ([]Sale, error) {
	rows, err := r.pool.Query(ctx,
		saleSelect+` WHERE s.deleted_at IS NULL AND s.name ILIKE $1 ORDER BY s.sale_date DESC`,
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	sales, err := collectSales(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLineItems(ctx, sales)
}

// Exists reports whether a sale row exists at all, soft-deleted or not.
func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Create inserts the sale header and all line items in one transaction.
func (r *repository) Create(ctx context.Context, sale Sale, items []SaleProduct) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		_, err := tx.Exec(ctx,
			`INSERT INTO sales (id, name, description, customer_id, sale_date, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sale.ID, sale.Name, sale.Description, sale.CustomerID, sale.SaleDate, now, now)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(
				`INSERT INTO sale_products (id, sale_id, product_id, quantity, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				item.ID, sale.ID, item.ProductID, item.Quantity, now, now)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, customerID uuid.UUID, saleDate time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE sales SET customer_id = $1, sale_date = $2, updated_at = NOW() WHERE id = $3`,
		customerID, saleDate, id)
	return err
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	var deletedAt time.Time
	err := r.pool.QueryRow(ctx,
		`UPDATE sales SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 RETURNING deleted_at`,
		id).Scan(&deletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	return deletedAt, err
}

// attachLineItems loads the line items (with embedded products) for the
// given sales in a single query and distributes them onto the parents.
func (r *repository) attachLineItems(ctx context.Context, sales []Sale) ([]Sale, error) {
	if len(sales) == 0 {
		return sales, nil
	}
	ids := make([]uuid.UUID, len(sales))
	index := make(map[uuid.UUID]int, len(sales))
	for i := range sales {
		sales[i].SaleProducts = []SaleProduct{}
		ids[i] = sales[i].ID
		index[sales[i].ID] = i
	}

	rows, err := r.pool.Query(ctx, `
		SELECT sp.id, sp.sale_id, sp.product_id, sp.quantity,
		       sp.created_at, sp.updated_at, sp.deleted_at,
		       p.id, p.name, p.description, p.price, p.brand,
		       p.created_at, p.updated_at, p.deleted_at
		FROM sale_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.sale_id = ANY($1)
		ORDER BY sp.created_at`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleProduct
		var product products.Product
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
			&product.ID, &product.Name, &product.Description, &product.Price, &product.Brand,
			&product.CreatedAt, &product.UpdatedAt, &product.DeletedAt,
		); err != nil {
			return nil, err
		}
		item.Product = &product
		if i, ok := index[item.SaleID]; ok {
			sales[i].SaleProducts = append(sales[i].SaleProducts, item)
		}
	}
	return sales, rows.Err()
}

func collectSales(rows pgx.Rows) ([]Sale, error) {
	defer rows.Close()
	var result []Sale
	for rows.Next() {
		var s Sale
		var c customers.Customer
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Description, &s.CustomerID, &s.SaleDate,
			&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
			&c.ID, &c.Name, &c.CpfOrCnpj, &c.Email, &c.Phone,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
		); err != nil {
			return nil, err
		}
		s.Customer = &c
		result = append(result, s)
	}
	return result, rows.Err()
}
