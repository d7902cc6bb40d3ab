package purchases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/balcao-app/balcao/internal/masterdata/products"
	"github.com/balcao-app/balcao/internal/masterdata/suppliers"
	"github.com/balcao-app/balcao/internal/platform/db"
	"github.com/balcao-app/balcao/internal/sales"
)

// ErrSaleProductTaken reports a unique index violation on the active
// purchase line items, i.e. a concurrent purchase won the race for the same
// sale line item.
var ErrSaleProductTaken = errors.New("sale product already purchased")

// Name of the partial unique index on purchase_sale_products(sale_product_id)
// WHERE deleted_at IS NULL.
const activeSaleProductIndex = "purchase_sale_products_active_sale_product_idx"

type Repository interface {
	List(ctx context.Context) ([]Purchase, error)
	Get(ctx context.Context, id uuid.UUID) (*Purchase, error)
	Search(ctx context.Context, query string) ([]Purchase, error)
	FindTaken(ctx context.Context, saleProductIDs []uuid.UUID) ([]TakenSaleProduct, error)
	Create(ctx context.Context, purchase Purchase, items []PurchaseSaleProduct) error
	SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const purchaseSelect = `
	SELECT id, name, description, supplier_id, created_at, updated_at, deleted_at
	FROM purchases`

func (r *repository) List(ctx context.Context) ([]Purchase, error) {
	rows, err := r.pool.Query(ctx, purchaseSelect+` WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	result, err := collectPurchases(rows)
	if err != nil {
		return nil, err
	}
	return r.loadDetails(ctx, result, true)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	rows, err := r.pool.Query(ctx, purchaseSelect+` WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return nil, err
	}
	result, err := collectPurchases(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	result, err = r.loadDetails(ctx, result, false)
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (r *repository) Search(ctx context.Context, query string) ([]Purchase, error) {
	rows, err := r.pool.Query(ctx,
		purchaseSelect+` WHERE deleted_at IS NULL AND name ILIKE $1 ORDER BY created_at DESC`,
		"%"+query+"%")
	if err != nil {
		return nil, err
	}
	result, err := collectPurchases(rows)
	if err != nil {
		return nil, err
	}
	return r.loadDetails(ctx, result, true)
}

// FindTaken returns the requested sale line items that already belong to a
// non-deleted purchase, oldest claim first.
func (r *repository) FindTaken(ctx context.Context, saleProductIDs []uuid.UUID) ([]TakenSaleProduct, error) {
	if len(saleProductIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT psp.sale_product_id, p.name, sp.sale_id
		FROM purchase_sale_products psp
		JOIN purchases pu ON pu.id = psp.purchase_id
		JOIN sale_products sp ON sp.id = psp.sale_product_id
		JOIN products p ON p.id = sp.product_id
		WHERE psp.sale_product_id = ANY($1) AND pu.deleted_at IS NULL
		ORDER BY psp.created_at`, saleProductIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taken []TakenSaleProduct
	for rows.Next() {
		var t TakenSaleProduct
		if err := rows.Scan(&t.SaleProductID, &t.ProductName, &t.SaleID); err != nil {
			return nil, err
		}
		taken = append(taken, t)
	}
	return taken, rows.Err()
}

// Create inserts the purchase header and all line items in one transaction.
// The partial unique index on active line items closes the window between
// the service's conflict pre-check and this insert: losing a race surfaces
// as ErrSaleProductTaken.
func (r *repository) Create(ctx context.Context, purchase Purchase, items []PurchaseSaleProduct) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now()
		_, err := tx.Exec(ctx,
			`INSERT INTO purchases (id, name, description, supplier_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			purchase.ID, purchase.Name, purchase.Description, purchase.SupplierID, now, now)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(
				`INSERT INTO purchase_sale_products (id, purchase_id, sale_product_id, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5)`,
				item.ID, purchase.ID, item.SaleProductID, now, now)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeSaleProductIndex {
			return ErrSaleProductTaken
		}
		return err
	}
	return nil
}

// SoftDelete marks the purchase and its line items deleted, releasing the
// claimed sale line items for future purchases.
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	var deletedAt time.Time
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE purchases SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 RETURNING deleted_at`,
			id).Scan(&deletedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE purchase_sale_products SET deleted_at = NOW(), updated_at = NOW() WHERE purchase_id = $1`,
			id)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	return deletedAt, err
}

// loadDetails fans out over the purchase ids: suppliers and line-item
// details are independent lookups, so they run concurrently.
func (r *repository) loadDetails(ctx context.Context, result []Purchase, withSale bool) ([]Purchase, error) {
	if len(result) == 0 {
		return result, nil
	}
	ids := make([]uuid.UUID, len(result))
	supplierIDs := make([]uuid.UUID, len(result))
	index := make(map[uuid.UUID]int, len(result))
	for i := range result {
		result[i].PurchaseSaleProducts = []PurchaseSaleProduct{}
		ids[i] = result[i].ID
		supplierIDs[i] = result[i].SupplierID
		index[result[i].ID] = i
	}

	var (
		supplierByID map[uuid.UUID]suppliers.Supplier
		lineItems    []PurchaseSaleProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		supplierByID, err = r.loadSuppliers(gctx, supplierIDs)
		return err
	})
	g.Go(func() error {
		var err error
		lineItems, err = r.loadLineItems(gctx, ids, withSale)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range result {
		if s, ok := supplierByID[result[i].SupplierID]; ok {
			supplier := s
			result[i].Supplier = &supplier
		}
	}
	for _, item := range lineItems {
		if i, ok := index[item.PurchaseID]; ok {
			result[i].PurchaseSaleProducts = append(result[i].PurchaseSaleProducts, item)
		}
	}
	return result, nil
}

func (r *repository) loadSuppliers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]suppliers.Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, cnpj, address, created_at, updated_at, deleted_at
		FROM suppliers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]suppliers.Supplier)
	for rows.Next() {
		var s suppliers.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Cnpj, &s.Address, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, err
		}
		byID[s.ID] = s
	}
	return byID, rows.Err()
}

// loadLineItems loads the purchase line items with the referenced sale
// product and its product. When withSale is set, the sale product's parent
// sale is embedded as well (list and search responses carry it).
func (r *repository) loadLineItems(ctx context.Context, purchaseIDs []uuid.UUID, withSale bool) ([]PurchaseSaleProduct, error) {
	query := `
		SELECT psp.id, psp.purchase_id, psp.sale_product_id,
		       psp.created_at, psp.updated_at, psp.deleted_at,
		       sp.id, sp.sale_id, sp.product_id, sp.quantity,
		       sp.created_at, sp.updated_at, sp.deleted_at,
		       p.id, p.name, p.description, p.price, p.brand,
		       p.created_at, p.updated_at, p.deleted_at`
	if withSale {
		query += `,
		       s.id, s.name, s.description, s.customer_id, s.sale_date,
		       s.created_at, s.updated_at, s.deleted_at`
	}
	query += `
		FROM purchase_sale_products psp
		JOIN sale_products sp ON sp.id = psp.sale_product_id
		JOIN products p ON p.id = sp.product_id`
	if withSale {
		query += `
		JOIN sales s ON s.id = sp.sale_id`
	}
	query += `
		WHERE psp.purchase_id = ANY($1)
		ORDER BY psp.created_at`

	rows, err := r.pool.Query(ctx, query, purchaseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PurchaseSaleProduct
	for rows.Next() {
		var (
			item        PurchaseSaleProduct
			saleProduct sales.SaleProduct
			product     products.Product
		)
		dest := []interface{}{
			&item.ID, &item.PurchaseID, &item.SaleProductID,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
			&saleProduct.ID, &saleProduct.SaleID, &saleProduct.ProductID, &saleProduct.Quantity,
			&saleProduct.CreatedAt, &saleProduct.UpdatedAt, &saleProduct.DeletedAt,
			&product.ID, &product.Name, &product.Description, &product.Price, &product.Brand,
			&product.CreatedAt, &product.UpdatedAt, &product.DeletedAt,
		}
		var sale sales.Sale
		if withSale {
			dest = append(dest,
				&sale.ID, &sale.Name, &sale.Description, &sale.CustomerID, &sale.SaleDate,
				&sale.CreatedAt, &sale.UpdatedAt, &sale.DeletedAt)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		saleProduct.Product = &product
		if withSale {
			saleProduct.Sale = &sale
		}
		item.SaleProduct = &saleProduct
		items = append(items, item)
	}
	return items, rows.Err()
}

func collectPurchases(rows pgx.Rows) ([]Purchase, error) {
	defer rows.Close()
	var result []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
