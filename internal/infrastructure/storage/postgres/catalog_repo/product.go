package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/domain/catalogs/product"
	"billfold/internal/domain/inventory"
	"billfold/internal/infrastructure/storage/postgres"
)

// ProductRepo implements product.Repository and inventory.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var (
	_ product.Repository   = (*ProductRepo)(nil)
	_ inventory.Repository = (*ProductRepo)(nil)
)

// NewProductRepo creates the postgres product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"products",
			postgres.ExtractDBColumns[product.Product](),
			[]string{"name", "sku"},
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetBySKU retrieves a product by its SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*product.Product, error) {
	entity := &product.Product{}

	q := r.baseSelect().
		Where(squirrel.Eq{"sku": sku}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("products", sku)
		}
		return nil, fmt.Errorf("get by sku: %w", err)
	}
	return entity, nil
}

// AdjustStock applies a signed relative delta to the product's stock level in
// one statement. No floor is enforced; the caller decides what a negative
// result means.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	const sql = `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING stock_quantity`

	var newQuantity int64
	err := r.querier(ctx).QueryRow(ctx, sql, delta, productID).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NewNotFound("products", productID.String())
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	return newQuantity, nil
}
