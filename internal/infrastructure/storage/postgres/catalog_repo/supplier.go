package catalog_repo

import (
	"billfold/internal/domain/catalogs/supplier"
	"billfold/internal/infrastructure/storage/postgres"
)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates the postgres supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"suppliers",
			postgres.ExtractDBColumns[supplier.Supplier](),
			[]string{"name", "email"},
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}
