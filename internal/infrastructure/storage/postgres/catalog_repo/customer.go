package catalog_repo

import (
	"billfold/internal/domain/catalogs/customer"
	"billfold/internal/infrastructure/storage/postgres"
)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

var _ customer.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates the postgres customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			[]string{"name", "email"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}
