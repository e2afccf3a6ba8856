package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain"
	"billfold/internal/domain/inventory"
	"billfold/internal/domain/payments"
	"billfold/pkg/numerator"
)

// Mock objects

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInvoiceRepo struct {
	docs         map[id.ID]*Invoice
	lines        map[id.ID][]Line
	saveLinesErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		docs:  make(map[id.ID]*Invoice),
		lines: make(map[id.ID][]Line),
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, doc *Invoice) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	return doc, nil
}

func (f *fakeInvoiceRepo) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	for _, doc := range f.docs {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("invoice", number)
}

func (f *fakeInvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return f.lines[docID], nil
}

func (f *fakeInvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	if f.saveLinesErr != nil {
		return f.saveLinesErr
	}
	f.lines[docID] = lines
	return nil
}

func (f *fakeInvoiceRepo) DeleteLines(ctx context.Context, docID id.ID) error {
	delete(f.lines, docID)
	return nil
}

func (f *fakeInvoiceRepo) DeleteHeader(ctx context.Context, docID id.ID) error {
	if _, ok := f.docs[docID]; !ok {
		return apperror.NewNotFound("invoice", docID.String())
	}
	delete(f.docs, docID)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	result := domain.ListResult[*Invoice]{}
	for _, doc := range f.docs {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeStockRepo struct {
	stocks map[id.ID]int64
}

func (f *fakeStockRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	f.stocks[productID] += delta
	return f.stocks[productID], nil
}

type fakeLedgerStore struct {
	payments []payments.Payment
}

func (f *fakeLedgerStore) Insert(ctx context.Context, p *payments.Payment) error {
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeLedgerStore) SumByDocument(ctx context.Context, ref payments.DocumentRef) (types.MinorUnits, error) {
	var sum types.MinorUnits
	for _, p := range f.payments {
		if p.DocumentID == ref.ID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (f *fakeLedgerStore) ListByDocument(ctx context.Context, ref payments.DocumentRef) ([]payments.Payment, error) {
	var out []payments.Payment
	for _, p := range f.payments {
		if p.DocumentID == ref.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) DeleteByDocument(ctx context.Context, ref payments.DocumentRef) error {
	kept := f.payments[:0]
	for _, p := range f.payments {
		if p.DocumentID != ref.ID {
			kept = append(kept, p)
		}
	}
	f.payments = kept
	return nil
}

// fakeLedgerDocs serves document summaries straight from the invoice repo, so
// payments recorded during invoice creation see the freshly inserted header.
type fakeLedgerDocs struct {
	repo *fakeInvoiceRepo
}

func (f *fakeLedgerDocs) Get(ctx context.Context, ref payments.DocumentRef) (payments.DocumentSummary, error) {
	doc, ok := f.repo.docs[ref.ID]
	if !ok {
		return payments.DocumentSummary{}, apperror.NewNotFound("document", ref.ID.String())
	}
	return payments.DocumentSummary{
		ID:            doc.ID,
		Number:        doc.Number,
		TotalAmount:   doc.TotalAmount,
		PaymentStatus: doc.PaymentStatus,
	}, nil
}

func (f *fakeLedgerDocs) GetForUpdate(ctx context.Context, ref payments.DocumentRef) (payments.DocumentSummary, error) {
	return f.Get(ctx, ref)
}

func (f *fakeLedgerDocs) SetPaymentStatus(ctx context.Context, ref payments.DocumentRef, status entity.PaymentStatus) error {
	doc, ok := f.repo.docs[ref.ID]
	if !ok {
		return apperror.NewNotFound("document", ref.ID.String())
	}
	doc.PaymentStatus = status
	return nil
}

// seqQuerier mimics the doc_sequences counter table.
type seqRow struct {
	val int64
}

func (r *seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct {
	counters map[string]int64
}

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	kind, _ := args[0].(string)
	day, _ := args[1].(string)
	q.counters[kind+":"+day]++
	return &seqRow{val: q.counters[kind+":"+day]}
}

func (q *seqQuerier) Querier(ctx context.Context) numerator.Querier { return q }

type invoiceFixture struct {
	svc    *Service
	repo   *fakeInvoiceRepo
	stocks *fakeStockRepo
	ledger *fakeLedgerStore
}

func newFixture() *invoiceFixture {
	repo := newFakeInvoiceRepo()
	stocks := &fakeStockRepo{stocks: make(map[id.ID]int64)}
	ledgerStore := &fakeLedgerStore{}
	txm := stubTxManager{}

	ledger := payments.NewService(ledgerStore, &fakeLedgerDocs{repo: repo}, txm, nil)
	num := numerator.New(&seqQuerier{counters: make(map[string]int64)})
	svc := NewService(repo, inventory.NewService(stocks), ledger, num, txm, nil)

	return &invoiceFixture{svc: svc, repo: repo, stocks: stocks, ledger: ledgerStore}
}

func TestCreate_TotalsAndStock(t *testing.T) {
	fx := newFixture()
	p1, p2 := id.New(), id.New()
	fx.stocks.stocks[p1] = 10
	fx.stocks.stocks[p2] = 10

	inv := New(id.New())
	inv.AddLine(p1, 3, 500, decimal.NewFromInt(10))
	inv.AddLine(p2, 1, 1000, decimal.Zero)

	require.NoError(t, fx.svc.Create(context.Background(), inv))

	// 3*500 net, 10% tax on the first line only.
	assert.Equal(t, types.MinorUnits(2500), inv.Subtotal)
	assert.Equal(t, types.MinorUnits(150), inv.TaxAmount)
	assert.Equal(t, types.MinorUnits(2650), inv.TotalAmount)
	assert.Equal(t, entity.PaymentStatusPending, inv.PaymentStatus)

	assert.Equal(t, int64(7), fx.stocks.stocks[p1])
	assert.Equal(t, int64(9), fx.stocks.stocks[p2])

	stored, err := fx.svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 2)
}

func TestCreate_GeneratesSequentialNumbers(t *testing.T) {
	fx := newFixture()
	productID := id.New()

	first := New(id.New())
	first.AddLine(productID, 1, 100, decimal.Zero)
	require.NoError(t, fx.svc.Create(context.Background(), first))

	second := New(id.New())
	second.Date = first.Date
	second.AddLine(productID, 1, 100, decimal.Zero)
	require.NoError(t, fx.svc.Create(context.Background(), second))

	day := first.Date.UTC().Format("20060102")
	assert.Equal(t, "INV-"+day+"-0001", first.Number)
	assert.Equal(t, "INV-"+day+"-0002", second.Number)
}

func TestCreate_KeepsExplicitNumber(t *testing.T) {
	fx := newFixture()

	inv := New(id.New())
	inv.Number = "INV-20260901-9999"
	inv.AddLine(id.New(), 1, 100, decimal.Zero)

	require.NoError(t, fx.svc.Create(context.Background(), inv))
	assert.Equal(t, "INV-20260901-9999", inv.Number)
}

func TestCreate_PaidOnCreation(t *testing.T) {
	fx := newFixture()
	productID := id.New()
	fx.stocks.stocks[productID] = 5

	start := time.Now().UTC()
	inv := New(id.New())
	inv.Date = start.AddDate(0, 0, -30)
	inv.AddLine(productID, 2, 1000, decimal.Zero)
	inv.PaidOnCreation = true
	inv.PaymentMethod = "cash"

	require.NoError(t, fx.svc.Create(context.Background(), inv))

	assert.Equal(t, entity.PaymentStatusPaid, inv.PaymentStatus)
	require.Len(t, fx.ledger.payments, 1)
	assert.Equal(t, types.MinorUnits(2000), fx.ledger.payments[0].Amount)
	assert.Equal(t, "cash", fx.ledger.payments[0].Method)
	assert.Equal(t, inv.ID, fx.ledger.payments[0].DocumentID)
	// The payment is stamped with the recording time, not the backdated
	// document date.
	assert.False(t, fx.ledger.payments[0].Date.Before(start))
}

func TestCreate_PaidOnCreationRequiresMethod(t *testing.T) {
	fx := newFixture()

	inv := New(id.New())
	inv.AddLine(id.New(), 1, 100, decimal.Zero)
	inv.PaidOnCreation = true

	err := fx.svc.Create(context.Background(), inv)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreate_ValidationRunsBeforeWrites(t *testing.T) {
	fx := newFixture()
	productID := id.New()
	fx.stocks.stocks[productID] = 5

	inv := New(id.New())
	// No lines: rejected before anything is stored or adjusted.
	err := fx.svc.Create(context.Background(), inv)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, fx.repo.docs)
	assert.Equal(t, int64(5), fx.stocks.stocks[productID])
}

func TestCreate_StopsOnLineFailure(t *testing.T) {
	fx := newFixture()
	productID := id.New()
	fx.stocks.stocks[productID] = 5
	fx.repo.saveLinesErr = errors.New("constraint violation")

	inv := New(id.New())
	inv.AddLine(productID, 2, 100, decimal.Zero)

	err := fx.svc.Create(context.Background(), inv)
	require.Error(t, err)
	// Stock adjustment and payment recording never ran.
	assert.Equal(t, int64(5), fx.stocks.stocks[productID])
	assert.Empty(t, fx.ledger.payments)
}

func TestDelete_RestoresStockAndRemovesPayments(t *testing.T) {
	fx := newFixture()
	productID := id.New()
	fx.stocks.stocks[productID] = 10

	inv := New(id.New())
	inv.AddLine(productID, 4, 250, decimal.Zero)
	inv.PaidOnCreation = true
	inv.PaymentMethod = "card"
	require.NoError(t, fx.svc.Create(context.Background(), inv))
	require.Equal(t, int64(6), fx.stocks.stocks[productID])
	require.Len(t, fx.ledger.payments, 1)

	require.NoError(t, fx.svc.Delete(context.Background(), inv.ID))

	assert.Equal(t, int64(10), fx.stocks.stocks[productID])
	assert.Empty(t, fx.ledger.payments)
	_, err := fx.svc.GetByID(context.Background(), inv.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_UnknownInvoiceFailsFast(t *testing.T) {
	fx := newFixture()

	err := fx.svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
