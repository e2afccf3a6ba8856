package returns

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/domain/inventory"
)

// Mock objects

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInvoiceSource struct {
	invoice *invoice.Invoice
}

func (f *fakeInvoiceSource) GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	if f.invoice == nil || f.invoice.ID != docID {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	return f.invoice, nil
}

func (f *fakeInvoiceSource) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	return f.invoice.Lines, nil
}

type fakeReturnRepo struct {
	returns map[id.ID]*SalesReturn
	lines   map[id.ID][]Line
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{
		returns: make(map[id.ID]*SalesReturn),
		lines:   make(map[id.ID][]Line),
	}
}

func (f *fakeReturnRepo) Create(ctx context.Context, ret *SalesReturn) error {
	f.returns[ret.ID] = ret
	return nil
}

func (f *fakeReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []Line) error {
	f.lines[returnID] = lines
	return nil
}

func (f *fakeReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*SalesReturn, error) {
	ret, ok := f.returns[returnID]
	if !ok {
		return nil, apperror.NewNotFound("sales_return", returnID.String())
	}
	return ret, nil
}

func (f *fakeReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]Line, error) {
	return f.lines[returnID], nil
}

func (f *fakeReturnRepo) ListByInvoice(ctx context.Context, invoiceID id.ID) ([]SalesReturn, error) {
	var out []SalesReturn
	for _, ret := range f.returns {
		if ret.InvoiceID == invoiceID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (f *fakeReturnRepo) SumReturnedByLine(ctx context.Context, invoiceID id.ID) (map[id.ID]int64, error) {
	sums := make(map[id.ID]int64)
	for _, ret := range f.returns {
		if ret.InvoiceID != invoiceID {
			continue
		}
		for _, line := range f.lines[ret.ID] {
			sums[line.InvoiceLineID] += line.Quantity
		}
	}
	return sums, nil
}

type fakeStockRepo struct {
	stocks map[id.ID]int64
	err    error
}

func (f *fakeStockRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.stocks[productID] += delta
	return f.stocks[productID], nil
}

type returnsFixture struct {
	svc     *Service
	repo    *fakeReturnRepo
	stocks  *fakeStockRepo
	invoice *invoice.Invoice
}

// newFixture builds a sold invoice with two lines: 5 units at 200 and
// 3 units at 1000.
func newFixture() *returnsFixture {
	inv := invoice.New(id.New())
	inv.AddLine(id.New(), 5, 200, decimal.Zero)
	inv.AddLine(id.New(), 3, 1000, decimal.Zero)

	repo := newFakeReturnRepo()
	stocks := &fakeStockRepo{stocks: make(map[id.ID]int64)}
	svc := NewService(repo, &fakeInvoiceSource{invoice: inv}, inventory.NewService(stocks), stubTxManager{}, nil)

	return &returnsFixture{svc: svc, repo: repo, stocks: stocks, invoice: inv}
}

func TestProcess_RestoresStockAndComputesTotal(t *testing.T) {
	fx := newFixture()
	line1 := fx.invoice.Lines[0]
	line2 := fx.invoice.Lines[1]

	ret, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items: []Item{
			{InvoiceLineID: line1.LineID, Quantity: 2},
			{InvoiceLineID: line2.LineID, Quantity: 1},
		},
		Reason: "damaged in transit",
	})
	require.NoError(t, err)

	// 2*200 + 1*1000, at the original unit prices.
	assert.Equal(t, types.MinorUnits(1400), ret.TotalAmount)
	require.Len(t, ret.Lines, 2)
	assert.Equal(t, line1.ProductID, ret.Lines[0].ProductID)
	assert.Equal(t, types.MinorUnits(200), ret.Lines[0].UnitPrice)

	// Returned units go back to stock.
	assert.Equal(t, int64(2), fx.stocks.stocks[line1.ProductID])
	assert.Equal(t, int64(1), fx.stocks.stocks[line2.ProductID])
}

func TestProcess_NeverMutatesInvoice(t *testing.T) {
	fx := newFixture()
	totalBefore := fx.invoice.TotalAmount
	statusBefore := fx.invoice.PaymentStatus
	qtyBefore := fx.invoice.Lines[0].Quantity

	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, totalBefore, fx.invoice.TotalAmount)
	assert.Equal(t, statusBefore, fx.invoice.PaymentStatus)
	assert.Equal(t, qtyBefore, fx.invoice.Lines[0].Quantity)
}

func TestProcess_RejectsQuantityOverSold(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 6}},
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeReturnExceedsSold, appErr.Code)
	assert.Empty(t, fx.repo.returns)
	assert.Empty(t, fx.stocks.stocks)
}

func TestProcess_BoundShrinksWithEachReturn(t *testing.T) {
	fx := newFixture()
	lineID := fx.invoice.Lines[0].LineID
	ctx := context.Background()

	_, err := fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: lineID, Quantity: 3}},
	})
	require.NoError(t, err)

	// 2 of 5 remain returnable: 3 is over the bound.
	_, err = fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: lineID, Quantity: 3}},
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeReturnExceedsSold, appErr.Code)

	// The remaining 2 are fine, after which the line is exhausted.
	_, err = fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: lineID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: lineID, Quantity: 1}},
	})
	require.Error(t, err)
}

func TestProcess_RepeatedLineSharesOneBound(t *testing.T) {
	fx := newFixture()
	lineID := fx.invoice.Lines[0].LineID

	// 4+4 against 5 sold: each item alone fits, together they do not.
	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items: []Item{
			{InvoiceLineID: lineID, Quantity: 4},
			{InvoiceLineID: lineID, Quantity: 4},
		},
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeReturnExceedsSold, appErr.Code)
	assert.Empty(t, fx.repo.returns)
	assert.Empty(t, fx.stocks.stocks)

	// Split items within the bound still pass.
	ret, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items: []Item{
			{InvoiceLineID: lineID, Quantity: 2},
			{InvoiceLineID: lineID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, types.MinorUnits(1000), ret.TotalAmount)
}

func TestProcess_RejectsForeignLine(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: id.New(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, fx.repo.returns)
}

func TestProcess_RejectsUnknownInvoice(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: id.New(),
		Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProcess_RejectsBadItems(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.svc.Process(ctx, ProcessRequest{InvoiceID: fx.invoice.ID})
	assert.True(t, apperror.IsValidation(err))

	_, err = fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 0}},
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = fx.svc.Process(ctx, ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: id.ID{}, Quantity: 1}},
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestProcess_WholeReturnRejectedOnFirstViolation(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items: []Item{
			{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 1},
			{InvoiceLineID: fx.invoice.Lines[1].LineID, Quantity: 99},
		},
	})
	require.Error(t, err)
	assert.Empty(t, fx.repo.returns)
	assert.Empty(t, fx.stocks.stocks)
}

func TestGetByID_IncludesLines(t *testing.T) {
	fx := newFixture()

	created, err := fx.svc.Process(context.Background(), ProcessRequest{
		InvoiceID: fx.invoice.ID,
		Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := fx.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Lines, 1)
}

func TestListByInvoice(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.svc.Process(ctx, ProcessRequest{
			InvoiceID: fx.invoice.ID,
			Items:     []Item{{InvoiceLineID: fx.invoice.Lines[0].LineID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	list, err := fx.svc.ListByInvoice(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
