package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

// Mock objects

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePaymentRepo struct {
	payments   []Payment
	insertErr  error
	deletedRef *DocumentRef
}

func (f *fakePaymentRepo) Insert(ctx context.Context, p *Payment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakePaymentRepo) SumByDocument(ctx context.Context, ref DocumentRef) (types.MinorUnits, error) {
	var sum types.MinorUnits
	for _, p := range f.payments {
		if p.DocumentKind == ref.Kind && p.DocumentID == ref.ID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (f *fakePaymentRepo) ListByDocument(ctx context.Context, ref DocumentRef) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.DocumentKind == ref.Kind && p.DocumentID == ref.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) DeleteByDocument(ctx context.Context, ref DocumentRef) error {
	f.deletedRef = &ref
	kept := f.payments[:0]
	for _, p := range f.payments {
		if p.DocumentKind != ref.Kind || p.DocumentID != ref.ID {
			kept = append(kept, p)
		}
	}
	f.payments = kept
	return nil
}

type fakeDocumentStore struct {
	docs      map[id.ID]*DocumentSummary
	lockCalls int
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[id.ID]*DocumentSummary)}
}

func (f *fakeDocumentStore) add(total types.MinorUnits) DocumentRef {
	docID := id.New()
	f.docs[docID] = &DocumentSummary{
		ID:            docID,
		Number:        "INV-20260901-0001",
		TotalAmount:   total,
		PaymentStatus: entity.PaymentStatusPending,
	}
	return DocumentRef{Kind: entity.DocumentKindInvoice, ID: docID}
}

func (f *fakeDocumentStore) Get(ctx context.Context, ref DocumentRef) (DocumentSummary, error) {
	doc, ok := f.docs[ref.ID]
	if !ok {
		return DocumentSummary{}, apperror.NewNotFound("document", ref.ID.String())
	}
	return *doc, nil
}

func (f *fakeDocumentStore) GetForUpdate(ctx context.Context, ref DocumentRef) (DocumentSummary, error) {
	f.lockCalls++
	return f.Get(ctx, ref)
}

func (f *fakeDocumentStore) SetPaymentStatus(ctx context.Context, ref DocumentRef, status entity.PaymentStatus) error {
	doc, ok := f.docs[ref.ID]
	if !ok {
		return apperror.NewNotFound("document", ref.ID.String())
	}
	doc.PaymentStatus = status
	return nil
}

func newLedger(repo *fakePaymentRepo, docs *fakeDocumentStore) *Service {
	return NewService(repo, docs, stubTxManager{}, nil)
}

func TestRecord_PartialThenPaid(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)
	ctx := context.Background()

	receipt, err := svc.Record(ctx, RecordRequest{Ref: ref, Amount: 400, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, receipt.NewStatus)
	assert.Equal(t, types.MinorUnits(400), receipt.TotalPaid)
	assert.Equal(t, types.MinorUnits(600), receipt.RemainingBalance)

	receipt, err = svc.Record(ctx, RecordRequest{Ref: ref, Amount: 400, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPartial, receipt.NewStatus)
	assert.Equal(t, types.MinorUnits(200), receipt.RemainingBalance)

	receipt, err = svc.Record(ctx, RecordRequest{Ref: ref, Amount: 200, Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, receipt.NewStatus)
	assert.Equal(t, types.MinorUnits(0), receipt.RemainingBalance)

	assert.Equal(t, entity.PaymentStatusPaid, docs.docs[ref.ID].PaymentStatus)
	assert.Len(t, repo.payments, 3)
	assert.Equal(t, 3, docs.lockCalls)
}

func TestRecord_RejectsOverpayment(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordRequest{Ref: ref, Amount: 800, Method: "cash"})
	require.NoError(t, err)

	// Remaining is 200, so 300 must be rejected and nothing recorded.
	_, err = svc.Record(ctx, RecordRequest{Ref: ref, Amount: 300, Method: "cash"})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodePaymentExceedsBalance, appErr.Code)
	assert.Len(t, repo.payments, 1)
	assert.Equal(t, entity.PaymentStatusPartial, docs.docs[ref.ID].PaymentStatus)

	// The exact remaining amount is fine.
	receipt, err := svc.Record(ctx, RecordRequest{Ref: ref, Amount: 200, Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, receipt.NewStatus)
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)

	for _, amount := range []types.MinorUnits{0, -50} {
		_, err := svc.Record(context.Background(), RecordRequest{Ref: ref, Amount: amount, Method: "cash"})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
	assert.Empty(t, repo.payments)
}

func TestRecord_RejectsCancelledDocument(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	docs.docs[ref.ID].PaymentStatus = entity.PaymentStatusCancelled
	svc := newLedger(repo, docs)

	_, err := svc.Record(context.Background(), RecordRequest{Ref: ref, Amount: 100, Method: "cash"})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeDocumentCancelled, appErr.Code)
	assert.Empty(t, repo.payments)
}

func TestRecord_RejectsUnknownDocument(t *testing.T) {
	svc := newLedger(&fakePaymentRepo{}, newFakeDocumentStore())
	ref := DocumentRef{Kind: entity.DocumentKindInvoice, ID: id.New()}

	_, err := svc.Record(context.Background(), RecordRequest{Ref: ref, Amount: 100, Method: "cash"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecord_DefaultsDateToNow(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)

	before := time.Now().UTC()
	receipt, err := svc.Record(context.Background(), RecordRequest{Ref: ref, Amount: 100, Method: "cash"})
	require.NoError(t, err)
	assert.False(t, receipt.Payment.Date.Before(before))
}

func TestGetHistory(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordRequest{Ref: ref, Amount: 300, Method: "cash"})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordRequest{Ref: ref, Amount: 200, Method: "card"})
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, ref)
	require.NoError(t, err)
	assert.Len(t, history.Payments, 2)
	assert.Equal(t, types.MinorUnits(500), history.TotalPaid)
	assert.Equal(t, types.MinorUnits(500), history.RemainingBalance)
	assert.Equal(t, entity.PaymentStatusPartial, history.PaymentStatus)

	// Reads must not touch the row lock.
	locksBefore := docs.lockCalls
	_, err = svc.GetHistory(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, locksBefore, docs.lockCalls)
}

func TestCancel_IsIdempotent(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, ref))
	assert.Equal(t, entity.PaymentStatusCancelled, docs.docs[ref.ID].PaymentStatus)

	// Second cancel is a no-op, not an error.
	require.NoError(t, svc.Cancel(ctx, ref))
	assert.Equal(t, entity.PaymentStatusCancelled, docs.docs[ref.ID].PaymentStatus)
}

func TestRemoveForDocument(t *testing.T) {
	repo := &fakePaymentRepo{}
	docs := newFakeDocumentStore()
	ref := docs.add(1000)
	svc := newLedger(repo, docs)
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordRequest{Ref: ref, Amount: 500, Method: "cash"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveForDocument(ctx, ref))
	assert.Empty(t, repo.payments)
	require.NotNil(t, repo.deletedRef)
	assert.Equal(t, ref, *repo.deletedRef)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		paid      types.MinorUnits
		total     types.MinorUnits
		current   entity.PaymentStatus
		expected  entity.PaymentStatus
	}{
		{"nothing paid", 0, 1000, entity.PaymentStatusPending, entity.PaymentStatusPending},
		{"partially paid", 400, 1000, entity.PaymentStatusPending, entity.PaymentStatusPartial},
		{"fully paid", 1000, 1000, entity.PaymentStatusPartial, entity.PaymentStatusPaid},
		{"overpaid still paid", 1200, 1000, entity.PaymentStatusPartial, entity.PaymentStatusPaid},
		{"zero total never paid", 0, 0, entity.PaymentStatusPending, entity.PaymentStatusPending},
		{"cancelled is terminal", 1000, 1000, entity.PaymentStatusCancelled, entity.PaymentStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStatus(tt.paid, tt.total, tt.current))
		})
	}
}
