package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the doc_sequences counter: one atomic value per
// (kind, day) key, like the UPSERT..RETURNING does in Postgres.
type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
	fail     error
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return &mockRow{err: m.fail}
	}

	kind, _ := args[0].(string)
	day, _ := args[1].(string)
	key := kind + ":" + day
	m.counters[key]++
	return &mockRow{val: m.counters[key]}
}

type staticSource struct {
	q Querier
}

func (s staticSource) Querier(ctx context.Context) Querier { return s.q }

func TestNext_SequentialPerDay(t *testing.T) {
	q := newMockQuerier()
	svc := New(staticSource{q})
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, KindInvoice, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260901-0001" {
		t.Errorf("expected INV-20260901-0001, got %s", num)
	}

	num, err = svc.Next(ctx, KindInvoice, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260901-0002" {
		t.Errorf("expected INV-20260901-0002, got %s", num)
	}
}

func TestNext_IndependentPerKindAndDay(t *testing.T) {
	q := newMockQuerier()
	svc := New(staticSource{q})
	ctx := context.Background()
	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	// Same day, different kinds: counters do not interfere.
	_, _ = svc.Next(ctx, KindInvoice, day1)
	num, err := svc.Next(ctx, KindPurchase, day1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PUR-20260901-0001" {
		t.Errorf("expected PUR-20260901-0001, got %s", num)
	}

	// Next calendar day restarts at 0001.
	num, err = svc.Next(ctx, KindInvoice, day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "INV-20260902-0001" {
		t.Errorf("expected INV-20260902-0001, got %s", num)
	}
}

func TestNext_ConcurrentAllocationsAreDistinct(t *testing.T) {
	q := newMockQuerier()
	svc := New(staticSource{q})
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.Next(ctx, KindInvoice, date)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number allocated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct numbers, got %d", n, len(seen))
	}
}

func TestNext_FallbackOnCounterFailure(t *testing.T) {
	q := newMockQuerier()
	q.fail = errors.New("relation doc_sequences does not exist")
	svc := New(staticSource{q})
	ctx := context.Background()
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.Next(ctx, KindInvoice, date)
	if err != nil {
		t.Fatalf("fallback must not fail document creation: %v", err)
	}
	if !strings.HasPrefix(num, "INV-20260901-") {
		t.Errorf("fallback number must keep prefix and day segments, got %s", num)
	}
	// Timestamp ordinal is much longer than the padded 4 digits.
	if ord := ParseOrdinal(num); ord < 10_000 {
		t.Errorf("expected timestamp ordinal, got %d (from %s)", ord, num)
	}
}

func TestParseOrdinal(t *testing.T) {
	if got := ParseOrdinal("INV-20260901-0042"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := ParseOrdinal("garbage"); got != -1 {
		t.Errorf("expected -1 for unparsable input, got %d", got)
	}
}
