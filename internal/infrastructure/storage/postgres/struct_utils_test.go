package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

type mockDocument struct {
	entity.Document

	CustomerID  id.ID            `db:"customer_id"`
	TotalAmount types.MinorUnits `db:"total_amount"`
	Internal    string           `db:"-"`
	Untagged    string
}

func TestExtractDBColumns_IncludesEmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	// Fields of the embedded base entity and document header.
	for _, expected := range []string{"id", "created_at", "updated_at", "number", "date", "payment_status"} {
		assert.Contains(t, cols, expected)
	}

	// Own fields.
	assert.Contains(t, cols, "customer_id")
	assert.Contains(t, cols, "total_amount")
}

func TestExtractDBColumns_SkipsUntaggedAndExcluded(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Internal")
	assert.NotContains(t, cols, "Untagged")
}

func TestStructToMap_FlattensEmbedded(t *testing.T) {
	doc := mockDocument{
		Document: entity.Document{
			BaseEntity: entity.BaseEntity{
				ID:        id.New(),
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			},
			Number:        "INV-20260901-0007",
			Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			PaymentStatus: entity.PaymentStatusPending,
		},
		CustomerID:  id.New(),
		TotalAmount: 12500,
		Internal:    "never stored",
	}

	m := StructToMap(&doc)

	assert.Equal(t, doc.ID, m["id"])
	assert.Equal(t, "INV-20260901-0007", m["number"])
	assert.Equal(t, entity.PaymentStatusPending, m["payment_status"])
	assert.Equal(t, doc.CustomerID, m["customer_id"])
	assert.Equal(t, types.MinorUnits(12500), m["total_amount"])

	_, hasExcluded := m["-"]
	assert.False(t, hasExcluded)
	assert.NotContains(t, m, "Internal")
}

func TestStructToMap_AcceptsValueAndPointer(t *testing.T) {
	doc := mockDocument{CustomerID: id.New()}

	byValue := StructToMap(doc)
	byPointer := StructToMap(&doc)

	assert.Equal(t, byValue["customer_id"], byPointer["customer_id"])
}
