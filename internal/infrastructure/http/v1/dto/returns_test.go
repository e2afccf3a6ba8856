package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
)

func TestToProcessRequest_ParsesLineIDs(t *testing.T) {
	lineID := id.New()
	req := ProcessReturnRequest{
		Items:  []ReturnItemRequest{{InvoiceLineID: lineID.String(), Quantity: 2}},
		Reason: "damaged",
	}

	invoiceID := id.New()
	got, err := req.ToProcessRequest(invoiceID)
	require.NoError(t, err)
	assert.Equal(t, invoiceID, got.InvoiceID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, lineID, got.Items[0].InvoiceLineID)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
}

func TestToProcessRequest_RejectsMalformedLineID(t *testing.T) {
	req := ProcessReturnRequest{
		Items: []ReturnItemRequest{{InvoiceLineID: "not-a-uuid", Quantity: 1}},
	}

	_, err := req.ToProcessRequest(id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "not-a-uuid", appErr.Details["invoiceLineId"])
}
