package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptFieldsToRecord(t *testing.T) {
	f := ReceiptFields{
		MerchantName:  "CARREFOURSA",
		TaxOffice:     "Kozyatağı",
		TaxID:         "1234567890",
		Date:          "2024-03-15",
		Time:          "14:32",
		ReceiptNumber: "0042",
		Items: []LineItemFields{
			{Description: "SÜT", Quantity: "2", UnitPrice: "35.50", TotalPrice: "71.00", VATRate: "10"},
			{Description: "EKMEK", TotalPrice: "12.50", VATRate: "bad-input"},
		},
		Subtotal:     "75.91",
		Tax:          "7.59",
		Total:        "83.50",
		TotalInWords: "Yalnız Seksen Üç Türk Lirası Elli Kuruş",
		Currency:     "TRY",
	}

	rec := f.ToRecord()
	assert.Equal(t, "CARREFOURSA", rec.MerchantName)
	assert.Equal(t, "Kozyatağı", rec.TaxOffice)
	assert.Equal(t, "2024-03-15", rec.Date)

	require.Len(t, rec.Items, 2)
	assert.Equal(t, "71", rec.Items[0].TotalPrice.String())
	assert.Equal(t, "2", rec.Items[0].Quantity.String())
	assert.Equal(t, "10", rec.Items[0].VATRate.String())
	// unparseable figures collapse to zero for the reconciler to fill
	assert.True(t, rec.Items[1].VATRate.IsZero())
	assert.True(t, rec.Items[1].Quantity.IsZero())

	assert.Equal(t, "83.5", rec.Total.String())
	assert.Equal(t, "TRY", rec.Currency)
	assert.Equal(t, "Yalnız Seksen Üç Türk Lirası Elli Kuruş", rec.TotalInWords)
}

func TestReceiptFieldsToRecordDefaultsCurrency(t *testing.T) {
	rec := ReceiptFields{}.ToRecord()
	assert.Equal(t, "TRY", rec.Currency)
	assert.Empty(t, rec.Items)
}

type stubFieldExtractor struct {
	fields ReceiptFields
	err    error
}

func (s stubFieldExtractor) ExtractFields(context.Context, ExtractRequest) (ReceiptFields, []byte, error) {
	return s.fields, nil, s.err
}

func TestModelExtractorPropagatesError(t *testing.T) {
	m := NewModelExtractor(stubFieldExtractor{err: errors.New("boom")}, nil)
	_, err := m.Extract(context.Background(), "text")
	assert.Error(t, err)
}

func TestModelExtractorConverts(t *testing.T) {
	m := NewModelExtractor(stubFieldExtractor{fields: ReceiptFields{
		MerchantName: "A101",
		Total:        "10.00",
		Currency:     "TRY",
		Items:        []LineItemFields{{Description: "SU", TotalPrice: "10.00"}},
	}}, nil)

	rec, err := m.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "A101", rec.MerchantName)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "10", rec.Items[0].TotalPrice.String())
}
