package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecinar/fisrecon/internal/entity"
)

type stubExtractor struct {
	rec entity.ReceiptRecord
	err error
}

func (s stubExtractor) Extract(context.Context, string) (entity.ReceiptRecord, error) {
	return s.rec, s.err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProcessReconcilesModelOutput(t *testing.T) {
	// The model's arithmetic is never final: zero totals are replaced by
	// values recomputed from the items.
	model := stubExtractor{rec: entity.ReceiptRecord{
		MerchantName: "MİGROS",
		Currency:     "TRY",
		Items: []entity.LineItem{
			{Description: "SÜT", Quantity: dec("1"), UnitPrice: dec("100"), TotalPrice: dec("100"), VATRate: dec("20")},
		},
	}}

	p := NewProcessor(nil, model, nil, nil)
	out := p.Process(context.Background(), "irrelevant")

	assert.Equal(t, "MİGROS", out.MerchantName)
	assert.Equal(t, "100", out.Total.String())
	assert.Equal(t, "16.67", out.Tax.String())
	assert.Equal(t, "83.33", out.Subtotal.String())
}

func TestProcessFailsOverToFallback(t *testing.T) {
	model := stubExtractor{err: errors.New("schema validation failed")}

	p := NewProcessor(nil, model, nil, nil)
	out := p.Process(context.Background(), "KASAP DÜKKANI\nKIYMA 450,00\nfoo\nTOPLAM: 450,00\nNAKİT\nFİŞ")

	// The fallback extracted the document; the model error never
	// surfaced.
	assert.Equal(t, "KASAP DÜKKANI", out.MerchantName)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "KIYMA", out.Items[0].Description)
	assert.Equal(t, "450", out.Total.String())
}

func TestProcessWithoutModelUsesFallback(t *testing.T) {
	p := NewProcessor(nil, nil, nil, nil)
	out := p.Process(context.Background(), "BAKKAL\nEKMEK 12,50\nfoo\nTOPLAM: 12,50\nNAKİT\nSON")

	assert.Equal(t, "BAKKAL", out.MerchantName)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "12.5", out.Total.String())
	// flat fallback approximation, rounded at output
	assert.Equal(t, "2.25", out.Tax.String())
	assert.Equal(t, "10.25", out.Subtotal.String())
}
