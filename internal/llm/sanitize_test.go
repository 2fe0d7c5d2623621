package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndSanitizeJSONCoercesMoney(t *testing.T) {
	raw := []byte(`{
		"merchant_name": "  A101  ",
		"currency": "try",
		"total": 71,
		"subtotal": "58,22",
		"tax": null,
		"items": [
			{"description": "SÜT", "total_price": 71.0, "vat_rate": 10, "extra": true}
		],
		"reasoning": "should be removed"
	}`)

	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Equal(t, "A101", m["merchant_name"])
	assert.Equal(t, "TRY", m["currency"])
	assert.Equal(t, "71.00", m["total"])
	assert.Equal(t, "58.22", m["subtotal"])
	_, hasTax := m["tax"]
	assert.False(t, hasTax)
	_, hasReasoning := m["reasoning"]
	assert.False(t, hasReasoning)

	items := m["items"].([]any)
	require.Len(t, items, 1)
	it := items[0].(map[string]any)
	assert.Equal(t, "71.00", it["total_price"])
	assert.Equal(t, "10.00", it["vat_rate"])
	_, hasExtra := it["extra"]
	assert.False(t, hasExtra)

	assert.Contains(t, dropped, "tax(null)")
	assert.Contains(t, dropped, "reasoning(unknown)")
	assert.Contains(t, dropped, "items.extra(unknown)")
}

func TestNormalizeAndSanitizeJSONDropsNegatives(t *testing.T) {
	raw := []byte(`{"total": -5, "subtotal": "-1.00", "items": []}`)
	out, dropped, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	_, hasTotal := m["total"]
	assert.False(t, hasTotal)
	_, hasSubtotal := m["subtotal"]
	assert.False(t, hasSubtotal)
	assert.Contains(t, dropped, "total(negative)")
	assert.Contains(t, dropped, "subtotal(invalid)")
}

func TestNormalizeAndSanitizeJSONRejectsNonObject(t *testing.T) {
	_, _, err := NormalizeAndSanitizeJSON([]byte(`[]`), nil)
	assert.Error(t, err)
}

func TestSanitizedOutputValidates(t *testing.T) {
	// The pair of sanitize + validate is what the client relies on: a
	// response with numeric money must validate after normalization.
	raw := []byte(`{
		"merchant_name": "BİM",
		"currency": "TRY",
		"total": 120,
		"items": [{"description": "PİRİNÇ", "total_price": 120, "vat_rate": 1}]
	}`)
	schema := BuildReceiptJSONSchema()

	require.Error(t, ValidateJSONAgainstSchema(schema, raw))

	cleaned, _, err := NormalizeAndSanitizeJSON(raw, nil)
	require.NoError(t, err)
	require.NoError(t, ValidateJSONAgainstSchema(schema, cleaned))
}
