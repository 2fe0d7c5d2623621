package llm

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map. We pass this to the model as a structured output
// constraint and also use it locally to validate the response.
func BuildReceiptJSONSchema() map[string]any {
	itemProps := map[string]any{
		"description": map[string]any{"type": "string", "minLength": 1},
		"quantity":    quantityProp(),
		"unit_price":  decimalProp(),
		"total_price": decimalProp(),
		"vat_rate":    decimalProp(),
		"category":    map[string]any{"type": "string"},
	}
	itemSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           itemProps,
		"required":             []string{"description", "total_price"},
	}

	breakdownSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"rate":   decimalProp(),
			"base":   decimalProp(),
			"amount": decimalProp(),
		},
		"required": []string{"rate", "base", "amount"},
	}

	props := map[string]any{
		"merchant_name":   map[string]any{"type": "string"},
		"address":         map[string]any{"type": "string"},
		"tax_id":          map[string]any{"type": "string"},
		"tax_office":      map[string]any{"type": "string"},
		"registry_number": map[string]any{"type": "string"},
		"date":            map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"time":            map[string]any{"type": "string", "pattern": `^\d{2}:\d{2}$`},
		"receipt_number":  map[string]any{"type": "string"},
		"z_number":        map[string]any{"type": "string"},
		"eku_number":      map[string]any{"type": "string"},
		"cashier":         map[string]any{"type": "string"},
		"items":           map[string]any{"type": "array", "items": itemSchema},
		"subtotal":        decimalProp(),
		"tax":             decimalProp(),
		"total":           decimalProp(),
		"tax_breakdown":   map[string]any{"type": "array", "items": breakdownSchema},
		"total_in_words":  map[string]any{"type": "string"},
		"currency":        map[string]any{"type": "string", "minLength": 1},
		"payment_method":  map[string]any{"type": "string"},
	}

	// Totals may be illegible on the document; the prompt instructs the
	// model to compute them from items, so only the skeleton is required.
	required := []string{"merchant_name", "items", "total", "currency"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`,
	}
}

func quantityProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,3})?$`,
	}
}
