package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var topLevelKeys = map[string]struct{}{
	"merchant_name": {}, "address": {}, "tax_id": {}, "tax_office": {},
	"registry_number": {}, "date": {}, "time": {}, "receipt_number": {},
	"z_number": {}, "eku_number": {}, "cashier": {}, "items": {},
	"subtotal": {}, "tax": {}, "total": {}, "tax_breakdown": {},
	"total_in_words": {}, "currency": {}, "payment_method": {},
}

var itemKeys = map[string]struct{}{
	"description": {}, "quantity": {}, "unit_price": {}, "total_price": {},
	"vat_rate": {}, "category": {},
}

var breakdownKeys = map[string]struct{}{
	"rate": {}, "base": {}, "amount": {},
}

// NormalizeAndSanitizeJSON makes a model response validate against the
// strict schema without touching anything the model got right:
//   - numeric money values are reformatted as 2-decimal strings
//   - null / empty / negative money fields are dropped
//   - unknown keys are removed (additionalProperties is false)
//   - obvious strings are trimmed, currency is uppercased
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var dropped []string

	for _, k := range []string{"subtotal", "tax", "total"} {
		coerceMoney(m, k, &dropped)
	}

	if v, ok := m["currency"].(string); ok {
		m["currency"] = strings.ToUpper(strings.TrimSpace(v))
	}

	if items, ok := m["items"].([]any); ok {
		clean := make([]any, 0, len(items))
		for i, it := range items {
			im, ok := it.(map[string]any)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("items[%d](type)", i))
				continue
			}
			for _, k := range []string{"quantity", "unit_price", "total_price", "vat_rate"} {
				coerceMoney(im, k, &dropped)
			}
			dropUnknown(im, itemKeys, "items", &dropped)
			trimStrings(im, "description", "category")
			clean = append(clean, im)
		}
		m["items"] = clean
	}

	if bd, ok := m["tax_breakdown"].([]any); ok {
		clean := make([]any, 0, len(bd))
		for i, e := range bd {
			em, ok := e.(map[string]any)
			if !ok {
				dropped = append(dropped, fmt.Sprintf("tax_breakdown[%d](type)", i))
				continue
			}
			for _, k := range []string{"rate", "base", "amount"} {
				coerceMoney(em, k, &dropped)
			}
			dropUnknown(em, breakdownKeys, "tax_breakdown", &dropped)
			clean = append(clean, em)
		}
		m["tax_breakdown"] = clean
	}

	dropUnknown(m, topLevelKeys, "", &dropped)
	trimStrings(m, "merchant_name", "address", "date", "time", "total_in_words", "payment_method")

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// coerceMoney rewrites m[k] as a non-negative 2-decimal string, or
// deletes it when that is impossible.
func coerceMoney(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		if t < 0 {
			delete(m, k)
			*dropped = append(*dropped, k+"(negative)")
			return
		}
		m[k] = strconv.FormatFloat(t, 'f', 2, 64)
	case string:
		s := strings.TrimSpace(t)
		s = strings.ReplaceAll(s, ",", ".")
		if s == "" || strings.EqualFold(s, "null") {
			delete(m, k)
			*dropped = append(*dropped, k+"(empty)")
			return
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			delete(m, k)
			*dropped = append(*dropped, k+"(invalid)")
			return
		}
		m[k] = strconv.FormatFloat(f, 'f', 2, 64)
	case nil:
		delete(m, k)
		*dropped = append(*dropped, k+"(null)")
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}

func dropUnknown(m map[string]any, allowed map[string]struct{}, prefix string, dropped *[]string) {
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			label := k
			if prefix != "" {
				label = prefix + "." + k
			}
			*dropped = append(*dropped, label+"(unknown)")
		}
	}
}

func trimStrings(m map[string]any, keys ...string) {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			m[k] = strings.TrimSpace(v)
		}
	}
}
