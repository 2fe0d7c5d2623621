package llm

import (
	"sort"
	"strings"
)

// ocrCorrections is the fixed dictionary of known OCR misreadings for
// common Turkish retail terms. The model is told to apply these before
// interpreting the text.
var ocrCorrections = map[string]string{
	"TOPLAN":  "TOPLAM",
	"T0PLAM":  "TOPLAM",
	"TOPLAH":  "TOPLAM",
	"KDU":     "KDV",
	"K0V":     "KDV",
	"KOV":     "KDV",
	"FIS":     "FİŞ",
	"FİS":     "FİŞ",
	"NAKIT":   "NAKİT",
	"MATRAK":  "MATRAH",
	"AD3T":    "ADET",
	"TUTAR1":  "TUTARI",
	"ÜRUN":    "ÜRÜN",
	"URÜN":    "ÜRÜN",
	"TESEKUR": "TEŞEKKÜR",
}

// BuildSystemPrompt composes the fixed extraction policy: field
// correction rules, calculation rules and the Turkish amount-in-words
// convention. These rules are part of the engine's contract and are
// not re-derivable from the schema alone.
func BuildSystemPrompt(req ExtractRequest) string {
	defCur := strings.TrimSpace(req.DefaultCurrency)
	if defCur == "" {
		defCur = "TRY"
	}

	parts := []string{
		"You are a Turkish fiscal receipt and invoice parser. Return ONLY JSON that matches the provided JSON Schema.",
		"Use ISO-8601 dates (YYYY-MM-DD) and 24-hour times (HH:MM).",
		"Currency defaults to " + defCur + " if not printed on the document.",

		// Item rules:
		"Identify the VAT (KDV) rate of every item from context; common Turkish rates are 1%, 8%, 10% and 20%.",
		"Item total_price is the tax-inclusive gross amount as printed.",
		"If unit_price is missing but total_price is present, derive unit_price = total_price / quantity; if quantity is missing, assume 1.",

		// Totals rules:
		"If subtotal, tax or total are missing or illegible, compute them from the items rather than leaving them blank.",
		"The tax_breakdown groups the tax-exclusive base (matrah) and tax amount per distinct KDV rate.",

		// Hygiene:
		"Never invent a merchant name, address, tax id or tax office: if genuinely absent, leave the field empty rather than guessing.",
		"Apply these known OCR misspelling corrections before interpreting the text: " + correctionsLine() + ".",

		// Amount in words:
		"Write total_in_words as a formal Turkish phrase: \"Yalnız {lira amount in words} Türk Lirası {kuruş amount in words} Kuruş\"; omit the kuruş clause when the fractional part is zero.",

		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the OCR markdown, truncated the same way the
// upstream pipeline truncates long documents.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	b.WriteString("OCR text of the scanned document (first ~6k chars):\n")
	ocr := strings.TrimSpace(req.OCRText)
	if len(ocr) > 6000 {
		b.WriteString(ocr[:6000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(ocr)
	}
	return b.String()
}

func correctionsLine() string {
	keys := make([]string, 0, len(ocrCorrections))
	for k := range ocrCorrections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+" -> "+ocrCorrections[k])
	}
	return strings.Join(pairs, ", ")
}
