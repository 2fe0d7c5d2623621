package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ecinar/fisrecon/internal/entity"
	"github.com/ecinar/fisrecon/internal/money"
)

var (
	// Keyword, optional punctuation, figure, optional currency marker.
	totalRe = regexp.MustCompile(`(?i)(?:TOPLAM|TOTAL|TUTAR|AMOUNT)\s*[:;.]?\s*([0-9]+(?:[.,][0-9]+)*)\s*(?:TL|TRY|₺)?`)

	dateDMYRe = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\b`)
	dateYMDRe = regexp.MustCompile(`\b(\d{4})[./-](\d{1,2})[./-](\d{1,2})\b`)

	// Trailing price at the end of an item candidate line.
	priceTailRe = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*(?:TL|TRY|₺)?\s*$`)

	// Summary rows that must not be misread as items.
	summaryRe = regexp.MustCompile(`(?i)TOPLAM|TOTAL|TUTAR|AMOUNT|ARA ?TOPLAM|SUBTOTAL|KDV|VAT|TAX|MATRAH|NAK[İI]T|PARA ?ÜSTÜ`)
)

// Assumed flat VAT when individual item rates are not recoverable by
// regex alone. Coarser than the per-item decomposition the reconciler
// performs, and deliberately so.
var fallbackFlatTaxRate = decimal.New(18, -2) // 0.18

// Default VAT percentage assigned to regex-extracted items.
var fallbackItemVATRate = decimal.NewFromInt(20)

// FallbackExtractor deterministically extracts merchant name, date,
// total and itemized lines from raw OCR markdown. It is the extraction
// path when no model credential is configured and the recovery path
// when the model adapter fails. It never returns an error.
type FallbackExtractor struct {
	logger *slog.Logger
}

func NewFallbackExtractor(logger *slog.Logger) *FallbackExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackExtractor{logger: logger}
}

func (f *FallbackExtractor) Extract(_ context.Context, markdown string) (entity.ReceiptRecord, error) {
	lines := nonEmptyLines(markdown)

	rec := entity.ReceiptRecord{
		Currency: "TRY",
	}
	if len(lines) > 0 {
		rec.MerchantName = stripMarkup(lines[0])
	}
	rec.Date = findDate(markdown)

	total := findTotal(markdown)
	rec.Items = f.findItems(lines)

	// With no item rows to show, carry the detected (or zero) total on a
	// single placeholder so the reconciler always has something to work on.
	if len(rec.Items) == 0 {
		rec.Items = []entity.LineItem{{
			Description: "Ürün bulunamadı",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   total,
			TotalPrice:  total,
			VATRate:     fallbackItemVATRate,
		}}
	}

	tax := total.Mul(fallbackFlatTaxRate)
	rec.Total = money.Round2(total)
	rec.Tax = money.Round2(tax)
	rec.Subtotal = money.Round2(total.Sub(tax))

	f.logger.Debug("extract.fallback.ok",
		"merchant", rec.MerchantName,
		"date", rec.Date,
		"items", len(rec.Items),
		"total", rec.Total.String(),
	)
	return rec, nil
}

// findItems scans every line except the first (merchant) and the last
// three (summary block) for a trailing-price pattern.
func (f *FallbackExtractor) findItems(lines []string) []entity.LineItem {
	var items []entity.LineItem
	for i := 1; i < len(lines)-3; i++ {
		line := strings.TrimSpace(strings.Trim(strings.TrimSpace(lines[i]), "|"))
		if line == "" {
			continue
		}

		loc := priceTailRe.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		// A trailing year of a date ("15.03.2024") also looks like an
		// integer price; the separator right before it gives it away.
		if start := loc[2]; start > 0 && strings.ContainsRune("./-", rune(line[start-1])) {
			continue
		}

		digit := strings.IndexFunc(line, unicode.IsDigit)
		if digit <= 0 {
			continue
		}
		desc := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[:digit]), ":*"))
		if desc == "" || summaryRe.MatchString(desc) {
			continue
		}

		price, err := money.ParseAmount(line[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			Description: desc,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   price,
			TotalPrice:  price,
			VATRate:     fallbackItemVATRate,
		})
	}
	return items
}

// findTotal returns the first keyword-marked total in the text, or zero.
func findTotal(text string) decimal.Decimal {
	m := totalRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	d, err := money.ParseAmount(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// findDate returns the first date in the text normalized to YYYY-MM-DD,
// or the empty string. Day-first is the common layout on Turkish
// receipts and is tried before year-first.
func findDate(text string) string {
	if m := dateDMYRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	if m := dateYMDRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// stripMarkup removes leading markdown heading/emphasis characters from
// the merchant line.
func stripMarkup(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#* "))
}
