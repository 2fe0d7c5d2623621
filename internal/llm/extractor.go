package llm

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ecinar/fisrecon/internal/entity"
	"github.com/ecinar/fisrecon/internal/money"
)

// ModelExtractor adapts a FieldExtractor to the pipeline's Extractor
// interface. Any model failure is returned to the caller, which is
// expected to fail over to the regex fallback.
type ModelExtractor struct {
	fields FieldExtractor
	logger *slog.Logger
}

func NewModelExtractor(fields FieldExtractor, logger *slog.Logger) *ModelExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelExtractor{fields: fields, logger: logger}
}

func (m *ModelExtractor) Extract(ctx context.Context, markdown string) (entity.ReceiptRecord, error) {
	fields, _, err := m.fields.ExtractFields(ctx, ExtractRequest{
		OCRText:         markdown,
		DefaultCurrency: "TRY",
	})
	if err != nil {
		return entity.ReceiptRecord{}, err
	}
	return fields.ToRecord(), nil
}

// ToRecord converts the wire DTO into the domain record. Unparseable
// figures collapse to zero; the reconciler substitutes calculated
// values for them.
func (f ReceiptFields) ToRecord() entity.ReceiptRecord {
	items := make([]entity.LineItem, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, entity.LineItem{
			Description: it.Description,
			Quantity:    parseOrZero(it.Quantity),
			UnitPrice:   parseOrZero(it.UnitPrice),
			TotalPrice:  parseOrZero(it.TotalPrice),
			VATRate:     parseOrZero(it.VATRate),
			Category:    it.Category,
		})
	}

	var breakdown []entity.TaxBreakdownEntry
	for _, e := range f.TaxBreakdown {
		breakdown = append(breakdown, entity.TaxBreakdownEntry{
			Rate:   parseOrZero(e.Rate),
			Base:   parseOrZero(e.Base),
			Amount: parseOrZero(e.Amount),
		})
	}

	currency := f.Currency
	if currency == "" {
		currency = "TRY"
	}

	return entity.ReceiptRecord{
		MerchantName:   f.MerchantName,
		Address:        f.Address,
		TaxID:          f.TaxID,
		TaxOffice:      f.TaxOffice,
		RegistryNumber: f.RegistryNumber,
		Date:           f.Date,
		Time:           f.Time,
		ReceiptNumber:  f.ReceiptNumber,
		ZNumber:        f.ZNumber,
		EKUNumber:      f.EKUNumber,
		Cashier:        f.Cashier,
		Items:          items,
		Subtotal:       parseOrZero(f.Subtotal),
		Tax:            parseOrZero(f.Tax),
		Total:          parseOrZero(f.Total),
		TaxBreakdown:   breakdown,
		TotalInWords:   f.TotalInWords,
		Currency:       currency,
		PaymentMethod:  f.PaymentMethod,
	}
}

func parseOrZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := money.ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
