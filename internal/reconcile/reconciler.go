// Package reconcile restores arithmetic consistency between a receipt's
// line items and its totals. Upstream extraction (model or regex)
// frequently returns zero or omits subtotal/tax/total on low-quality
// scans while the line items themselves survive, so the items are
// treated as the source of truth and missing figures are recomputed
// from them.
package reconcile

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ecinar/fisrecon/internal/entity"
	"github.com/ecinar/fisrecon/internal/money"
)

type Reconciler struct {
	logger *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// rateBucket accumulates unrounded base and tax per VAT rate.
type rateBucket struct {
	rate   decimal.Decimal
	base   decimal.Decimal
	amount decimal.Decimal
}

// Reconcile returns a copy of rec whose subtotal, tax, total and tax
// breakdown are consistent with its line items.
//
// Record-supplied totals are kept only when strictly positive; zero or
// missing figures are replaced by the values calculated via
// tax-inclusive decomposition of each item. The record's own breakdown
// is kept only when non-empty; a partial upstream breakdown is never
// merged with the computed one. With no items there is no basis to
// recompute and rec is returned unchanged. The function never fails:
// malformed numeric fields degrade to defaults.
func (r *Reconciler) Reconcile(rec entity.ReceiptRecord) entity.ReceiptRecord {
	if len(rec.Items) == 0 {
		return rec
	}

	var calcSubtotal, calcTax, calcTotal decimal.Decimal
	buckets := make(map[int64]*rateBucket)
	items := make([]entity.LineItem, 0, len(rec.Items))

	for _, it := range rec.Items {
		gross := money.Amount(it.TotalPrice)
		rate := money.Rate(it.VATRate)
		taxAmount, baseAmount := money.Decompose(gross, rate)

		calcSubtotal = calcSubtotal.Add(baseAmount)
		calcTax = calcTax.Add(taxAmount)
		calcTotal = calcTotal.Add(gross)

		key := money.RateKey(rate)
		b, ok := buckets[key]
		if !ok {
			b = &rateBucket{rate: rate}
			buckets[key] = b
		}
		b.base = b.base.Add(baseAmount)
		b.amount = b.amount.Add(taxAmount)

		items = append(items, entity.LineItem{
			Description: it.Description,
			Quantity:    money.Quantity(it.Quantity),
			UnitPrice:   money.Round2(money.Amount(it.UnitPrice)),
			TotalPrice:  money.Round2(gross),
			VATRate:     rate,
			Category:    it.Category,
		})
	}

	out := rec
	out.Items = items
	out.Subtotal = money.Round2(money.PositiveOr(rec.Subtotal, calcSubtotal))
	out.Tax = money.Round2(money.PositiveOr(rec.Tax, calcTax))
	out.Total = money.Round2(money.PositiveOr(rec.Total, calcTotal))
	out.TaxBreakdown = r.resolveBreakdown(rec.TaxBreakdown, buckets)

	r.logger.Debug("reconcile.ok",
		"items", len(items),
		"rates", len(buckets),
		"subtotal", out.Subtotal.String(),
		"tax", out.Tax.String(),
		"total", out.Total.String(),
		"subtotal_overridden", rec.Subtotal.Sign() <= 0,
		"tax_overridden", rec.Tax.Sign() <= 0,
		"total_overridden", rec.Total.Sign() <= 0,
	)
	return out
}

// resolveBreakdown keeps a non-empty upstream breakdown as-is apart
// from output rounding; otherwise it builds one from the per-rate
// buckets, ordered by ascending rate.
func (r *Reconciler) resolveBreakdown(supplied []entity.TaxBreakdownEntry, buckets map[int64]*rateBucket) []entity.TaxBreakdownEntry {
	if len(supplied) > 0 {
		out := make([]entity.TaxBreakdownEntry, 0, len(supplied))
		for _, e := range supplied {
			out = append(out, entity.TaxBreakdownEntry{
				Rate:   money.Rate(e.Rate),
				Base:   money.Round2(money.Amount(e.Base)),
				Amount: money.Round2(money.Amount(e.Amount)),
			})
		}
		return out
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]entity.TaxBreakdownEntry, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, entity.TaxBreakdownEntry{
			Rate:   b.rate,
			Base:   money.Round2(b.base),
			Amount: money.Round2(b.amount),
		})
	}
	return out
}
