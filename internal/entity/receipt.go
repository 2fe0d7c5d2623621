package entity

import "github.com/shopspring/decimal"

// LineItem represents a single row on a fiscal receipt or invoice.
// TotalPrice is the authoritative tax-inclusive gross amount; the
// reconciler derives base and tax from it and never recomputes it
// from Quantity × UnitPrice.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	VATRate     decimal.Decimal `json:"vat_rate"` // percentage, e.g. 1, 10, 20
	Category    string          `json:"category,omitempty"`
}

// TaxBreakdownEntry groups the tax-exclusive base (matrah) and tax
// amount for one VAT rate present among the line items.
type TaxBreakdownEntry struct {
	Rate   decimal.Decimal `json:"rate"`
	Base   decimal.Decimal `json:"base"`
	Amount decimal.Decimal `json:"amount"`
}

// ReceiptRecord is the reconciled output for one scanned document.
// It is built once from extracted text, passed through the reconciler
// exactly once, and read-only afterwards.
type ReceiptRecord struct {
	MerchantName   string `json:"merchant_name"`
	Address        string `json:"address,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`          // VKN
	TaxOffice      string `json:"tax_office,omitempty"`      // vergi dairesi
	RegistryNumber string `json:"registry_number,omitempty"` // sicil no

	Date string `json:"date,omitempty"` // YYYY-MM-DD
	Time string `json:"time,omitempty"` // HH:MM

	ReceiptNumber string `json:"receipt_number,omitempty"`
	ZNumber       string `json:"z_number,omitempty"`
	EKUNumber     string `json:"eku_number,omitempty"` // fiscal memory no
	Cashier       string `json:"cashier,omitempty"`

	Items []LineItem `json:"items"`

	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	Total        decimal.Decimal     `json:"total"`
	TaxBreakdown []TaxBreakdownEntry `json:"tax_breakdown,omitempty"`

	TotalInWords  string `json:"total_in_words,omitempty"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method,omitempty"`
}
