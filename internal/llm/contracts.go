package llm

import "context"

// LineItemFields mirrors entity.LineItem on the model wire. Money and
// rate fields travel as decimal strings so the JSON schema can
// constrain their format.
type LineItemFields struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity,omitempty"`
	UnitPrice   string `json:"unit_price,omitempty"`
	TotalPrice  string `json:"total_price"`
	VATRate     string `json:"vat_rate,omitempty"`
	Category    string `json:"category,omitempty"`
}

type TaxBreakdownFields struct {
	Rate   string `json:"rate"`
	Base   string `json:"base"`
	Amount string `json:"amount"`
}

// ReceiptFields is the normalized shape we want from the model.
type ReceiptFields struct {
	MerchantName   string `json:"merchant_name"`
	Address        string `json:"address,omitempty"`
	TaxID          string `json:"tax_id,omitempty"`
	TaxOffice      string `json:"tax_office,omitempty"`
	RegistryNumber string `json:"registry_number,omitempty"`

	Date string `json:"date,omitempty"` // YYYY-MM-DD
	Time string `json:"time,omitempty"` // HH:MM

	ReceiptNumber string `json:"receipt_number,omitempty"`
	ZNumber       string `json:"z_number,omitempty"`
	EKUNumber     string `json:"eku_number,omitempty"`
	Cashier       string `json:"cashier,omitempty"`

	Items []LineItemFields `json:"items"`

	Subtotal     string               `json:"subtotal,omitempty"`
	Tax          string               `json:"tax,omitempty"`
	Total        string               `json:"total"`
	TaxBreakdown []TaxBreakdownFields `json:"tax_breakdown,omitempty"`

	TotalInWords  string `json:"total_in_words,omitempty"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

type ExtractRequest struct {
	OCRText         string
	DefaultCurrency string
}

// FieldExtractor is the interface the pipeline's model path depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (ReceiptFields, []byte /*rawJSON*/, error)
}
