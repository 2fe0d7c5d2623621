package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackEndToEndScenario(t *testing.T) {
	text := `# MİGROS TİCARET A.Ş.
SÜT 2 Adet 35,50 71,00
TOPLAM: 71,00
Tarih: 15.03.2024
TEŞEKKÜR EDERİZ`

	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, "MİGROS TİCARET A.Ş.", rec.MerchantName)
	assert.Equal(t, "2024-03-15", rec.Date)
	assert.Equal(t, "TRY", rec.Currency)

	require.Len(t, rec.Items, 1)
	assert.Equal(t, "SÜT", rec.Items[0].Description)
	assert.Equal(t, "71", rec.Items[0].TotalPrice.String())
	assert.Equal(t, "1", rec.Items[0].Quantity.String())
	assert.Equal(t, "20", rec.Items[0].VATRate.String())

	assert.Equal(t, "71", rec.Total.String())
	assert.Equal(t, "12.78", rec.Tax.String())
	assert.Equal(t, "58.22", rec.Subtotal.String())
}

func TestFallbackAlwaysProducesAtLeastOneItem(t *testing.T) {
	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), "Merchant\nNo prices here\nTOPLAM: 0")
	require.NoError(t, err)

	require.Len(t, rec.Items, 1)
	assert.Equal(t, "Ürün bulunamadı", rec.Items[0].Description)
	assert.True(t, rec.Items[0].TotalPrice.IsZero())
	assert.Equal(t, "1", rec.Items[0].Quantity.String())
	assert.True(t, rec.Total.IsZero())
}

func TestFallbackPlaceholderCarriesDetectedTotal(t *testing.T) {
	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), "KAHVE DÜNYASI\nfoo\nbar\nbaz\nTOPLAM: 149,90 TL")
	require.NoError(t, err)

	require.Len(t, rec.Items, 1)
	assert.Equal(t, "Ürün bulunamadı", rec.Items[0].Description)
	assert.Equal(t, "149.9", rec.Items[0].TotalPrice.String())
	assert.Equal(t, "149.9", rec.Total.String())
}

func TestFallbackFirstTotalMatchWins(t *testing.T) {
	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), "Dükkan\nARA TOPLAM: 50,00\nTOPLAM: 60,00")
	require.NoError(t, err)
	assert.Equal(t, "50", rec.Total.String())
}

func TestFallbackMerchantMarkupStripped(t *testing.T) {
	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), "## **ŞOK MARKET**\nTOPLAM 10,00")
	require.NoError(t, err)
	assert.Equal(t, "ŞOK MARKET**", rec.MerchantName)
}

func TestFallbackDateFormats(t *testing.T) {
	f := NewFallbackExtractor(nil)

	rec, _ := f.Extract(context.Background(), "M\n01/02/24 text")
	assert.Equal(t, "2024-02-01", rec.Date)

	rec, _ = f.Extract(context.Background(), "M\nsaw on 2023-11-05 ok")
	assert.Equal(t, "2023-11-05", rec.Date)

	rec, _ = f.Extract(context.Background(), "M\nno date here")
	assert.Equal(t, "", rec.Date)
}

func TestFallbackSkipsSummaryRows(t *testing.T) {
	text := `MARKET
EKMEK 12,50
KDV TUTARI 4,32
TOPLAM 28,82
PEYNİR 16,32
NAKİT 30,00
PARA ÜSTÜ 1,18
SON`

	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), text)
	require.NoError(t, err)

	// EKMEK and PEYNİR are items; KDV/TOPLAM summary rows are not.
	require.Len(t, rec.Items, 2)
	assert.Equal(t, "EKMEK", rec.Items[0].Description)
	assert.Equal(t, "PEYNİR", rec.Items[1].Description)
	assert.Equal(t, "28.82", rec.Total.String())
}

func TestFallbackStripsTablePipes(t *testing.T) {
	text := `RESTORAN
| ÇORBA 45,00 |
| KEBAP 180,00 |
|---|
TOPLAM: 225,00
NAKİT
FİŞ NO: 1`

	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, rec.Items, 2)
	assert.Equal(t, "ÇORBA", rec.Items[0].Description)
	assert.Equal(t, "45", rec.Items[0].TotalPrice.String())
	assert.Equal(t, "KEBAP", rec.Items[1].Description)
}

func TestFallbackEmptyInput(t *testing.T) {
	f := NewFallbackExtractor(nil)
	rec, err := f.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "", rec.MerchantName)
	require.Len(t, rec.Items, 1)
	assert.True(t, rec.Total.IsZero())
}
