package detect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestExtractNumber_Labeled(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractNumber(reg, "Nro: 00723-0019175")
	require.NotNil(t, m)
	assert.Equal(t, "00723-0019175", m.Value)
	assert.Equal(t, 0.95, m.Confidence)
}

func TestExtractNumber_Bare(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractNumber(reg, "comprobante 00723-0019175 original")
	require.NotNil(t, m)
	assert.Equal(t, "00723-0019175", m.Value)
	assert.Equal(t, 0.92, m.Confidence)
}

func TestExtractNumber_SpacedSeparator(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractNumber(reg, "recibo 00723 - 0019175 duplicado")
	require.NotNil(t, m)
	assert.Equal(t, "00723-0019175", m.Value, "whitespace stripped from the value")
	assert.Equal(t, 0.88, m.Confidence)
}

func TestExtractNumber_ShapeRejected(t *testing.T) {
	reg := patterns.NewRegistry()

	// Too few digits on either side never yields a match.
	assert.Nil(t, ExtractNumber(reg, "nro: 1234-567"))
	assert.Nil(t, ExtractNumber(reg, "sin numero"))
}

func TestExtractDate_Labeled(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractDate(reg, "Fecha: 11/04/2025", testNow)
	require.NotNil(t, m)
	assert.Equal(t, "11/04/2025", m.Value)
	assert.Equal(t, 0.95, m.Confidence)
}

func TestExtractDate_NormalizesSingleDigits(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractDate(reg, "emitida el 5/3/2024", testNow)
	require.NotNil(t, m)
	assert.Equal(t, "05/03/2024", m.Value)
	assert.Equal(t, 0.90, m.Confidence)
}

func TestExtractDate_AlternateSeparators(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractDate(reg, "vto 15-03-2024", testNow)
	require.NotNil(t, m)
	assert.Equal(t, "15/03/2024", m.Value)
	assert.Equal(t, 0.85, m.Confidence)

	m = ExtractDate(reg, "vto 15.03.2024", testNow)
	require.NotNil(t, m)
	assert.Equal(t, "15/03/2024", m.Value)
}

func TestExtractDate_ImpossibleDateSkipped(t *testing.T) {
	reg := patterns.NewRegistry()

	// 32/13 normalizes under time.Date; the round trip rejects it and
	// scanning continues to the next candidate.
	m := ExtractDate(reg, "32/13/2024 corregida a 15/03/2024", testNow)
	require.NotNil(t, m)
	assert.Equal(t, "15/03/2024", m.Value)
}

func TestExtractDate_OutOfRangeRejected(t *testing.T) {
	reg := patterns.NewRegistry()

	assert.Nil(t, ExtractDate(reg, "fecha: 01/01/2015", testNow), "older than the floor")
	assert.Nil(t, ExtractDate(reg, "fecha: 01/01/2030", testNow), "more than a year ahead")
}

func TestExtractClientCUIT_SecondDistinctWins(t *testing.T) {
	reg := patterns.NewRegistry()

	text := "CUIT: 30-12345678-9\nSeñor cliente CUIT: 20-98765432-1"
	m := ExtractClientCUIT(reg, text)
	require.NotNil(t, m)
	assert.Equal(t, "20-98765432-1", m.Value)
	assert.Equal(t, 0.95, m.Confidence)
	assert.False(t, m.Review)
}

func TestExtractClientCUIT_DocumentOrderAcrossVariants(t *testing.T) {
	reg := patterns.NewRegistry()

	// The issuer's id was OCR'd without dashes, so a later pattern variant
	// matches it. Document position still decides which id is second.
	text := "Emisor CUIT 30123456789\nSeñor cliente CUIT: 20-98765432-1"
	m := ExtractClientCUIT(reg, text)
	require.NotNil(t, m)
	assert.Equal(t, "20-98765432-1", m.Value)
	assert.Equal(t, 0.95, m.Confidence)
	assert.False(t, m.Review)

	// Reversed roles: the dashed id comes first, the bare one second.
	text = "Emisor CUIT 30-12345678-9\nCliente: 20987654321"
	m = ExtractClientCUIT(reg, text)
	require.NotNil(t, m)
	assert.Equal(t, "20-98765432-1", m.Value)
	assert.Equal(t, 0.80, m.Confidence)
}

func TestExtractClientCUIT_DuplicatesCollapse(t *testing.T) {
	reg := patterns.NewRegistry()

	// The same id repeated counts once, so this is a single-CUIT document.
	text := "CUIT 30-12345678-9 ... CUIT 30-12345678-9"
	m := ExtractClientCUIT(reg, text)
	require.NotNil(t, m)
	assert.Equal(t, "30-12345678-9", m.Value)
	assert.True(t, m.Review)
}

func TestExtractClientCUIT_SinglePenalized(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractClientCUIT(reg, "emisor CUIT 30-12345678-9")
	require.NotNil(t, m)
	assert.Equal(t, "30-12345678-9", m.Value)
	assert.InDelta(t, 0.75, m.Confidence, 1e-9)
	assert.True(t, m.Review)
}

func TestExtractClientCUIT_UndashedNormalized(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractClientCUIT(reg, "identificación 30123456789")
	require.NotNil(t, m)
	assert.Equal(t, "30-12345678-9", m.Value)
	// Single occurrence: 0.80 base minus the penalty.
	assert.InDelta(t, 0.60, m.Confidence, 1e-9)
	assert.True(t, m.Review)
}

func TestExtractClientCUIT_None(t *testing.T) {
	reg := patterns.NewRegistry()

	assert.Nil(t, ExtractClientCUIT(reg, "documento sin identificación fiscal"))
}

func TestExtractTotalAmount_ArgentineFormat(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractTotalAmount(reg, "TOTAL: $ 1.234.567,89")
	require.NotNil(t, m)
	assert.Equal(t, "1234567.89", m.Value)
	assert.Equal(t, 0.90, m.Confidence)
}

func TestExtractTotalAmount_ImporteLabel(t *testing.T) {
	reg := patterns.NewRegistry()

	m := ExtractTotalAmount(reg, "Importe: 500,50")
	require.NotNil(t, m)
	assert.Equal(t, "500.50", m.Value)
	assert.Equal(t, 0.80, m.Confidence)
}

func TestExtractTotalAmount_RejectsNonPositive(t *testing.T) {
	reg := patterns.NewRegistry()

	assert.Nil(t, ExtractTotalAmount(reg, "TOTAL: 0,00"))
	assert.Nil(t, ExtractTotalAmount(reg, "sin importes"))
}
