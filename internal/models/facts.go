package models

import "time"

// Field names used as keys in InvoiceFacts.FieldConfidences and in the
// index-field maps sent to the document repository.
const (
	FieldTipoFactura   = "TIPO_FACTURA"
	FieldCodigoFactura = "CODIGO_FACTURA"
	FieldNroFactura    = "NRO_FACTURA"
	FieldFechaFactura  = "FECHA_FACTURA"
	FieldCUITCliente   = "CUIT_CLIENTE"
	FieldImporteTotal  = "IMPORTE_TOTAL"
)

// TipoCodigo maps the AFIP invoice type letter to its numeric voucher code.
var TipoCodigo = map[string]string{
	"A": "001",
	"B": "006",
	"E": "019",
}

// CodigoTipo is the inverse of TipoCodigo.
var CodigoTipo = map[string]string{
	"001": "A",
	"006": "B",
	"019": "E",
}

// RawDocumentText is the OCR output for one document. Transient: produced
// once per OCR call and discarded after analysis.
type RawDocumentText struct {
	DocumentID string  `json:"documentId"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language"`
	PageCount  int     `json:"pageCount"`
}

// InvoiceFacts holds the fiscal fields detected on a single document.
// Empty string means the field was not detected. Immutable once built.
type InvoiceFacts struct {
	TipoFactura   string `json:"tipoFactura,omitempty"`
	CodigoFactura string `json:"codigoFactura,omitempty"`
	NroFactura    string `json:"nroFactura,omitempty"`
	FechaFactura  string `json:"fechaFactura,omitempty"`
	CUITCliente   string `json:"cuitCliente,omitempty"`
	ImporteTotal  string `json:"importeTotal,omitempty"`

	// FieldConfidences carries the per-field detection confidence for every
	// field present above. TipoFactura and CodigoFactura share one value.
	FieldConfidences map[string]float64 `json:"fieldConfidences,omitempty"`

	Confianza            float64  `json:"confianza"`
	RequiresManualReview bool     `json:"requiresManualReview"`
	Warnings             []string `json:"warnings,omitempty"`

	AnalyzedAt time.Time `json:"analyzedAt"`
}

// DetectedFieldCount returns how many fiscal fields were detected.
func (f *InvoiceFacts) DetectedFieldCount() int {
	return len(f.FieldConfidences)
}

// IndexFields returns the repository index-field map for the detected
// fields. ImporteTotal is informational only and is never written back.
func (f *InvoiceFacts) IndexFields() map[string]string {
	fields := make(map[string]string)
	if f.TipoFactura != "" {
		fields[FieldTipoFactura] = f.TipoFactura
	}
	if f.CodigoFactura != "" {
		fields[FieldCodigoFactura] = f.CodigoFactura
	}
	if f.NroFactura != "" {
		fields[FieldNroFactura] = f.NroFactura
	}
	if f.FechaFactura != "" {
		fields[FieldFechaFactura] = f.FechaFactura
	}
	if f.CUITCliente != "" {
		fields[FieldCUITCliente] = f.CUITCliente
	}
	return fields
}

// AnalyzeResponse is the single-document analysis result returned by the
// API and the CLI.
type AnalyzeResponse struct {
	Success    bool          `json:"success"`
	DocumentID string        `json:"documentId,omitempty"`
	Facts      *InvoiceFacts `json:"facts,omitempty"`
	OCRMs      int64         `json:"ocrMs,omitempty"`
	Error      string        `json:"error,omitempty"`
}
