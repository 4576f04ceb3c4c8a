package detect

import (
	"time"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/services"
)

// Analyzer runs the classifier and every field extractor over one OCR text
// and assembles the resulting InvoiceFacts.
type Analyzer struct {
	reg        *patterns.Registry
	classifier *Classifier
	validator  *services.FactValidator
	now        func() time.Time
}

// NewAnalyzer creates an analyzer over the given registry.
func NewAnalyzer(reg *patterns.Registry) *Analyzer {
	return &Analyzer{
		reg:        reg,
		classifier: NewClassifier(reg),
		validator:  services.NewFactValidator(),
		now:        time.Now,
	}
}

// Analyze detects all fiscal fields using the full tiered cascade. Used by
// the single-document path.
func (a *Analyzer) Analyze(text string) *models.InvoiceFacts {
	detection := a.classifier.Classify(text)
	return a.build(text, detection, detection == nil)
}

// AnalyzeBulk detects all fiscal fields using the stricter uniqueness
// classifier. Used by the bulk path; may legitimately disagree with
// Analyze on ambiguous texts.
func (a *Analyzer) AnalyzeBulk(text string) *models.InvoiceFacts {
	detection, ambiguous := a.classifier.ClassifyUnique(text)
	facts := a.build(text, detection, ambiguous)
	if ambiguous {
		facts.Warnings = append(facts.Warnings, "señales de tipo de factura en conflicto")
	}
	return facts
}

func (a *Analyzer) build(text string, detection *TypeDetection, review bool) *models.InvoiceFacts {
	facts := &models.InvoiceFacts{
		FieldConfidences: make(map[string]float64),
		AnalyzedAt:       a.now(),
	}

	if detection != nil {
		facts.TipoFactura = detection.Letter
		facts.CodigoFactura = detection.Code
		// Letter and code are mutually derivable, so the auto-completed
		// half carries the same confidence as the detected one.
		facts.FieldConfidences[models.FieldTipoFactura] = detection.Confidence
		facts.FieldConfidences[models.FieldCodigoFactura] = detection.Confidence
	}

	if m := ExtractNumber(a.reg, text); m != nil {
		facts.NroFactura = m.Value
		facts.FieldConfidences[models.FieldNroFactura] = m.Confidence
	}
	if m := ExtractDate(a.reg, text, a.now()); m != nil {
		facts.FechaFactura = m.Value
		facts.FieldConfidences[models.FieldFechaFactura] = m.Confidence
	}
	if m := ExtractClientCUIT(a.reg, text); m != nil {
		facts.CUITCliente = m.Value
		facts.FieldConfidences[models.FieldCUITCliente] = m.Confidence
		if m.Review {
			facts.RequiresManualReview = true
			facts.Warnings = append(facts.Warnings, "un solo CUIT en el documento; posible CUIT del emisor")
		}
	}
	if m := ExtractTotalAmount(a.reg, text); m != nil {
		facts.ImporteTotal = m.Value
		facts.FieldConfidences[models.FieldImporteTotal] = m.Confidence
	}

	if review {
		facts.RequiresManualReview = true
	}

	validation := a.validator.Validate(facts)
	for _, e := range validation.Errors {
		facts.Warnings = append(facts.Warnings, e.Message)
	}
	for _, w := range validation.Warnings {
		facts.Warnings = append(facts.Warnings, w.Message)
	}
	if !validation.Valid || validation.NeedsReview {
		facts.RequiresManualReview = true
	}

	facts.Confianza = AggregateConfidence(facts.FieldConfidences)
	return facts
}
