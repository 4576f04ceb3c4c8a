package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ValidationWarning represents a non-critical issue
type ValidationWarning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	NeedsReview bool                `json:"needs_review"`
	Errors      []ValidationError   `json:"errors"`
	Warnings    []ValidationWarning `json:"warnings"`
}

// FactValidator cross-checks detected Argentine invoice fields. Detection
// confidence says how sure the patterns were; validation says whether the
// values themselves are coherent.
type FactValidator struct {
	now func() time.Time
}

// NewFactValidator creates a validator
func NewFactValidator() *FactValidator {
	return &FactValidator{now: time.Now}
}

var (
	cuitFormat   = regexp.MustCompile(`^\d{2}-\d{8}-\d$`)
	numberFormat = regexp.MustCompile(`^\d{5}-\d{7,8}$`)
)

// cuitWeights are the mod-11 check digit weights for the first ten digits.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// cuitPrefixes are the AFIP-assigned leading pairs for CUIT/CUIL numbers.
var cuitPrefixes = map[string]bool{
	"20": true, "23": true, "24": true, "27": true, // personas físicas
	"30": true, "33": true, "34": true, // personas jurídicas
}

// Validate performs all cross-validations on detected invoice facts
func (v *FactValidator) Validate(facts *models.InvoiceFacts) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	v.validateTipoCodigo(facts, result)
	v.validateNumero(facts, result)
	v.validateCUIT(facts, result)
	v.validateImporte(facts, result)

	result.Valid = len(result.Errors) == 0
	result.NeedsReview = len(result.Warnings) > 0

	return result
}

// validateTipoCodigo checks the type letter and voucher code agree
func (v *FactValidator) validateTipoCodigo(facts *models.InvoiceFacts, result *ValidationResult) {
	if facts.TipoFactura == "" || facts.CodigoFactura == "" {
		return
	}
	if models.TipoCodigo[facts.TipoFactura] != facts.CodigoFactura {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "codigoFactura",
			Code:    "tipo_codigo_mismatch",
			Message: fmt.Sprintf("tipo %s no corresponde al código %s", facts.TipoFactura, facts.CodigoFactura),
		})
	}
}

// validateNumero checks the invoice number shape
func (v *FactValidator) validateNumero(facts *models.InvoiceFacts, result *ValidationResult) {
	if facts.NroFactura == "" {
		return
	}
	if !numberFormat.MatchString(facts.NroFactura) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "nroFactura",
			Code:    "numero_invalid_format",
			Message: "número de factura debe tener formato 00000-00000000",
		})
	}
}

// validateCUIT checks format, the AFIP prefix and the mod-11 check digit
func (v *FactValidator) validateCUIT(facts *models.InvoiceFacts, result *ValidationResult) {
	if facts.CUITCliente == "" {
		return
	}
	if !cuitFormat.MatchString(facts.CUITCliente) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "cuitCliente",
			Code:    "cuit_invalid_format",
			Message: "CUIT debe tener formato 00-00000000-0",
		})
		return
	}

	if !cuitPrefixes[facts.CUITCliente[0:2]] {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "cuitCliente",
			Code:    "cuit_unknown_prefix",
			Message: "Prefijo de CUIT no reconocido: " + facts.CUITCliente[0:2],
		})
	}

	// OCR confuses similar digits, so a failed check digit is a strong
	// misread signal. Warning rather than error: the field may still be
	// useful to a human reviewer.
	if !checkDigitOK(facts.CUITCliente) {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "cuitCliente",
			Code:    "cuit_check_digit",
			Message: "Dígito verificador de CUIT no coincide; posible error de OCR",
		})
	}
}

// validateImporte checks the total parses and is positive
func (v *FactValidator) validateImporte(facts *models.InvoiceFacts, result *ValidationResult) {
	if facts.ImporteTotal == "" {
		return
	}
	amount, err := decimal.NewFromString(facts.ImporteTotal)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "importeTotal",
			Code:    "importe_invalid",
			Message: "importe total no es un monto válido",
		})
		return
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "importeTotal",
			Code:    "importe_not_positive",
			Message: "importe total debe ser mayor que cero",
		})
	}
}

// checkDigitOK verifies the AFIP mod-11 check digit of a normalized CUIT.
func checkDigitOK(cuit string) bool {
	digits := make([]int, 0, 11)
	for _, r := range cuit {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}

	sum := 0
	for i, w := range cuitWeights {
		sum += digits[i] * w
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		// AFIP never assigns CUITs whose check would be 10
		return false
	}
	return check == digits[10]
}
