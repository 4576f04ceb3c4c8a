// Package patterns holds the compiled text patterns used by the fiscal
// field detectors. The registry is built once at process start and never
// mutated, so it is safe for concurrent reads without synchronization.
package patterns

import (
	"fmt"
	"regexp"
)

// Letters are the AFIP invoice type letters, probed in this fixed order.
var Letters = []string{"A", "B", "E"}

// LetterCodes pairs each type letter with its voucher code.
var LetterCodes = map[string]string{"A": "001", "B": "006", "E": "019"}

// TypeRule is one entry of the invoice-type cascade: a single compiled
// pattern for one (tier, letter) combination. Rules are evaluated in slice
// order, so the cascade stays an ordered rule list instead of nested
// branching.
type TypeRule struct {
	Tier       int
	Tag        string
	Letter     string
	Code       string
	Confidence float64
	Re         *regexp.Regexp
}

// FieldPattern is one ordered extraction attempt for a scalar field. The
// first capture group holds the candidate value.
type FieldPattern struct {
	Tag        string
	Confidence float64
	Re         *regexp.Regexp
}

// DatePattern is a FieldPattern variant with three capture groups
// (day, month, year).
type DatePattern struct {
	Tag        string
	Confidence float64
	Re         *regexp.Regexp
}

// Registry is the immutable compiled-pattern table.
type Registry struct {
	// Type holds tiers 1-7 of the classifier cascade, ordered by tier and
	// by letter (A, B, E) within each tier. Tier 8 (correlation fallback)
	// counts IsolatedLetter/IsolatedCode occurrences instead.
	Type []TypeRule

	IsolatedLetter map[string]*regexp.Regexp
	IsolatedCode   map[string]*regexp.Regexp

	Number []FieldPattern
	Date   []DatePattern
	CUIT   []FieldPattern
	Amount []FieldPattern
}

// tierTemplates expand into one TypeRule per letter. %[1]s is the letter,
// %[2]s its voucher code. Order is significant: earlier tiers are more
// specific and win outright.
var tierTemplates = []struct {
	tier int
	tag  string
	conf float64
	expr string
}{
	{1, "grupo", 0.98, `GRUPO\s+%[1]s\b[\s\S]{0,80}?\bCOD(?:IGO)?\.?\s*(?:N\s*[°º]?\s*)?%[2]s\b`},
	{2, "letra-factura", 0.96, `\b%[1]s\s+FACTURA\b[\s\S]{0,120}?\b%[2]s\b`},
	{3, "ventana", 0.92, `\b%[1]s\b[\s\S]{0,30}\b%[2]s\b|\b%[2]s\b[\s\S]{0,30}\b%[1]s\b`},
	{4, "misma-linea", 0.95, `\b%[1]s[ \t]*-?[ \t]*%[2]s\b`},
	{5, "lineas-separadas", 0.90, `\b%[1]s[ \t]*\r?\n[ \t]*%[2]s\b`},
	{6, "flexible", 0.88, `\b%[1]s\b\s{1,10}%[2]s\b`},
	{7, "proximidad", 0.82, `\b%[1]s\b[\s\S]{0,100}\b%[2]s\b|\b%[2]s\b[\s\S]{0,100}\b%[1]s\b`},
}

// CorrelationConfidence is the tier-8 fallback confidence.
const CorrelationConfidence = 0.75

// NewRegistry compiles the full pattern table. Call once from the
// composition root; the result is read-only.
func NewRegistry() *Registry {
	r := &Registry{
		IsolatedLetter: make(map[string]*regexp.Regexp, len(Letters)),
		IsolatedCode:   make(map[string]*regexp.Regexp, len(Letters)),
	}

	for _, t := range tierTemplates {
		for _, letter := range Letters {
			r.Type = append(r.Type, TypeRule{
				Tier:       t.tier,
				Tag:        t.tag,
				Letter:     letter,
				Code:       LetterCodes[letter],
				Confidence: t.conf,
				Re:         regexp.MustCompile(fmt.Sprintf(t.expr, letter, LetterCodes[letter])),
			})
		}
	}

	for _, letter := range Letters {
		code := LetterCodes[letter]
		r.IsolatedLetter[letter] = regexp.MustCompile(`\b` + letter + `\b`)
		r.IsolatedCode[code] = regexp.MustCompile(`\b` + code + `\b`)
	}

	// Invoice number: 5 digits, separator, 7-8 digits. Ordered by
	// specificity; the first pattern yielding a shape-valid match wins.
	r.Number = []FieldPattern{
		{"numero-etiquetado", 0.95, regexp.MustCompile(`(?:NRO\.?|N\s*[°º]|N[UÚ]MERO)\s*:?\s*(\d{5}\s*-\s*\d{7,8})`)},
		{"directo", 0.92, regexp.MustCompile(`\b(\d{5}-\d{7,8})\b`)},
		{"espacios", 0.88, regexp.MustCompile(`\b(\d{5}\s*-\s*\d{7,8})\b`)},
		{"contexto-factura", 0.85, regexp.MustCompile(`FACTURA[\s\S]{0,40}?(\d{5}\s*-\s*\d{7,8})`)},
		{"contexto-comprobante", 0.85, regexp.MustCompile(`COMP(?:\.|ROBANTE)?[\s\S]{0,40}?(\d{5}\s*-\s*\d{7,8})`)},
	}

	// Invoice date: captures (day, month, year).
	r.Date = []DatePattern{
		{"fecha-etiquetada", 0.95, regexp.MustCompile(`FECHA(?:\s+DE\s+EMISI[OÓ]N)?\s*:?\s*(\d{1,2})/(\d{1,2})/(\d{4})`)},
		{"directa", 0.90, regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)},
		{"espacios", 0.85, regexp.MustCompile(`(\d{1,2})\s*/\s*(\d{1,2})\s*/\s*(\d{4})`)},
		{"guiones", 0.85, regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)},
		{"puntos", 0.85, regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)},
	}

	// CUIT: all variants are collected, not first-match.
	r.CUIT = []FieldPattern{
		{"canonico", 0.95, regexp.MustCompile(`\b(\d{2}-\d{8}-\d)\b`)},
		{"espacios", 0.90, regexp.MustCompile(`\b(\d{2}\s*-\s*\d{8}\s*-\s*\d)\b`)},
		{"sin-guiones", 0.80, regexp.MustCompile(`\b(\d{11})\b`)},
		{"etiquetado", 0.92, regexp.MustCompile(`C\.?U\.?I\.?T\.?\s*:?\s*N?\s*[°º]?\s*:?\s*(\d{2}[-\s]?\d{8}[-\s]?\d)`)},
	}

	// Total amount, Argentine number format (1.234.567,89).
	r.Amount = []FieldPattern{
		{"total-etiquetado", 0.90, regexp.MustCompile(`TOTAL(?:\s+A\s+PAGAR)?\s*:?\s*\$?\s*([\d.]+(?:,\d{1,2})?)`)},
		{"importe-etiquetado", 0.80, regexp.MustCompile(`IMPORTE\s*:?\s*\$?\s*([\d.]+(?:,\d{1,2})?)`)},
	}

	return r
}
