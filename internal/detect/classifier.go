// Package detect implements the fiscal field detectors for scanned
// Argentine invoices: the invoice-type classifier cascade and the
// individual field extractors with per-pattern confidence scoring.
package detect

import (
	"strings"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
)

// TypeDetection is the chosen invoice-type candidate: which strategy
// matched, the letter/code pair and the strategy's confidence.
type TypeDetection struct {
	Letter     string
	Code       string
	Confidence float64
	Tier       int
	Tag        string
}

// Classifier detects the invoice type letter (A/B/E) and its voucher code
// from raw OCR text. It has no side effects and is safe for concurrent use.
type Classifier struct {
	reg *patterns.Registry
}

// NewClassifier creates a classifier over the given pattern registry.
func NewClassifier(reg *patterns.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Classify runs the 8-tier cascade, most specific tier first. Within a
// tier the letters are probed in A, B, E order and the first tier that
// produces any match terminates the cascade. Returns nil when even the
// correlation fallback finds nothing.
func (c *Classifier) Classify(text string) *TypeDetection {
	upper := strings.ToUpper(text)

	// Tiers 1-7 are a flat, ordered rule list (tier-major, letter-minor),
	// so a linear scan preserves the cascade semantics exactly.
	for _, rule := range c.reg.Type {
		if rule.Re.MatchString(upper) {
			return &TypeDetection{
				Letter:     rule.Letter,
				Code:       rule.Code,
				Confidence: rule.Confidence,
				Tier:       rule.Tier,
				Tag:        rule.Tag,
			}
		}
	}

	// Tier 8: correlation fallback. Accept when an isolated letter and its
	// isolated code each occur at least once anywhere in the text.
	for _, letter := range patterns.Letters {
		code := patterns.LetterCodes[letter]
		letters := len(c.reg.IsolatedLetter[letter].FindAllStringIndex(upper, -1))
		codes := len(c.reg.IsolatedCode[code].FindAllStringIndex(upper, -1))
		if letters >= 1 && codes >= 1 {
			return &TypeDetection{
				Letter:     letter,
				Code:       code,
				Confidence: patterns.CorrelationConfidence,
				Tier:       8,
				Tag:        "correlacion",
			}
		}
	}

	return nil
}

// Confidences of the uniqueness-based variant: both sides unique and in
// agreement, or only one side present.
const (
	uniquePairConfidence   = 0.90
	uniqueSingleConfidence = 0.80
)

// ClassifyUnique is the stricter variant used by the bulk path. Instead of
// tier cascading it counts isolated occurrences of every letter and every
// code: a detection is accepted only when exactly one letter type and/or
// exactly one code type is present in the whole text. When both sides are
// unique but name different types, the text is ambiguous and the second
// return value is true. The missing half of an accepted detection is
// auto-completed from the letter/code map.
func (c *Classifier) ClassifyUnique(text string) (*TypeDetection, bool) {
	upper := strings.ToUpper(text)

	var presentLetters, presentCodes []string
	for _, letter := range patterns.Letters {
		if c.reg.IsolatedLetter[letter].MatchString(upper) {
			presentLetters = append(presentLetters, letter)
		}
		code := patterns.LetterCodes[letter]
		if c.reg.IsolatedCode[code].MatchString(upper) {
			presentCodes = append(presentCodes, code)
		}
	}

	var uniqueLetter, uniqueCode string
	if len(presentLetters) == 1 {
		uniqueLetter = presentLetters[0]
	}
	if len(presentCodes) == 1 {
		uniqueCode = presentCodes[0]
	}

	switch {
	case uniqueLetter != "" && uniqueCode != "":
		if patterns.LetterCodes[uniqueLetter] != uniqueCode {
			// Letter and code disagree about which type is unique.
			return nil, true
		}
		return &TypeDetection{
			Letter:     uniqueLetter,
			Code:       uniqueCode,
			Confidence: uniquePairConfidence,
			Tag:        "unico-par",
		}, false
	case uniqueLetter != "":
		return &TypeDetection{
			Letter:     uniqueLetter,
			Code:       patterns.LetterCodes[uniqueLetter],
			Confidence: uniqueSingleConfidence,
			Tag:        "unico-letra",
		}, false
	case uniqueCode != "":
		letter := ""
		for l, cd := range patterns.LetterCodes {
			if cd == uniqueCode {
				letter = l
			}
		}
		return &TypeDetection{
			Letter:     letter,
			Code:       uniqueCode,
			Confidence: uniqueSingleConfidence,
			Tag:        "unico-codigo",
		}, false
	}

	ambiguous := len(presentLetters) > 1 || len(presentCodes) > 1
	return nil, ambiguous
}
