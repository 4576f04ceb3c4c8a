package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/patterns"
)

// Match is one extracted field value with the confidence of the pattern
// that produced it.
type Match struct {
	Value      string
	Confidence float64
	Tag        string
	Review     bool
}

var (
	numberShape = regexp.MustCompile(`^\d{5}-\d{7,8}$`)
	cuitShape   = regexp.MustCompile(`^\d{2}-\d{8}-\d$`)
	whitespace  = regexp.MustCompile(`\s+`)
	nonDigits   = regexp.MustCompile(`\D`)
)

// ExtractNumber finds the invoice number (5 digits, dash, 7-8 digits).
// Patterns are tried in fixed specificity order; within a pattern the text
// is scanned left to right and the first occurrence whose value still
// matches the shape after whitespace removal wins. No ranking across
// patterns.
func ExtractNumber(reg *patterns.Registry, text string) *Match {
	upper := strings.ToUpper(text)
	for _, p := range reg.Number {
		for _, m := range p.Re.FindAllStringSubmatch(upper, -1) {
			value := whitespace.ReplaceAllString(m[1], "")
			if numberShape.MatchString(value) {
				return &Match{Value: value, Confidence: p.Confidence, Tag: p.Tag}
			}
		}
	}
	return nil
}

// Invoice dates older than this are treated as OCR noise.
var minInvoiceDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// ExtractDate finds the invoice date. Candidates whose parsed value falls
// outside [2020-01-01, now+1y] are rejected and scanning continues; the
// first in-range parse wins. The value is normalized to dd/mm/yyyy.
func ExtractDate(reg *patterns.Registry, text string, now time.Time) *Match {
	upper := strings.ToUpper(text)
	max := now.AddDate(1, 0, 0)

	for _, p := range reg.Date {
		for _, m := range p.Re.FindAllStringSubmatch(upper, -1) {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])

			parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes overflow (32/13 etc.); require a
			// round trip to reject impossible dates.
			if parsed.Day() != day || int(parsed.Month()) != month || parsed.Year() != year {
				continue
			}
			if parsed.Before(minInvoiceDate) || parsed.After(max) {
				continue
			}
			return &Match{
				Value:      fmt.Sprintf("%02d/%02d/%04d", day, month, year),
				Confidence: p.Confidence,
				Tag:        p.Tag,
			}
		}
	}
	return nil
}

// Single-CUIT confidence penalty: when only one tax id is found it is
// likely the issuer's own, so the value is returned reduced and flagged.
const (
	cuitSinglePenalty = 0.2
	cuitMinConfidence = 0.5
)

// ExtractClientCUIT finds the client's tax id. All valid matches across
// every pattern variant are collected with their text offsets, normalized
// to the canonical dashed form, ordered by document position and
// deduplicated keeping the earliest occurrence of each id. With two or
// more distinct ids the second one in document order is returned (the
// first is assumed to be the issuer's own id); with exactly one, that id
// is returned penalized and review-flagged.
func ExtractClientCUIT(reg *patterns.Registry, text string) *Match {
	upper := strings.ToUpper(text)

	type candidate struct {
		pos        int
		value      string
		confidence float64
		tag        string
	}
	var found []candidate

	for _, p := range reg.CUIT {
		for _, idx := range p.Re.FindAllStringSubmatchIndex(upper, -1) {
			if idx[2] < 0 {
				continue
			}
			digits := nonDigits.ReplaceAllString(upper[idx[2]:idx[3]], "")
			if len(digits) != 11 {
				continue
			}
			value := digits[0:2] + "-" + digits[2:10] + "-" + digits[10:]
			if !cuitShape.MatchString(value) {
				continue
			}
			found = append(found, candidate{idx[2], value, p.Confidence, p.Tag})
		}
	}

	// Document order decides which id is "second", regardless of which
	// pattern variant matched it. Same-offset ties keep the more specific
	// pattern's confidence.
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	var ordered []candidate
	seen := make(map[string]bool)
	for _, c := range found {
		if seen[c.value] {
			continue
		}
		seen[c.value] = true
		ordered = append(ordered, c)
	}

	switch len(ordered) {
	case 0:
		return nil
	case 1:
		conf := ordered[0].confidence - cuitSinglePenalty
		if conf < cuitMinConfidence {
			conf = cuitMinConfidence
		}
		return &Match{Value: ordered[0].value, Confidence: conf, Tag: ordered[0].tag, Review: true}
	default:
		second := ordered[1]
		return &Match{Value: second.value, Confidence: second.confidence, Tag: second.tag}
	}
}

// ExtractTotalAmount finds the invoice total in Argentine number format
// (thousands dots, decimal comma) and normalizes it to a plain decimal
// string with two places. Informational only; never written back as an
// index field.
func ExtractTotalAmount(reg *patterns.Registry, text string) *Match {
	upper := strings.ToUpper(text)
	for _, p := range reg.Amount {
		for _, m := range p.Re.FindAllStringSubmatch(upper, -1) {
			normalized := strings.ReplaceAll(m[1], ".", "")
			normalized = strings.ReplaceAll(normalized, ",", ".")
			d, err := decimal.NewFromString(normalized)
			if err != nil || !d.IsPositive() {
				continue
			}
			return &Match{Value: d.StringFixed(2), Confidence: p.Confidence, Tag: p.Tag}
		}
	}
	return nil
}
