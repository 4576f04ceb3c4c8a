package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_CascadeShape(t *testing.T) {
	r := NewRegistry()

	// Seven templated tiers times three letters.
	require.Len(t, r.Type, 21)

	// Tier-major, letter-minor ordering.
	lastTier := 0
	for i, rule := range r.Type {
		assert.GreaterOrEqual(t, rule.Tier, lastTier, "rule %d out of tier order", i)
		lastTier = rule.Tier
		assert.Equal(t, LetterCodes[rule.Letter], rule.Code)
		assert.NotNil(t, rule.Re)
	}
	assert.Equal(t, "A", r.Type[0].Letter)
	assert.Equal(t, "B", r.Type[1].Letter)
	assert.Equal(t, "E", r.Type[2].Letter)
}

func TestNewRegistry_FieldPatternOrder(t *testing.T) {
	r := NewRegistry()

	require.Len(t, r.Number, 5)
	require.Len(t, r.Date, 5)
	require.Len(t, r.CUIT, 4)
	require.Len(t, r.Amount, 2)

	// Number and date patterns are ordered most specific first.
	for i := 1; i < len(r.Number); i++ {
		assert.LessOrEqual(t, r.Number[i].Confidence, r.Number[i-1].Confidence)
	}
	for i := 1; i < len(r.Date); i++ {
		assert.LessOrEqual(t, r.Date[i].Confidence, r.Date[i-1].Confidence)
	}
}

func TestNewRegistry_IsolatedMatchers(t *testing.T) {
	r := NewRegistry()

	for _, letter := range Letters {
		code := LetterCodes[letter]
		assert.True(t, r.IsolatedLetter[letter].MatchString("TIPO "+letter+" ORIGINAL"))
		assert.False(t, r.IsolatedLetter[letter].MatchString("FACTURAS"))
		assert.True(t, r.IsolatedCode[code].MatchString("COD "+code+" FIN"))
		assert.False(t, r.IsolatedCode[code].MatchString("1"+code+"7"))
	}
}
