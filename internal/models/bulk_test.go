package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestBulkUpdateRequest_SafeDefaults(t *testing.T) {
	// Omitted flags default to the non-destructive behavior.
	req := BulkUpdateRequest{DocumentCount: 10}
	assert.True(t, req.IsDryRun())
	assert.True(t, req.IsOnlyEmpty())

	req = BulkUpdateRequest{DryRun: boolPtr(false), OnlyUpdateEmptyFields: boolPtr(false)}
	assert.False(t, req.IsDryRun())
	assert.False(t, req.IsOnlyEmpty())

	req = BulkUpdateRequest{DryRun: boolPtr(true), OnlyUpdateEmptyFields: boolPtr(true)}
	assert.True(t, req.IsDryRun())
	assert.True(t, req.IsOnlyEmpty())
}

func TestTipoCodigoMapsAreInverse(t *testing.T) {
	for tipo, codigo := range TipoCodigo {
		assert.Equal(t, tipo, CodigoTipo[codigo])
	}
	assert.Len(t, TipoCodigo, 3)
	assert.Len(t, CodigoTipo, 3)
}
