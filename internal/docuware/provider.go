package docuware

import (
	"sync"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// Provider hands out the process-lifetime repository client. The client is
// created lazily on first use and reused for every later request; sync.Once
// replaces hand-rolled double-checked locking.
type Provider struct {
	cfg    models.DocRepoConfig
	once   sync.Once
	client Client
	err    error
}

// NewProvider creates a provider. No connection is made until Client is
// first called.
func NewProvider(cfg models.DocRepoConfig) *Provider {
	return &Provider{cfg: cfg}
}

// Client returns the shared repository client, creating it on first call.
// A construction error is sticky: every subsequent call reports it.
func (p *Provider) Client() (Client, error) {
	p.once.Do(func() {
		p.client, p.err = NewHTTPClient(p.cfg)
	})
	return p.client, p.err
}
