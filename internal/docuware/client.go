// Package docuware talks to the external document repository: listing
// recent documents in a cabinet, fetching stored content and writing index
// fields back. The core only depends on the Client interface; the HTTP
// implementation here is the production adapter.
package docuware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/logger"
	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// Client is the contract the indexing core needs from the repository.
type Client interface {
	// ListRecentDocumentIDs returns up to count ids from the cabinet,
	// most recent first.
	ListRecentDocumentIDs(ctx context.Context, cabinetID string, count int) ([]string, error)
	// GetDocumentContent returns the stored bytes and their content type.
	GetDocumentContent(ctx context.Context, documentID string) ([]byte, string, error)
	// GetIndexFields returns the document's current index field values.
	GetIndexFields(ctx context.Context, documentID string) (map[string]string, error)
	// WriteIndexFields sets index field values on the document.
	WriteIndexFields(ctx context.Context, documentID string, fields map[string]string) error
}

const defaultTimeout = 30 * time.Second

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL      string
	username     string
	password     string
	organization string
	httpClient   *http.Client
	log          zerolog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewHTTPClient builds a repository client from configuration. It does not
// contact the server; the first request triggers authentication.
func NewHTTPClient(cfg models.DocRepoConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("document repository base_url is required")
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &HTTPClient{
		baseURL:      cfg.BaseURL,
		username:     cfg.Username,
		password:     cfg.Password,
		organization: cfg.Organization,
		httpClient:   &http.Client{Timeout: timeout},
		log:          logger.WithComponent("docuware"),
	}, nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ensureToken authenticates if the cached bearer token is missing or about
// to expire. The repository rate-limits logins, so the token is reused for
// its whole lifetime.
func (c *HTTPClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-30*time.Second)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.username)
	form.Set("password", c.password)
	if c.organization != "" {
		form.Set("organization", c.organization)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/token", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("repository login failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("repository login failed: status %d: %s", resp.StatusCode, body)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return "", fmt.Errorf("repository login failed: %w", err)
	}

	c.token = login.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(login.ExpiresIn) * time.Second)
	c.log.Debug().Time("expiry", c.tokenExpiry).Msg("repository token refreshed")
	return c.token, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("repository %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ListRecentDocumentIDs implements Client.
func (c *HTTPClient) ListRecentDocumentIDs(ctx context.Context, cabinetID string, count int) ([]string, error) {
	var result struct {
		Documents []struct {
			ID string `json:"id"`
		} `json:"documents"`
	}
	path := fmt.Sprintf("/cabinets/%s/documents?count=%d&sort=recent",
		url.PathEscape(cabinetID), count)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Documents))
	for _, d := range result.Documents {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// GetDocumentContent implements Client.
func (c *HTTPClient) GetDocumentContent(ctx context.Context, documentID string) ([]byte, string, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, "", err
	}

	path := fmt.Sprintf("%s/documents/%s/content", c.baseURL, url.PathEscape(documentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("repository content fetch for %s: status %d", documentID, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return content, contentType, nil
}

// GetIndexFields implements Client.
func (c *HTTPClient) GetIndexFields(ctx context.Context, documentID string) (map[string]string, error) {
	var result struct {
		Fields map[string]string `json:"fields"`
	}
	path := fmt.Sprintf("/documents/%s/fields", url.PathEscape(documentID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if result.Fields == nil {
		result.Fields = map[string]string{}
	}
	return result.Fields, nil
}

// WriteIndexFields implements Client.
func (c *HTTPClient) WriteIndexFields(ctx context.Context, documentID string, fields map[string]string) error {
	body := map[string]interface{}{"fields": fields}
	path := fmt.Sprintf("/documents/%s/fields", url.PathEscape(documentID))
	return c.doJSON(ctx, http.MethodPut, path, body, nil)
}
