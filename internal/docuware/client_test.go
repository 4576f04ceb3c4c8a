package docuware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecasulo-ricoh/ocr-test-sub000/internal/models"
)

// newRepoServer fakes the repository REST surface: one login endpoint plus
// the document routes the client uses. It counts logins so token reuse can
// be asserted.
func newRepoServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	logins := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("username") != "svc" || r.FormValue("password") != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		logins++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/cabinets/cab-1/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"documents": []map[string]string{{"id": "doc-1"}, {"id": "doc-2"}},
		})
	})
	mux.HandleFunc("/documents/doc-1/content", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/documents/doc-1/fields", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"fields": map[string]string{"TIPO_FACTURA": "A"},
			})
		case http.MethodPut:
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "00001-00000001", body.Fields["NRO_FACTURA"])
			w.WriteHeader(http.StatusNoContent)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &logins
}

func newTestClient(t *testing.T, baseURL string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(models.DocRepoConfig{
		BaseURL:  baseURL,
		Username: "svc",
		Password: "pw",
	})
	require.NoError(t, err)
	return client
}

func TestHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(models.DocRepoConfig{})
	assert.Error(t, err)
}

func TestHTTPClient_ListAndTokenReuse(t *testing.T) {
	server, logins := newRepoServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	ids, err := client.ListRecentDocumentIDs(ctx, "cab-1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1", "doc-2"}, ids)

	_, err = client.ListRecentDocumentIDs(ctx, "cab-1", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, *logins, "token must be reused across requests")
}

func TestHTTPClient_GetDocumentContent(t *testing.T) {
	server, _ := newRepoServer(t)
	client := newTestClient(t, server.URL)

	content, contentType, err := client.GetDocumentContent(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)
	assert.Equal(t, "image/png", contentType)
}

func TestHTTPClient_IndexFieldsRoundTrip(t *testing.T) {
	server, _ := newRepoServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	fields, err := client.GetIndexFields(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "A", fields["TIPO_FACTURA"])

	err = client.WriteIndexFields(ctx, "doc-1", map[string]string{"NRO_FACTURA": "00001-00000001"})
	assert.NoError(t, err)
}

func TestHTTPClient_LoginFailureSurfaces(t *testing.T) {
	server, _ := newRepoServer(t)
	client, err := NewHTTPClient(models.DocRepoConfig{
		BaseURL:  server.URL,
		Username: "svc",
		Password: "wrong",
	})
	require.NoError(t, err)

	_, err = client.ListRecentDocumentIDs(context.Background(), "cab-1", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
}

func TestProvider_SingleClientAndStickyError(t *testing.T) {
	p := NewProvider(models.DocRepoConfig{BaseURL: "http://repo.local"})
	c1, err := p.Client()
	require.NoError(t, err)
	c2, err := p.Client()
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	bad := NewProvider(models.DocRepoConfig{})
	_, err = bad.Client()
	require.Error(t, err)
	_, err2 := bad.Client()
	assert.Equal(t, err, err2, "construction error is sticky")
}
