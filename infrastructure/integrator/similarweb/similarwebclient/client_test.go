package similarwebclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

const testAPIKey = "0123456789abcdef0123456789abcdef"

func newTestClient(serverURL string) Client {
	cfg := &config.Config{
		Similarweb: config.Similarweb{
			URL:               serverURL,
			TimeoutSeconds:    5,
			RetryDelaySeconds: 0,
			RequestsPerSecond: 1000,
		},
	}
	return NewClient(cfg)
}

func testRequest(t *testing.T) domain.EnrichmentRequest {
	dateRange, err := domain.NewDateRange("2024-01", "2024-03")
	require.NoError(t, err)

	return domain.EnrichmentRequest{
		Domain:    "example.com",
		DateRange: dateRange,
		Country:   "us",
		APIKey:    testAPIKey,
	}
}

func TestGetLeadEnrichment_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/website/example.com/lead-enrichment/all", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, testAPIKey, query.Get("api_key"))
		assert.Equal(t, "2024-01-01", query.Get("start_date"))
		assert.Equal(t, "2024-03-01", query.Get("end_date"))
		assert.Equal(t, "us", query.Get("country"))
		assert.Equal(t, "false", query.Get("main_domain_only"))
		assert.Equal(t, "json", query.Get("format"))
		assert.Equal(t, "false", query.Get("show_verified"))

		w.Write([]byte(`{
			"meta": {"status": "Success"},
			"global_rank": 42,
			"company_name": "Example Inc",
			"visits": [{"date": "2024-01-01", "value": 1500.5}]
		}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetLeadEnrichment(context.Background(), testRequest(t))

	require.NoError(t, err)
	assert.Equal(t, "42", resp.GlobalRank.String())
	assert.Equal(t, "Example Inc", resp.CompanyName.String())
	require.Len(t, resp.Visits, 1)
	assert.Equal(t, "1500.5", resp.Visits[0].Value.String())
}

func TestGetLeadEnrichment_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      domain.Status
		wantCalls int32
	}{
		{name: "chave inválida", status: http.StatusUnauthorized, body: `{"meta":{"error_message":"Invalid API key"}}`, want: domain.StatusAuthError, wantCalls: 1},
		{name: "403 sem créditos", status: http.StatusForbidden, body: `{"meta":{"error_message":"Data credits limit exceeded"}}`, want: domain.StatusQuotaExceeded, wantCalls: 1},
		{name: "403 sem permissão", status: http.StatusForbidden, body: `{"meta":{"error_message":"User is not authorized"}}`, want: domain.StatusAuthError, wantCalls: 1},
		{name: "402", status: http.StatusPaymentRequired, body: ``, want: domain.StatusQuotaExceeded, wantCalls: 1},
		{name: "404", status: http.StatusNotFound, body: `{"meta":{"error_message":"Data not found"}}`, want: domain.StatusNotFound, wantCalls: 1},
		{name: "400 sem dados", status: http.StatusBadRequest, body: `{"meta":{"error_message":"Data not found"}}`, want: domain.StatusNotFound, wantCalls: 1},
		{name: "400 genérico", status: http.StatusBadRequest, body: `{"meta":{"error_message":"Bad request"}}`, want: domain.StatusAPIError, wantCalls: 1},
		{name: "429 persistente", status: http.StatusTooManyRequests, body: `too many requests`, want: domain.StatusAPIError, wantCalls: 2},
		{name: "503 persistente", status: http.StatusServiceUnavailable, body: ``, want: domain.StatusAPIError, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).GetLeadEnrichment(context.Background(), testRequest(t))

			require.Error(t, err)
			assert.Equal(t, tt.want, domain.StatusFromError(err))
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestGetLeadEnrichment_RetriesTransientFailureOnce(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"meta":{"status":"Success"},"company_name":"Example"}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).GetLeadEnrichment(context.Background(), testRequest(t))

	require.NoError(t, err)
	assert.Equal(t, "Example", resp.CompanyName.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetLeadEnrichment_NetworkErrorHidesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	_, err := newTestClient(serverURL).GetLeadEnrichment(context.Background(), testRequest(t))

	require.Error(t, err)
	assert.Equal(t, domain.StatusNetworkError, domain.StatusFromError(err))
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestGetLeadEnrichment_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"visits": "not-a-list"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetLeadEnrichment(context.Background(), testRequest(t))

	require.Error(t, err)
	assert.Equal(t, domain.StatusAPIError, domain.StatusFromError(err))
}

func TestGetLeadEnrichment_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetLeadEnrichment(ctx, testRequest(t))

	require.Error(t, err)
	assert.Equal(t, domain.StatusCancelled, domain.StatusFromError(err))
}

func TestGetUserCapabilities(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user-capabilities", r.URL.Path)
		if r.URL.Query().Get("api_key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"remaining_hits": 1200}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	caps, err := client.GetUserCapabilities(context.Background(), testAPIKey)
	require.NoError(t, err)
	require.NotNil(t, caps.RemainingHits)
	assert.Equal(t, 1200, *caps.RemainingHits)

	_, err = client.GetUserCapabilities(context.Background(), "wrong-key-wrong-key")
	assert.Equal(t, domain.StatusAuthError, domain.StatusFromError(err))
}
