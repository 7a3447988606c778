package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching/mocks"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/exporting"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
	"github.com/vfg2006/lead-enrichment-api/pkg/middleware"
	"go.uber.org/mock/gomock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const testAPIKey = "0123456789abcdef0123456789abcdef"

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

type testServer struct {
	handler       http.Handler
	batchService  *mocks.MockBatchService
	creditChecker *mocks.MockCreditChecker
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Enrichment.CreditsPerDomain = domain.DefaultCreditsPerDomain

	batchService := mocks.NewMockBatchService(ctrl)
	creditChecker := mocks.NewMockCreditChecker(ctrl)

	return &testServer{
		handler:       NewHandler(cfg, batchService, creditChecker, nil),
		batchService:  batchService,
		creditChecker: creditChecker,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func completedBatch() *domain.Batch {
	dateRange, _ := domain.NewDateRange("2024-01", "2024-03")
	finishedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	return &domain.Batch{
		ID:         "batch-1",
		State:      domain.BatchStateCompleted,
		Country:    "us",
		DateRange:  dateRange,
		CreatedAt:  finishedAt.Add(-time.Minute),
		FinishedAt: &finishedAt,
		Results: []*domain.DomainResult{
			{
				Index:    0,
				Input:    "https://www.example.com",
				Domain:   "example.com",
				Status:   domain.StatusOK,
				Metadata: &domain.MetadataRecord{Domain: "example.com", GlobalRank: "1234"},
				TimeSeries: &domain.TimeSeriesRecord{
					Domain: "example.com",
					Points: []domain.MonthlyMetrics{{Month: dateRange.Start, Visits: "1000"}},
				},
			},
			{
				Index:  1,
				Input:  "not a domain",
				Domain: "not a domain",
				Status: domain.StatusInvalidInput,
				Error:  "invalid input: malformed domain",
			},
		},
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestCreateEnrichment(t *testing.T) {
	srv := newTestServer(t)

	batch := completedBatch()
	batch.State = domain.BatchStateRunning
	batch.FinishedAt = nil
	batch.Results[1] = nil

	srv.batchService.EXPECT().
		Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input domain.BatchInput) (*domain.Batch, error) {
			assert.Equal(t, []string{"https://www.example.com", "not a domain"}, input.Domains)
			assert.Equal(t, testAPIKey, input.APIKey)
			assert.Equal(t, "2024-01", input.StartDate)
			assert.Equal(t, "US", input.Country)
			return batch, nil
		})

	rec := srv.do(http.MethodPost, "/v1/enrichments",
		`{"domains":"https://www.example.com\n\n  not a domain  \n","start_date":"2024-01","end_date":"2024-03","country":"US"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "batch-1", body["id"])
	assert.Equal(t, "running", body["state"])
	assert.EqualValues(t, 1, body["pending"])
	assert.Contains(t, body["downloads"], "metadata")
}

func TestCreateEnrichment_Errors(t *testing.T) {
	t.Run("Corpo inválido", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(http.MethodPost, "/v1/enrichments", `{"domains":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeError(t, rec).Code)
	})

	t.Run("Corpo acima do limite", func(t *testing.T) {
		srv := newTestServer(t)

		body := `{"domains":"` + strings.Repeat("a", 2<<20) + `"}`
		rec := srv.do(http.MethodPost, "/v1/enrichments", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRequest, decodeError(t, rec).Code)
	})

	t.Run("Sem chave da API", func(t *testing.T) {
		srv := newTestServer(t)

		srv.batchService.EXPECT().
			Start(gomock.Any(), gomock.Any()).
			Return(nil, enriching.NewEnrichmentError(enriching.ErrMissingAPIKey, apiErrors.ErrMissingAPIKey, "Informe a chave"))

		rec := srv.do(http.MethodPost, "/v1/enrichments", `{"domains":"example.com"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apiErrors.ErrMissingAPIKey, decodeError(t, rec).Code)
	})

	t.Run("Lote grande demais", func(t *testing.T) {
		srv := newTestServer(t)

		srv.batchService.EXPECT().
			Start(gomock.Any(), gomock.Any()).
			Return(nil, enriching.NewEnrichmentError(enriching.ErrTooManyDomains, apiErrors.ErrTooManyDomains, "101 domínios"))

		rec := srv.do(http.MethodPost, "/v1/enrichments", `{"domains":"example.com"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrTooManyDomains, decodeError(t, rec).Code)
	})
}

func TestGetEnrichment(t *testing.T) {
	t.Run("Lote existente", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			ID      string                 `json:"id"`
			State   string                 `json:"state"`
			Pending int                    `json:"pending"`
			Summary domain.BatchSummary    `json:"summary"`
			Results []*domain.DomainResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "completed", body.State)
		assert.Equal(t, 0, body.Pending)
		assert.Equal(t, 1, body.Summary.Succeeded)
		assert.Equal(t, domain.DefaultCreditsPerDomain, body.Summary.CreditsEstimated)
		require.Len(t, body.Results, 2)
		assert.Equal(t, domain.StatusInvalidInput, body.Results[1].Status)
	})

	t.Run("Lote inexistente", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().
			Get("missing").
			Return(nil, enriching.NewEnrichmentErrorWithBatch(enriching.ErrBatchNotFound, apiErrors.ErrBatchNotFound, "missing", "Lote não encontrado"))

		rec := srv.do(http.MethodGet, "/v1/enrichments/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		apiErr := decodeError(t, rec)
		assert.Equal(t, apiErrors.ErrBatchNotFound, apiErr.Code)
		assert.Equal(t, map[string]any{"batch_id": "missing"}, apiErr.Details)
	})
}

func TestCancelEnrichment(t *testing.T) {
	srv := newTestServer(t)

	batch := completedBatch()
	batch.State = domain.BatchStateCancelled
	srv.batchService.EXPECT().Cancel("batch-1").Return(batch, nil)

	rec := srv.do(http.MethodDelete, "/v1/enrichments/batch-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"cancelled"`)
}

func TestDownloads(t *testing.T) {
	t.Run("CSV de metadados", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1/metadata.csv", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="batch-1_`+exporting.MetadataFileName+`"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "completed", rec.Header().Get("X-Batch-State"))
		assert.Equal(t, "0", rec.Header().Get("X-Batch-Pending"))

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, strings.Join(exporting.MetadataColumns, ","), lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "example.com,1234,"))
	})

	t.Run("CSV com BOM para o Excel", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1/summary.csv?excel_bom=true", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))
	})

	t.Run("Arquivo zip", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1/archive.zip", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
	})

	t.Run("Domínio do lote", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1/domains/www.example.com/time-series.csv", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "batch-1_example.com_"+exporting.TimeSeriesFileName)
		assert.Contains(t, rec.Body.String(), "example.com,2024-01,1000")
	})

	t.Run("Domínio fora do lote", func(t *testing.T) {
		srv := newTestServer(t)
		srv.batchService.EXPECT().Get("batch-1").Return(completedBatch(), nil)

		rec := srv.do(http.MethodGet, "/v1/enrichments/batch-1/domains/other.com/metadata.csv", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apiErrors.ErrDomainNotFound, decodeError(t, rec).Code)
	})
}

func TestRemainingCredits(t *testing.T) {
	srv := newTestServer(t)

	remaining := 500
	balance := domain.NewCreditBalance(&remaining, domain.DefaultCreditsPerDomain)
	srv.creditChecker.EXPECT().RemainingCredits(gomock.Any(), testAPIKey).Return(&balance, nil)

	rec := srv.do(http.MethodGet, "/v1/credits/remaining", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.CreditBalance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.DomainsAffordable)
	assert.Equal(t, 20, *body.DomainsAffordable)
}

func TestReferenceRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/v1/credits/estimate?domains=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/credits/estimate?domains=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodGet, "/v1/countries", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"world"`)
}

func TestUnknownRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrResourceNotFound, decodeError(t, rec).Code)

	rec = srv.do(http.MethodPut, "/v1/enrichments", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, apiErrors.ErrMethodNotAllowed, decodeError(t, rec).Code)
}
