package exporting

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/mocks"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"go.uber.org/mock/gomock"
)

func timeSeriesFor(t *testing.T, domainName, start, end string) *domain.TimeSeriesRecord {
	t.Helper()

	dateRange, err := domain.NewDateRange(start, end)
	require.NoError(t, err)

	record := &domain.TimeSeriesRecord{Domain: domainName}
	for i, month := range dateRange.Months() {
		point := domain.MonthlyMetrics{
			Month:          month,
			Visits:         strings.Repeat("1", i+3),
			TrafficSources: map[string]string{"direct": "0.5", "display_ads": "0.1"},
			Geography: []domain.ShareEntry{
				{Name: "US", Share: "0.7"},
				{Name: "BR", Share: "0.3"},
			},
		}
		record.Points = append(record.Points, point)
	}
	return record
}

func successResult(t *testing.T, index int, domainName string) *domain.DomainResult {
	return &domain.DomainResult{
		Index:  index,
		Input:  domainName,
		Domain: domainName,
		Status: domain.StatusOK,
		Metadata: &domain.MetadataRecord{
			Domain:            domainName,
			GlobalRank:        "1523",
			CompanyName:       "Empresa, \"Filial\" São Paulo",
			DesktopShare:      "0.6",
			MobileShare:       "0.4",
			TopTrafficSources: []domain.ShareEntry{{Name: "direct", Share: "0.5"}, {Name: "search", Share: "0.3"}},
			GeoDistribution:   []domain.ShareEntry{{Name: "US", Share: "0.7"}},
		},
		TimeSeries: timeSeriesFor(t, domainName, "2024-01", "2024-03"),
	}
}

func failedResult(index int, input string, err error) *domain.DomainResult {
	return domain.NewFailedResult(index, input, domain.NormalizeDomain(input), err)
}

func sampleResults(t *testing.T) []*domain.DomainResult {
	return []*domain.DomainResult{
		successResult(t, 0, "example.com"),
		failedResult(1, "not a domain", errors.Wrap(domain.ErrInvalidInput, "\"not a domain\" is not a valid domain")),
		successResult(t, 2, "shop.example.co.uk"),
		failedResult(3, "missing.io", errors.Wrap(domain.ErrNotFound, "no data")),
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func render(t *testing.T, fn func(w io.Writer) error) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, fn(&buf))
	return buf.Bytes()
}

func TestAssembler_MetadataCSV(t *testing.T) {
	assembler := NewAssembler(false)
	results := sampleResults(t)

	rows := readCSV(t, render(t, func(w io.Writer) error { return assembler.MetadataCSV(w, results) }))

	require.Len(t, rows, 3)
	assert.Equal(t, MetadataColumns, rows[0])
	assert.Equal(t, "example.com", rows[1][0])
	assert.Equal(t, "shop.example.co.uk", rows[2][0])
	assert.Equal(t, "Empresa, \"Filial\" São Paulo", rows[1][3])
	assert.Equal(t, "direct:0.5;search:0.3", rows[1][15])
	assert.Equal(t, "US:0.7", rows[1][16])
}

func TestAssembler_TimeSeriesCSV(t *testing.T) {
	assembler := NewAssembler(false)
	results := sampleResults(t)

	rows := readCSV(t, render(t, func(w io.Writer) error { return assembler.TimeSeriesCSV(w, results) }))

	// Cabeçalho + 3 meses para cada um dos 2 domínios
	require.Len(t, rows, 7)
	assert.Equal(t, TimeSeriesColumns, rows[0])
	assert.Len(t, rows[0], 16+2*domain.MaxGeoCountries)

	header := make(map[string]int, len(rows[0]))
	for i, column := range rows[0] {
		header[column] = i
	}

	first := rows[1]
	assert.Equal(t, "example.com", first[header["domain"]])
	assert.Equal(t, "2024-01", first[header["month"]])
	assert.Equal(t, "111", first[header["visits"]])
	assert.Equal(t, "0.5", first[header["traffic_direct"]])
	assert.Equal(t, "0.1", first[header["traffic_display_ads"]])
	assert.Equal(t, "", first[header["traffic_search"]])
	assert.Equal(t, "US", first[header["geo_country_1"]])
	assert.Equal(t, "0.3", first[header["geo_country_share_2"]])
	assert.Equal(t, "", first[header["geo_country_10"]])

	assert.Equal(t, "2024-03", rows[3][header["month"]])
	assert.Equal(t, "shop.example.co.uk", rows[4][header["domain"]])
}

func TestAssembler_SummaryCSV(t *testing.T) {
	assembler := NewAssembler(false)
	results := sampleResults(t)

	// Ordem de chegada diferente da entrada não altera a saída
	shuffled := []*domain.DomainResult{results[3], nil, results[1], results[0], results[2]}

	rows := readCSV(t, render(t, func(w io.Writer) error { return assembler.SummaryCSV(w, shuffled) }))

	require.Len(t, rows, 5)
	assert.Equal(t, SummaryColumns, rows[0])
	assert.Equal(t, []string{"example.com", "example.com", "ok", ""}, rows[1])
	assert.Equal(t, "invalid_input", rows[2][2])
	assert.Equal(t, "not_found", rows[4][2])
	assert.Contains(t, rows[4][3], "no data")
}

func TestAssembler_PerDomain(t *testing.T) {
	assembler := NewAssembler(false)
	results := sampleResults(t)

	rows := readCSV(t, render(t, func(w io.Writer) error {
		return assembler.DomainMetadataCSV(w, results, "https://www.Shop.Example.co.uk/")
	}))
	require.Len(t, rows, 2)
	assert.Equal(t, "shop.example.co.uk", rows[1][0])

	rows = readCSV(t, render(t, func(w io.Writer) error {
		return assembler.DomainTimeSeriesCSV(w, results, "example.com")
	}))
	require.Len(t, rows, 4)
	for _, row := range rows[1:] {
		assert.Equal(t, "example.com", row[0])
	}

	var buf bytes.Buffer
	err := assembler.DomainMetadataCSV(&buf, results, "missing.io")
	assert.True(t, errors.Is(err, ErrDomainNotInResults))
}

func TestAssembler_Deterministic(t *testing.T) {
	results := sampleResults(t)
	assembler := NewAssembler(false)

	writers := map[string]func(w io.Writer) error{
		"metadata":    func(w io.Writer) error { return assembler.MetadataCSV(w, results) },
		"time_series": func(w io.Writer) error { return assembler.TimeSeriesCSV(w, results) },
		"summary":     func(w io.Writer) error { return assembler.SummaryCSV(w, results) },
		"archive":     func(w io.Writer) error { return assembler.Archive(w, results, true) },
	}

	for name, fn := range writers {
		t.Run(name, func(t *testing.T) {
			first := render(t, fn)
			second := render(t, fn)
			assert.True(t, bytes.Equal(first, second))
		})
	}
}

func TestAssembler_ExcelBOM(t *testing.T) {
	results := sampleResults(t)

	withBOM := render(t, func(w io.Writer) error { return NewAssembler(true).MetadataCSV(w, results) })
	withoutBOM := render(t, func(w io.Writer) error { return NewAssembler(false).MetadataCSV(w, results) })

	assert.True(t, bytes.HasPrefix(withBOM, utf8BOM))
	assert.False(t, bytes.HasPrefix(withoutBOM, utf8BOM))
	assert.Equal(t, withoutBOM, withBOM[len(utf8BOM):])
}

func TestAssembler_Archive(t *testing.T) {
	results := sampleResults(t)
	data := render(t, func(w io.Writer) error { return NewAssembler(false).Archive(w, results, true) })

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
		assert.True(t, f.Modified.IsZero() || f.Modified.Year() <= 1980, f.Name)
	}

	assert.Equal(t, []string{
		MetadataFileName,
		TimeSeriesFileName,
		SummaryFileName,
		"domains/example.com/" + MetadataFileName,
		"domains/example.com/" + TimeSeriesFileName,
		"domains/shop.example.co.uk/" + MetadataFileName,
		"domains/shop.example.co.uk/" + TimeSeriesFileName,
	}, names)

	rc, err := reader.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Len(t, readCSV(t, content), 3)
}

func TestAssembler_WriteDir(t *testing.T) {
	results := sampleResults(t)
	assembler := NewAssembler(false)

	dir := t.TempDir()
	paths, err := assembler.WriteDir(dir, results, Options{PerDomain: true})
	require.NoError(t, err)
	assert.Len(t, paths, 7)

	data, err := os.ReadFile(filepath.Join(dir, "domains", "example.com", TimeSeriesFileName))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, data), 4)

	zipDir := t.TempDir()
	paths, err = assembler.WriteDir(zipDir, results, Options{Zip: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(zipDir, ArchiveFileName)}, paths)
}

// Do lote ao CSV: um domínio válido e um malformado em 2024-01..2024-03
func TestAssembler_EnrichmentExample(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{}
	cfg.Enrichment.MaxConcurrentRequests = 1

	mockSimilarweb := mocks.NewMockSimilarwebIntegrator(ctrl)
	service := enriching.NewService(mockSimilarweb, cfg)

	plan, err := service.Plan(domain.BatchInput{
		Domains:   []string{"example.com", "not a domain"},
		StartDate: "2024-01",
		EndDate:   "2024-03",
		Country:   "US",
		APIKey:    "0123456789abcdef0123456789abcdef",
	})
	require.NoError(t, err)

	mockSimilarweb.EXPECT().
		Enrich(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.EnrichmentRequest) (*domain.MetadataRecord, *domain.TimeSeriesRecord, error) {
			return &domain.MetadataRecord{Domain: req.Domain},
				timeSeriesFor(t, req.Domain, req.DateRange.Start.String(), req.DateRange.End.String()),
				nil
		}).
		Times(1)

	outcome := service.Execute(context.Background(), plan, nil)
	assembler := NewAssembler(false)

	metadataRows := readCSV(t, render(t, func(w io.Writer) error { return assembler.MetadataCSV(w, outcome.Results) }))
	timeSeriesRows := readCSV(t, render(t, func(w io.Writer) error { return assembler.TimeSeriesCSV(w, outcome.Results) }))

	assert.Len(t, metadataRows, 1+1)
	assert.Len(t, timeSeriesRows, 1+3)
	assert.Equal(t, 1, outcome.Summary.Succeeded)
	assert.Equal(t, 1, outcome.Summary.ByStatus[domain.StatusInvalidInput])
}
