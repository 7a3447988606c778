package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/exporting"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
	"github.com/vfg2006/lead-enrichment-api/pkg/middleware"
)

const (
	csvContentType = "text/csv; charset=utf-8"
	zipContentType = "application/zip"
)

type renderFunc func(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, r *http.Request) error

// Download serve um arquivo do lote. Lotes em execução geram arquivos parciais.
func Download(service enriching.BatchService, fileName, contentType string, render renderFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		batchID := params.ByName("id")

		batch, err := service.Get(batchID)
		if err != nil {
			writeEnrichmentError(w, err, "Erro ao consultar lote")
			return
		}

		excelBOM, _ := strconv.ParseBool(r.URL.Query().Get("excel_bom"))
		assembler := exporting.NewAssembler(excelBOM)

		// Gera em memória para ainda poder responder com erro JSON
		var buf bytes.Buffer
		if err := render(assembler, &buf, batch.Results, r); err != nil {
			if errors.Is(err, exporting.ErrDomainNotInResults) {
				apiErrors.WriteError(w, apiErrors.ErrDomainNotFound, err.Error(), map[string]any{"batch_id": batchID})
				return
			}

			log.ForContext(r.Context()).WithError(err).WithField("batch_id", batchID).Error("Erro ao gerar arquivo do lote")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar arquivo", nil)
			return
		}

		name := batch.ID + "_" + fileName
		if domainName := params.ByName("domain"); domainName != "" {
			name = batch.ID + "_" + domain.NormalizeDomain(domainName) + "_" + fileName
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set(middleware.BatchStateHeader, string(batch.State))
		w.Header().Set(middleware.BatchPendingHeader, strconv.Itoa(batch.Pending()))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(buf.Bytes()); err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Erro ao enviar arquivo")
		}
	})
}

func renderMetadata(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, _ *http.Request) error {
	return a.MetadataCSV(w, results)
}

func renderTimeSeries(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, _ *http.Request) error {
	return a.TimeSeriesCSV(w, results)
}

func renderSummary(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, _ *http.Request) error {
	return a.SummaryCSV(w, results)
}

func renderArchive(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, r *http.Request) error {
	perDomain, _ := strconv.ParseBool(r.URL.Query().Get("per_domain"))
	return a.Archive(w, results, perDomain)
}

func renderDomainMetadata(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, r *http.Request) error {
	return a.DomainMetadataCSV(w, results, httprouter.ParamsFromContext(r.Context()).ByName("domain"))
}

func renderDomainTimeSeries(a *exporting.Assembler, w io.Writer, results []*domain.DomainResult, r *http.Request) error {
	return a.DomainTimeSeriesCSV(w, results, httprouter.ParamsFromContext(r.Context()).ByName("domain"))
}
