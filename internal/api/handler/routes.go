package handler

import (
	"net/http"

	"github.com/vfg2006/lead-enrichment-api/internal/api/handler/router"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/exporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reference(checker enriching.CreditChecker, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/countries",
			Method:  http.MethodGet,
			Handler: ListCountries(),
		},
		{
			Path:    "/v1/credits/estimate",
			Method:  http.MethodGet,
			Handler: EstimateCredits(cfg),
		},
		{
			Path:    "/v1/credits/remaining",
			Method:  http.MethodGet,
			Handler: RemainingCredits(checker),
		},
	}
}

func Enrichments(service enriching.BatchService, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/enrichments",
			Method:  http.MethodPost,
			Handler: CreateEnrichment(service, cfg),
		},
		{
			Path:    "/v1/enrichments/:id",
			Method:  http.MethodGet,
			Handler: GetEnrichment(service, cfg),
		},
		{
			Path:    "/v1/enrichments/:id",
			Method:  http.MethodDelete,
			Handler: CancelEnrichment(service, cfg),
		},
	}
}

func Downloads(service enriching.BatchService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/enrichments/:id/metadata.csv",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.MetadataFileName, csvContentType, renderMetadata),
		},
		{
			Path:    "/v1/enrichments/:id/time-series.csv",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.TimeSeriesFileName, csvContentType, renderTimeSeries),
		},
		{
			Path:    "/v1/enrichments/:id/summary.csv",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.SummaryFileName, csvContentType, renderSummary),
		},
		{
			Path:    "/v1/enrichments/:id/archive.zip",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.ArchiveFileName, zipContentType, renderArchive),
		},
		{
			Path:    "/v1/enrichments/:id/domains/:domain/metadata.csv",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.MetadataFileName, csvContentType, renderDomainMetadata),
		},
		{
			Path:    "/v1/enrichments/:id/domains/:domain/time-series.csv",
			Method:  http.MethodGet,
			Handler: Download(service, exporting.TimeSeriesFileName, csvContentType, renderDomainTimeSeries),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/run/:type",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
