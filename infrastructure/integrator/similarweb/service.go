package similarweb

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	similarwebdomain "github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/domain"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/similarwebclient"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

const (
	topTrafficSources = 3
	topGeoCountries   = 5
)

type SimilarwebIntegrator interface {
	Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.MetadataRecord, *domain.TimeSeriesRecord, error)
	CheckAPIKey(ctx context.Context, apiKey string) (*int, error)
}

type SimilarwebService struct {
	cfg    *config.Config
	Client similarwebclient.Client
}

func New(cfg *config.Config, client similarwebclient.Client) SimilarwebIntegrator {
	return &SimilarwebService{
		cfg:    cfg,
		Client: client,
	}
}

// Enrich consulta a API para um domínio e normaliza a resposta nos dois registros
func (s *SimilarwebService) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.MetadataRecord, *domain.TimeSeriesRecord, error) {
	resp, err := s.Client.GetLeadEnrichment(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if resp.IsEmpty() {
		return nil, nil, errors.Wrapf(domain.ErrNotFound, "similarweb returned no data for %s", req.Domain)
	}

	timeSeries := FactoryTimeSeries(req.Domain, resp, req.DateRange)
	metadata := FactoryMetadata(req.Domain, resp, timeSeries)

	logrus.WithFields(logrus.Fields{
		"domain": req.Domain,
		"months": len(timeSeries.Points),
	}).Debug("similarweb: lead enrichment normalized")

	return metadata, timeSeries, nil
}

// CheckAPIKey valida a chave e retorna os créditos restantes, quando informados
func (s *SimilarwebService) CheckAPIKey(ctx context.Context, apiKey string) (*int, error) {
	caps, err := s.Client.GetUserCapabilities(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	return caps.RemainingHits, nil
}

func FactoryMetadata(domainName string, resp *similarwebdomain.LeadEnrichmentResponse, timeSeries *domain.TimeSeriesRecord) *domain.MetadataRecord {
	metadata := &domain.MetadataRecord{
		Domain:              domainName,
		GlobalRank:          resp.GlobalRank.String(),
		CategoryRank:        resp.CategoryRank.String(),
		CompanyName:         resp.CompanyName.String(),
		SiteType:            resp.SiteType.String(),
		SiteTypeNew:         resp.SiteTypeNew.String(),
		EmployeeRange:       resp.EmployeeRange.String(),
		EstimatedRevenueUSD: resp.EstimatedRevenueInUSD.String(),
		OnlineRevenueRange:  resp.OnlineRevenueRange.String(),
		Headquarters:        resp.Headquarters.String(),
		WebsiteCategory:     resp.WebsiteCategory.String(),
		WebsiteCategoryNew:  resp.WebsiteCategoryNew.String(),
		ZipCode:             resp.ZipCode.String(),
		TopTrafficSources:   []domain.ShareEntry{},
		GeoDistribution:     []domain.ShareEntry{},
	}

	latest := timeSeries.Latest()
	if latest == nil {
		return metadata
	}

	metadata.DesktopShare = latest.DesktopShare
	metadata.MobileShare = latest.MobileShare

	sources := make([]domain.ShareEntry, 0, len(latest.TrafficSources))
	for sourceType, share := range latest.TrafficSources {
		sources = append(sources, domain.ShareEntry{Name: sourceType, Share: share})
	}
	metadata.TopTrafficSources = domain.TopShares(sources, topTrafficSources)
	metadata.GeoDistribution = domain.TopShares(latest.Geography, topGeoCountries)

	return metadata
}

// FactoryTimeSeries monta um ponto por mês do intervalo, mesmo sem dados no mês
func FactoryTimeSeries(domainName string, resp *similarwebdomain.LeadEnrichmentResponse, dateRange domain.DateRange) *domain.TimeSeriesRecord {
	visits := indexMetric(resp.Visits)
	uniqueVisitors := indexMetric(resp.UniqueVisitors)
	bounceRate := indexMetric(resp.BounceRate)
	pagesPerVisit := indexMetric(resp.PagesPerVisit)
	avgVisitDuration := indexMetric(resp.AverageVisitDuration)
	momGrowth := indexMetric(resp.MoMGrowth)

	deviceShares := make(map[string]*similarwebdomain.DeviceShare, len(resp.MobileDesktopShare))
	for _, p := range resp.MobileDesktopShare {
		deviceShares[similarwebdomain.MonthKey(p.Date)] = p.Value
	}

	trafficSources := make(map[string][]similarwebdomain.TrafficSource, len(resp.TrafficSources))
	for _, p := range resp.TrafficSources {
		trafficSources[similarwebdomain.MonthKey(p.Date)] = p.Value
	}

	geography := make(map[string][]similarwebdomain.CountryShare, len(resp.GeographyShare))
	for _, p := range resp.GeographyShare {
		geography[similarwebdomain.MonthKey(p.Date)] = p.Value
	}

	record := &domain.TimeSeriesRecord{
		Domain: domainName,
		Points: make([]domain.MonthlyMetrics, 0, dateRange.Len()),
	}

	unknownSources := make(map[string]struct{})

	for _, month := range dateRange.Months() {
		key := month.String()

		point := domain.MonthlyMetrics{
			Month:                month,
			Visits:               visits[key],
			UniqueVisitors:       uniqueVisitors[key],
			BounceRate:           bounceRate[key],
			PagesPerVisit:        pagesPerVisit[key],
			AverageVisitDuration: avgVisitDuration[key],
			MoMGrowth:            momGrowth[key],
			TrafficSources:       make(map[string]string),
			Geography:            make([]domain.ShareEntry, 0),
		}

		if share := deviceShares[key]; share != nil {
			point.DesktopShare = share.DesktopShare.String()
			point.MobileShare = share.MobileShare.String()
		}

		for _, source := range trafficSources[key] {
			if strings.TrimSpace(source.SourceType) == "" {
				continue
			}

			column, known := domain.SourceColumn(source.SourceType)
			if !known {
				unknownSources[source.SourceType] = struct{}{}
			}
			point.TrafficSources[column] = domain.AddShare(point.TrafficSources[column], source.Share.String())
		}

		for _, country := range geography[key] {
			if len(point.Geography) == domain.MaxGeoCountries {
				break
			}
			point.Geography = append(point.Geography, domain.ShareEntry{
				Name:  country.Country.String(),
				Share: country.Share.String(),
			})
		}

		record.Points = append(record.Points, point)
	}

	if len(unknownSources) > 0 {
		types := make([]string, 0, len(unknownSources))
		for sourceType := range unknownSources {
			types = append(types, sourceType)
		}
		sort.Strings(types)

		logrus.WithFields(logrus.Fields{
			"domain":       domainName,
			"source_types": types,
		}).Warn("similarweb: tipos de fonte desconhecidos somados em traffic_other")
	}

	return record
}

func indexMetric(points []similarwebdomain.MetricPoint) map[string]string {
	index := make(map[string]string, len(points))
	for _, p := range points {
		index[similarwebdomain.MonthKey(p.Date)] = p.Value.String()
	}
	return index
}
