package exporting

import (
	"fmt"

	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

// SchemaVersion muda sempre que colunas forem adicionadas, removidas ou reordenadas
const SchemaVersion = "2"

const (
	MetadataFileName   = "similarweb_metadata.csv"
	TimeSeriesFileName = "similarweb_time_series.csv"
	SummaryFileName    = "similarweb_summary.csv"
	ArchiveFileName    = "similarweb_data.zip"
	domainsDir         = "domains"
)

var MetadataColumns = []string{
	"domain",
	"global_rank",
	"category_rank",
	"company_name",
	"site_type",
	"site_type_new",
	"employee_range",
	"estimated_revenue_in_usd",
	"online_revenue_range",
	"headquarters",
	"website_category",
	"website_category_new",
	"zip_code",
	"desktop_share",
	"mobile_share",
	"top_traffic_sources",
	"geo_distribution",
}

var TimeSeriesColumns = func() []string {
	columns := []string{
		"domain",
		"month",
		"visits",
		"unique_visitors",
		"bounce_rate",
		"pages_per_visit",
		"average_visit_duration",
		"mom_growth",
		"desktop_share",
		"mobile_share",
	}

	for _, source := range domain.TrafficSources {
		columns = append(columns, "traffic_"+source)
	}

	for i := 1; i <= domain.MaxGeoCountries; i++ {
		columns = append(columns, fmt.Sprintf("geo_country_%d", i), fmt.Sprintf("geo_country_share_%d", i))
	}

	return columns
}()

var SummaryColumns = []string{"input", "domain", "status", "error"}

func metadataRow(m *domain.MetadataRecord) []string {
	return []string{
		m.Domain,
		m.GlobalRank,
		m.CategoryRank,
		m.CompanyName,
		m.SiteType,
		m.SiteTypeNew,
		m.EmployeeRange,
		m.EstimatedRevenueUSD,
		m.OnlineRevenueRange,
		m.Headquarters,
		m.WebsiteCategory,
		m.WebsiteCategoryNew,
		m.ZipCode,
		m.DesktopShare,
		m.MobileShare,
		domain.JoinShares(m.TopTrafficSources),
		domain.JoinShares(m.GeoDistribution),
	}
}

func timeSeriesRow(domainName string, p *domain.MonthlyMetrics) []string {
	row := make([]string, 0, len(TimeSeriesColumns))
	row = append(row,
		domainName,
		p.Month.String(),
		p.Visits,
		p.UniqueVisitors,
		p.BounceRate,
		p.PagesPerVisit,
		p.AverageVisitDuration,
		p.MoMGrowth,
		p.DesktopShare,
		p.MobileShare,
	)

	for _, source := range domain.TrafficSources {
		row = append(row, p.TrafficSources[source])
	}

	for i := 0; i < domain.MaxGeoCountries; i++ {
		if i < len(p.Geography) {
			row = append(row, p.Geography[i].Name, p.Geography[i].Share)
			continue
		}
		row = append(row, "", "")
	}

	return row
}

func summaryRow(r *domain.DomainResult) []string {
	return []string{r.Input, r.Domain, string(r.Status), r.Error}
}
