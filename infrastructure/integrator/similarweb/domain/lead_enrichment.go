package similarwebdomain

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Scalar aceita qualquer escalar JSON (string, número, booleano ou null) e
// guarda sua representação textual. A API alterna entre números e strings
// para o mesmo campo dependendo do domínio.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*s = ""
	case trimmed[0] == '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*s = Scalar(value)
	default:
		*s = Scalar(trimmed)
	}

	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// Meta acompanha todas as respostas da API
type Meta struct {
	Status       string `json:"status"`
	ErrorCode    int    `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	LastUpdated  string `json:"last_updated,omitempty"`
}

// LeadEnrichmentResponse representa o retorno do endpoint lead-enrichment/all
type LeadEnrichmentResponse struct {
	Meta Meta `json:"meta"`

	GlobalRank            Scalar `json:"global_rank"`
	CategoryRank          Scalar `json:"category_rank"`
	CompanyName           Scalar `json:"company_name"`
	SiteType              Scalar `json:"site_type"`
	SiteTypeNew           Scalar `json:"site_type_new"`
	EmployeeRange         Scalar `json:"employee_range"`
	EstimatedRevenueInUSD Scalar `json:"estimated_revenue_in_usd"`
	OnlineRevenueRange    Scalar `json:"online_revenue_range"`
	Headquarters          Scalar `json:"headquarters"`
	WebsiteCategory       Scalar `json:"website_category"`
	WebsiteCategoryNew    Scalar `json:"website_category_new"`
	ZipCode               Scalar `json:"zip_code"`

	Visits               []MetricPoint         `json:"visits"`
	UniqueVisitors       []MetricPoint         `json:"unique_visitors"`
	BounceRate           []MetricPoint         `json:"bounce_rate"`
	PagesPerVisit        []MetricPoint         `json:"pages_per_visit"`
	AverageVisitDuration []MetricPoint         `json:"average_visit_duration"`
	MoMGrowth            []MetricPoint         `json:"mom_growth"`
	MobileDesktopShare   []DeviceSharePoint    `json:"mobile_desktop_share"`
	TrafficSources       []TrafficSourcesPoint `json:"traffic_sources"`
	GeographyShare       []GeographyPoint      `json:"geography_share"`
}

// IsEmpty indica que a API não tem nenhum dado para o domínio
func (r *LeadEnrichmentResponse) IsEmpty() bool {
	staticFields := []Scalar{
		r.GlobalRank, r.CategoryRank, r.CompanyName, r.SiteType, r.SiteTypeNew,
		r.EmployeeRange, r.EstimatedRevenueInUSD, r.OnlineRevenueRange,
		r.Headquarters, r.WebsiteCategory, r.WebsiteCategoryNew, r.ZipCode,
	}
	for _, f := range staticFields {
		if f != "" {
			return false
		}
	}

	return len(r.Visits) == 0 && len(r.UniqueVisitors) == 0 && len(r.BounceRate) == 0 &&
		len(r.PagesPerVisit) == 0 && len(r.AverageVisitDuration) == 0 && len(r.MoMGrowth) == 0 &&
		len(r.MobileDesktopShare) == 0 && len(r.TrafficSources) == 0 && len(r.GeographyShare) == 0
}

type MetricPoint struct {
	Date  string `json:"date"`
	Value Scalar `json:"value"`
}

type DeviceShare struct {
	DesktopShare Scalar `json:"desktop_share"`
	MobileShare  Scalar `json:"mobile_share"`
}

type DeviceSharePoint struct {
	Date  string       `json:"date"`
	Value *DeviceShare `json:"value"`
}

type TrafficSource struct {
	SourceType string `json:"source_type"`
	Share      Scalar `json:"share"`
}

type TrafficSourcesPoint struct {
	Date  string          `json:"date"`
	Value []TrafficSource `json:"value"`
}

type CountryShare struct {
	Country Scalar `json:"country"`
	Share   Scalar `json:"share"`
}

type GeographyPoint struct {
	Date  string         `json:"date"`
	Value []CountryShare `json:"value"`
}

// MonthKey reduz "2024-01-01" ou "2024-01" à chave do mês (YYYY-MM)
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
