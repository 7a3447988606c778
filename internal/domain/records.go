package domain

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// TrafficSourceOther soma os tipos de fonte fora da lista fixa
const TrafficSourceOther = "other"

// TrafficSources são os tipos de fonte de tráfego com coluna fixa no CSV
var TrafficSources = []string{"direct", "referrals", "search", "social", "mail", "display_ads", TrafficSourceOther}

var sourceTypeAliases = map[string]string{
	"organic_search": "search",
	"paid_search":    "search",
	"email":          "mail",
}

// MaxGeoCountries é o número de países mantidos por mês
const MaxGeoCountries = 10

// ShareEntry é um par nome/participação (fonte de tráfego ou país)
type ShareEntry struct {
	Name  string `json:"name"`
	Share string `json:"share"`
}

// MetadataRecord reúne os dados estáticos de um domínio
type MetadataRecord struct {
	Domain              string       `json:"domain"`
	GlobalRank          string       `json:"global_rank"`
	CategoryRank        string       `json:"category_rank"`
	CompanyName         string       `json:"company_name"`
	SiteType            string       `json:"site_type"`
	SiteTypeNew         string       `json:"site_type_new"`
	EmployeeRange       string       `json:"employee_range"`
	EstimatedRevenueUSD string       `json:"estimated_revenue_in_usd"`
	OnlineRevenueRange  string       `json:"online_revenue_range"`
	Headquarters        string       `json:"headquarters"`
	WebsiteCategory     string       `json:"website_category"`
	WebsiteCategoryNew  string       `json:"website_category_new"`
	ZipCode             string       `json:"zip_code"`
	DesktopShare        string       `json:"desktop_share"`
	MobileShare         string       `json:"mobile_share"`
	TopTrafficSources   []ShareEntry `json:"top_traffic_sources"`
	GeoDistribution     []ShareEntry `json:"geo_distribution"`
}

// MonthlyMetrics são as métricas de um domínio em um mês
type MonthlyMetrics struct {
	Month                Month             `json:"month"`
	Visits               string            `json:"visits"`
	UniqueVisitors       string            `json:"unique_visitors"`
	BounceRate           string            `json:"bounce_rate"`
	PagesPerVisit        string            `json:"pages_per_visit"`
	AverageVisitDuration string            `json:"average_visit_duration"`
	MoMGrowth            string            `json:"mom_growth"`
	DesktopShare         string            `json:"desktop_share"`
	MobileShare          string            `json:"mobile_share"`
	TrafficSources       map[string]string `json:"traffic_sources"`
	Geography            []ShareEntry      `json:"geography"`
}

// HasBreakdown indica se o mês tem dados de dispositivo, fonte ou geografia
func (m *MonthlyMetrics) HasBreakdown() bool {
	return m.DesktopShare != "" || m.MobileShare != "" || len(m.TrafficSources) > 0 || len(m.Geography) > 0
}

// TimeSeriesRecord tem exatamente um ponto por mês do intervalo solicitado
type TimeSeriesRecord struct {
	Domain string           `json:"domain"`
	Points []MonthlyMetrics `json:"points"`
}

// Latest retorna o mês mais recente com algum detalhamento, ou nil
func (r *TimeSeriesRecord) Latest() *MonthlyMetrics {
	if r == nil {
		return nil
	}

	for i := len(r.Points) - 1; i >= 0; i-- {
		if r.Points[i].HasBreakdown() {
			return &r.Points[i]
		}
	}

	return nil
}

// NormalizeSourceType converte "Display Ads" em "display_ads"
func NormalizeSourceType(sourceType string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sourceType)), " ", "_")
}

// SourceColumn devolve a coluna fixa do tipo de fonte. Tipos desconhecidos
// caem em TrafficSourceOther com known=false.
func SourceColumn(sourceType string) (column string, known bool) {
	normalized := NormalizeSourceType(sourceType)
	if alias, ok := sourceTypeAliases[normalized]; ok {
		return alias, true
	}
	if slices.Contains(TrafficSources, normalized) {
		return normalized, true
	}
	return TrafficSourceOther, false
}

// AddShare soma share ao valor já acumulado na coluna. O primeiro valor é
// mantido como veio da API.
func AddShare(current, share string) string {
	if current == "" {
		return share
	}
	if share == "" {
		return current
	}

	sum := math.Round((parseShare(current)+parseShare(share))*1e10) / 1e10
	return strconv.FormatFloat(sum, 'f', -1, 64)
}

// TopShares ordena por participação decrescente e mantém os n primeiros.
// Empates são resolvidos pelo nome para manter a saída determinística.
func TopShares(entries []ShareEntry, n int) []ShareEntry {
	sorted := make([]ShareEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := parseShare(sorted[i].Share), parseShare(sorted[j].Share)
		if si != sj {
			return si > sj
		}
		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// JoinShares serializa as participações como "nome:valor;nome:valor"
func JoinShares(entries []ShareEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Name+":"+e.Share)
	}
	return strings.Join(parts, ";")
}

func parseShare(value string) float64 {
	share, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return share
}
