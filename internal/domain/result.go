package domain

// DomainResult é o resultado de um domínio do lote, na posição da entrada
type DomainResult struct {
	Index      int               `json:"index"`
	Input      string            `json:"input"`
	Domain     string            `json:"domain"`
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Metadata   *MetadataRecord   `json:"-"`
	TimeSeries *TimeSeriesRecord `json:"-"`
}

func (r *DomainResult) Succeeded() bool {
	return r != nil && r.Status == StatusOK && r.Metadata != nil
}

// NewFailedResult cria o resultado de um domínio que falhou, a partir do erro
func NewFailedResult(index int, input, domain string, err error) *DomainResult {
	result := &DomainResult{
		Index:  index,
		Input:  input,
		Domain: domain,
		Status: StatusFromError(err),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// SkippedDomain é um domínio omitido dos CSVs de dados
type SkippedDomain struct {
	Input  string `json:"input"`
	Domain string `json:"domain"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchSummary resume o lote por status
type BatchSummary struct {
	Total            int             `json:"total"`
	Succeeded        int             `json:"succeeded"`
	Failed           int             `json:"failed"`
	ByStatus         map[Status]int  `json:"by_status"`
	Skipped          []SkippedDomain `json:"skipped"`
	CreditsEstimated int             `json:"credits_estimated"`
}

// Summarize conta os resultados por status. Créditos são estimados apenas para os
// domínios enriquecidos com sucesso.
func Summarize(results []*DomainResult, creditsPerDomain int) BatchSummary {
	summary := BatchSummary{
		ByStatus: make(map[Status]int),
		Skipped:  make([]SkippedDomain, 0),
	}

	for _, r := range results {
		if r == nil {
			continue
		}

		summary.Total++
		summary.ByStatus[r.Status]++

		if r.Succeeded() {
			summary.Succeeded++
			summary.CreditsEstimated += creditsPerDomain
			continue
		}

		summary.Failed++
		summary.Skipped = append(summary.Skipped, SkippedDomain{
			Input:  r.Input,
			Domain: r.Domain,
			Status: r.Status,
			Error:  r.Error,
		})
	}

	return summary
}
