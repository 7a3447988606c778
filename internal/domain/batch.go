package domain

import "time"

// BatchInput é a entrada do usuário, ainda não validada
type BatchInput struct {
	Domains        []string
	StartDate      string
	EndDate        string
	Country        string
	APIKey         string
	MainDomainOnly bool
}

// PlannedDomain é uma entrada do lote já normalizada. Err preenchido indica
// que o domínio não será enviado à API.
type PlannedDomain struct {
	Index  int
	Input  string
	Domain string
	Err    error
}

// BatchPlan é a entrada validada e imutável de uma execução
type BatchPlan struct {
	Entries        []PlannedDomain
	DateRange      DateRange
	Country        Country
	APIKey         string
	MainDomainOnly bool
}

// ValidCount retorna quantos domínios serão consultados
func (p *BatchPlan) ValidCount() int {
	count := 0
	for _, e := range p.Entries {
		if e.Err == nil {
			count++
		}
	}
	return count
}

// Request monta a requisição de enriquecimento de um domínio
func (p *BatchPlan) Request(domain string) EnrichmentRequest {
	return EnrichmentRequest{
		Domain:         domain,
		DateRange:      p.DateRange,
		Country:        p.Country.Code,
		APIKey:         p.APIKey,
		MainDomainOnly: p.MainDomainOnly,
	}
}

// EnrichmentRequest é criada por domínio e descartada após a chamada
type EnrichmentRequest struct {
	Domain         string
	DateRange      DateRange
	Country        string
	APIKey         string
	MainDomainOnly bool
}

type BatchState string

const (
	BatchStateRunning   BatchState = "running"
	BatchStateCompleted BatchState = "completed"
	BatchStateCancelled BatchState = "cancelled"
)

// Batch é o estado de um lote mantido em memória para download
type Batch struct {
	ID             string          `json:"id"`
	State          BatchState      `json:"state"`
	Country        string          `json:"country"`
	DateRange      DateRange       `json:"date_range"`
	MainDomainOnly bool            `json:"main_domain_only"`
	HaltedBy       Status          `json:"halted_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	Results        []*DomainResult `json:"-"`
}

// NewBatch cria um lote com uma posição de resultado por entrada
func NewBatch(id string, plan *BatchPlan, now time.Time) *Batch {
	return &Batch{
		ID:             id,
		State:          BatchStateRunning,
		Country:        plan.Country.Code,
		DateRange:      plan.DateRange,
		MainDomainOnly: plan.MainDomainOnly,
		CreatedAt:      now,
		Results:        make([]*DomainResult, len(plan.Entries)),
	}
}

// ProcessedResults retorna os resultados já registrados, na ordem da entrada
func (b *Batch) ProcessedResults() []*DomainResult {
	results := make([]*DomainResult, 0, len(b.Results))
	for _, r := range b.Results {
		if r != nil {
			results = append(results, r)
		}
	}
	return results
}

// Pending retorna quantas entradas ainda não têm resultado
func (b *Batch) Pending() int {
	return len(b.Results) - len(b.ProcessedResults())
}
