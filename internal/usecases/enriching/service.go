package enriching

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
)

const maxConcurrentRequests = 4

const maxAPIKeyLength = 256

// ResultSink recebe cada resultado assim que ele fica pronto
type ResultSink func(result *domain.DomainResult)

// Outcome é o resultado completo de uma execução, na ordem da entrada
type Outcome struct {
	Results   []*domain.DomainResult
	Summary   domain.BatchSummary
	HaltedBy  domain.Status
	Cancelled bool
}

type EnrichmentService interface {
	Plan(input domain.BatchInput) (*domain.BatchPlan, error)
	Execute(ctx context.Context, plan *domain.BatchPlan, sink ResultSink) *Outcome
}

type Service struct {
	similarwebService similarweb.SimilarwebIntegrator
	cfg               *config.Config
	now               func() time.Time
}

func NewService(similarwebService similarweb.SimilarwebIntegrator, cfg *config.Config) *Service {
	return &Service{
		similarwebService: similarwebService,
		cfg:               cfg,
		now:               time.Now,
	}
}

// Plan valida o lote inteiro. Erros globais impedem qualquer chamada; domínios
// inválidos ou repetidos seguem no plano com Err preenchido.
func (s *Service) Plan(input domain.BatchInput) (*domain.BatchPlan, error) {
	apiKey, err := validateAPIKey(input.APIKey)
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(input.Domains))
	for _, raw := range input.Domains {
		if entry := strings.TrimSpace(raw); entry != "" {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil, NewEnrichmentError(ErrNoDomains, apiErrors.ErrMissingRequiredData, "Informe ao menos um domínio")
	}

	maxDomains := s.maxDomains()
	if len(entries) > maxDomains {
		return nil, NewEnrichmentError(ErrTooManyDomains, apiErrors.ErrTooManyDomains,
			fmt.Sprintf("%d domínios informados, o máximo por lote é %d", len(entries), maxDomains))
	}

	dateRange, err := s.dateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, NewEnrichmentError(ErrInvalidDateRange, apiErrors.ErrInvalidDateRange, err.Error())
	}

	countryCode := input.Country
	if strings.TrimSpace(countryCode) == "" {
		countryCode = domain.WorldCountry
	}

	country, err := domain.LookupCountry(countryCode)
	if err != nil {
		return nil, NewEnrichmentError(ErrInvalidCountry, apiErrors.ErrInvalidCountry, err.Error())
	}

	plan := &domain.BatchPlan{
		Entries:        make([]domain.PlannedDomain, 0, len(entries)),
		DateRange:      dateRange,
		Country:        country,
		APIKey:         apiKey,
		MainDomainOnly: input.MainDomainOnly,
	}

	seen := make(map[string]struct{}, len(entries))
	for i, raw := range entries {
		host := domain.NormalizeDomain(raw)
		entry := domain.PlannedDomain{Index: i, Input: raw, Domain: host}

		if err := domain.ValidateDomain(host); err != nil {
			entry.Err = err
		} else if _, dup := seen[host]; dup {
			entry.Err = errors.Wrapf(domain.ErrInvalidInput, "duplicate domain %q", host)
		} else {
			seen[host] = struct{}{}
		}

		plan.Entries = append(plan.Entries, entry)
	}

	return plan, nil
}

// Execute consulta a Similarweb para cada domínio válido do plano. Cada
// resultado é entregue ao sink assim que fica pronto, inclusive os inválidos.
func (s *Service) Execute(ctx context.Context, plan *domain.BatchPlan, sink ResultSink) *Outcome {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"domains":    len(plan.Entries),
		"country":    plan.Country.Code,
		"date_start": plan.DateRange.Start.String(),
		"date_end":   plan.DateRange.End.String(),
	})

	run := &execution{
		results: make([]*domain.DomainResult, len(plan.Entries)),
		sink:    sink,
	}

	pending := make([]domain.PlannedDomain, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		if entry.Err != nil {
			run.record(domain.NewFailedResult(entry.Index, entry.Input, entry.Domain, entry.Err))
			continue
		}
		pending = append(pending, entry)
	}

	if len(pending) > 0 && s.cfg.Similarweb.PreflightEnabled {
		s.preflight(ctx, plan, run, logger)
	}

	concurrency := s.concurrency()
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, entry := range pending {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			run.skip(entry, errors.Wrap(domain.ErrCancelled, "domain not requested"))
			continue
		}

		if ctx.Err() != nil {
			<-sem
			run.skip(entry, errors.Wrap(domain.ErrCancelled, "domain not requested"))
			continue
		}

		if haltErr := run.haltError(); haltErr != nil {
			<-sem
			run.skip(entry, errors.Wrap(haltErr, "domain not requested, batch halted"))
			continue
		}

		wg.Add(1)
		go func(entry domain.PlannedDomain) {
			defer wg.Done()
			defer func() { <-sem }()

			s.enrichDomain(ctx, plan, entry, run)
		}(entry)
	}

	wg.Wait()

	outcome := &Outcome{
		Results:   run.results,
		Summary:   domain.Summarize(run.results, s.creditsPerDomain()),
		Cancelled: ctx.Err() != nil,
	}
	if haltErr := run.haltError(); haltErr != nil {
		outcome.HaltedBy = domain.StatusFromError(haltErr)
	}

	logger.WithFields(log.Fields{
		"succeeded":         outcome.Summary.Succeeded,
		"failed":            outcome.Summary.Failed,
		"halted_by":         outcome.HaltedBy,
		"cancelled":         outcome.Cancelled,
		"credits_estimated": outcome.Summary.CreditsEstimated,
	}).Info("Lote de enriquecimento finalizado")

	return outcome
}

// preflight valida a chave sem consumir créditos. Só falhas de autenticação,
// cota ou cancelamento interrompem o lote; as demais apenas geram aviso.
func (s *Service) preflight(ctx context.Context, plan *domain.BatchPlan, run *execution, logger log.Logger) {
	remaining, err := s.similarwebService.CheckAPIKey(ctx, plan.APIKey)
	if err != nil {
		status := domain.StatusFromError(err)
		if status.HaltsBatch() {
			logger.WithError(err).Warn("Chave recusada na verificação prévia, lote interrompido")
			run.halt(err)
			return
		}

		logger.WithError(err).Warn("Verificação prévia da chave falhou, seguindo com o lote")
		return
	}

	if remaining == nil {
		return
	}

	needed := plan.ValidCount() * s.creditsPerDomain()
	if *remaining < needed {
		logger.WithFields(log.Fields{
			"remaining_hits": *remaining,
			"needed_credits": needed,
		}).Warn("Créditos restantes podem não cobrir o lote")
	}
}

func (s *Service) enrichDomain(ctx context.Context, plan *domain.BatchPlan, entry domain.PlannedDomain, run *execution) {
	logger := log.ForContext(ctx).WithField("domain", entry.Domain)

	metadata, timeSeries, err := s.similarwebService.Enrich(ctx, plan.Request(entry.Domain))
	if err != nil {
		result := domain.NewFailedResult(entry.Index, entry.Input, entry.Domain, err)
		if result.Status.HaltsBatch() {
			run.halt(err)
		}

		logger.WithField("status", result.Status).WithError(err).Warn("Falha ao enriquecer domínio")
		run.record(result)
		return
	}

	logger.Debug("Domínio enriquecido")
	run.record(&domain.DomainResult{
		Index:      entry.Index,
		Input:      entry.Input,
		Domain:     entry.Domain,
		Status:     domain.StatusOK,
		Metadata:   metadata,
		TimeSeries: timeSeries,
	})
}

func validateAPIKey(raw string) (string, error) {
	apiKey := strings.TrimSpace(raw)
	if apiKey == "" {
		return "", NewEnrichmentError(ErrMissingAPIKey, apiErrors.ErrMissingAPIKey, "Informe a chave da API da Similarweb")
	}
	if len(apiKey) > maxAPIKeyLength || strings.IndexFunc(apiKey, invalidAPIKeyRune) >= 0 {
		return "", NewEnrichmentError(ErrInvalidAPIKeyFormat, apiErrors.ErrInvalidFormat, "A chave da API deve ter no máximo 256 caracteres, sem espaços")
	}
	return apiKey, nil
}

func invalidAPIKeyRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

func (s *Service) dateRange(start, end string) (domain.DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return domain.DefaultDateRange(s.now()), nil
	}
	return domain.NewDateRange(start, end)
}

func (s *Service) maxDomains() int {
	if s.cfg.Enrichment.MaxDomains <= 0 || s.cfg.Enrichment.MaxDomains > domain.MaxDomainsPerBatch {
		return domain.MaxDomainsPerBatch
	}
	return s.cfg.Enrichment.MaxDomains
}

func (s *Service) concurrency() int {
	switch n := s.cfg.Enrichment.MaxConcurrentRequests; {
	case n < 1:
		return 1
	case n > maxConcurrentRequests:
		return maxConcurrentRequests
	default:
		return n
	}
}

func (s *Service) creditsPerDomain() int {
	if s.cfg.Enrichment.CreditsPerDomain <= 0 {
		return domain.DefaultCreditsPerDomain
	}
	return s.cfg.Enrichment.CreditsPerDomain
}

// execution guarda o estado compartilhado de uma execução
type execution struct {
	mu      sync.Mutex
	results []*domain.DomainResult
	haltErr error
	sink    ResultSink
}

func (e *execution) record(result *domain.DomainResult) {
	e.mu.Lock()
	e.results[result.Index] = result
	e.mu.Unlock()

	if e.sink != nil {
		e.sink(result)
	}
}

func (e *execution) skip(entry domain.PlannedDomain, err error) {
	e.record(domain.NewFailedResult(entry.Index, entry.Input, entry.Domain, err))
}

func (e *execution) halt(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.haltErr == nil {
		e.haltErr = err
	}
}

func (e *execution) haltError() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.haltErr
}
