package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/similarwebclient"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/exporting"
	"github.com/vfg2006/lead-enrichment-api/pkg/utils"
)

func newEnrichmentService() (*enriching.Service, *config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}

	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	integrator := similarweb.New(cfg, similarwebclient.NewClient(cfg))
	return enriching.NewService(integrator, cfg), cfg, nil
}

// resolveAPIKey dá prioridade à flag e cai para SIMILARWEB_API_KEY
func resolveAPIKey(flagValue string, cfg *config.Config) string {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key
	}
	return cfg.Similarweb.APIKey
}

func runEnrich(ctx context.Context, out io.Writer, opts enrichOptions) error {
	text, err := readDomains(opts.domainsFile, os.Stdin)
	if err != nil {
		return err
	}

	service, cfg, err := newEnrichmentService()
	if err != nil {
		return err
	}

	plan, err := service.Plan(domain.BatchInput{
		Domains:        domain.ParseDomainList(text),
		StartDate:      opts.startDate,
		EndDate:        opts.endDate,
		Country:        opts.country,
		APIKey:         resolveAPIKey(opts.apiKey, cfg),
		MainDomainOnly: opts.mainDomainOnly,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Consultando %d domínios (%s a %s, %s)\n",
		plan.ValidCount(), plan.DateRange.Start, plan.DateRange.End, plan.Country.Name)

	outcome := service.Execute(ctx, plan, progressSink(out, len(plan.Entries)))

	files, err := exporting.NewAssembler(opts.excelBOM).WriteDir(opts.outDir, outcome.Results, exporting.Options{
		PerDomain: opts.perDomain,
		Zip:       opts.zip,
	})
	if err != nil {
		return errors.Wrap(err, "writing output files")
	}

	if opts.jsonSummary {
		fmt.Fprintln(out, utils.PrettyJson(outcome.Summary))
	} else {
		printSummary(out, outcome, files)
	}

	if outcome.HaltedBy != "" {
		return errors.Errorf("batch halted: %s", outcome.HaltedBy)
	}
	if outcome.Cancelled {
		return errors.Wrap(domain.ErrCancelled, "interrupted")
	}

	return nil
}

func runCredits(ctx context.Context, out io.Writer, apiKey string) error {
	service, cfg, err := newEnrichmentService()
	if err != nil {
		return err
	}

	balance, err := service.RemainingCredits(ctx, resolveAPIKey(apiKey, cfg))
	if err != nil {
		return err
	}

	if balance.RemainingHits == nil {
		fmt.Fprintln(out, "Chave válida, saldo não informado pela Similarweb")
		return nil
	}

	fmt.Fprintf(out, "Créditos restantes: %d (%d domínios a %d créditos)\n",
		*balance.RemainingHits, *balance.DomainsAffordable, balance.CreditsPerDomain)
	return nil
}

// readDomains lê o arquivo de domínios. "-" lê da entrada padrão.
func readDomains(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		var sb strings.Builder
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			sb.WriteString(scanner.Text())
			sb.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading domains from stdin")
		}
		return sb.String(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading domains file %s", path)
	}
	return string(data), nil
}

func progressSink(out io.Writer, total int) enriching.ResultSink {
	var mu sync.Mutex
	done := 0

	return func(result *domain.DomainResult) {
		mu.Lock()
		defer mu.Unlock()

		done++
		line := fmt.Sprintf("[%d/%d] %s: %s", done, total, result.Domain, result.Status)
		if result.Error != "" {
			line += " (" + result.Error + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func printSummary(out io.Writer, outcome *enriching.Outcome, files []string) {
	summary := outcome.Summary

	fmt.Fprintf(out, "\nTotal: %d, sucesso: %d, falha: %d, créditos estimados: %d\n",
		summary.Total, summary.Succeeded, summary.Failed, summary.CreditsEstimated)

	for _, status := range domain.Statuses {
		if count := summary.ByStatus[status]; count > 0 && status != domain.StatusOK {
			fmt.Fprintf(out, "  %s: %d\n", status, count)
		}
	}

	if outcome.HaltedBy != "" {
		fmt.Fprintf(out, "Lote interrompido por %s\n", outcome.HaltedBy)
	}
	if outcome.Cancelled {
		fmt.Fprintln(out, "Lote cancelado, arquivos contêm apenas os resultados obtidos")
	}

	for _, file := range files {
		fmt.Fprintf(out, "Arquivo gravado: %s\n", file)
	}
}
