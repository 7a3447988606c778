package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type enrichOptions struct {
	domainsFile    string
	startDate      string
	endDate        string
	country        string
	outDir         string
	apiKey         string
	perDomain      bool
	zip            bool
	excelBOM       bool
	mainDomainOnly bool
	jsonSummary    bool
}

var opts enrichOptions

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enriquece uma lista de domínios com dados da Similarweb e grava os CSVs",
	Long: `Lê um domínio por linha, consulta a Similarweb para cada um e grava
similarweb_metadata.csv, similarweb_time_series.csv e similarweb_summary.csv.
Ctrl-C interrompe o lote e grava o que já foi obtido.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEnrich(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

var creditsCmd = &cobra.Command{
	Use:          "credits",
	Short:        "Mostra o saldo de créditos da chave sem consumir créditos",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCredits(cmd.Context(), cmd.OutOrStdout(), opts.apiKey)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Chave da API da Similarweb (padrão: SIMILARWEB_API_KEY)")

	rootCmd.Flags().StringVarP(&opts.domainsFile, "domains-file", "f", "", "Arquivo com um domínio por linha (- para stdin)")
	rootCmd.Flags().StringVar(&opts.startDate, "start", "", "Mês inicial no formato YYYY-MM (padrão: 4 meses atrás)")
	rootCmd.Flags().StringVar(&opts.endDate, "end", "", "Mês final no formato YYYY-MM (padrão: 2 meses atrás)")
	rootCmd.Flags().StringVar(&opts.country, "country", "world", "País do filtro de tráfego")
	rootCmd.Flags().StringVarP(&opts.outDir, "out", "o", "output", "Diretório de saída")
	rootCmd.Flags().BoolVar(&opts.perDomain, "per-domain", false, "Grava também um par de CSVs por domínio")
	rootCmd.Flags().BoolVar(&opts.zip, "zip", false, "Grava um único similarweb_data.zip")
	rootCmd.Flags().BoolVar(&opts.excelBOM, "excel-bom", false, "Inclui o BOM UTF-8 para abrir no Excel")
	rootCmd.Flags().BoolVar(&opts.mainDomainOnly, "main-domain-only", false, "Ignora subdomínios na consulta")
	rootCmd.Flags().BoolVar(&opts.jsonSummary, "json", false, "Imprime o resumo final em JSON")
	_ = rootCmd.MarkFlagRequired("domains-file")

	rootCmd.AddCommand(creditsCmd)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
