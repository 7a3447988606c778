package domain

// Cada domínio processado consome 25 créditos da cota da Similarweb
const (
	DefaultCreditsPerDomain = 25
	HighUsageMonthlyCredits = 10000
)

// CreditEstimate é o cálculo de custo exibido antes de rodar um lote
type CreditEstimate struct {
	DomainsPerMonth  int  `json:"domains_per_month"`
	CreditsPerDomain int  `json:"credits_per_domain"`
	MonthlyCredits   int  `json:"monthly_credits"`
	AnnualCredits    int  `json:"annual_credits"`
	HighUsage        bool `json:"high_usage"`
}

func EstimateCredits(domainsPerMonth, creditsPerDomain int) CreditEstimate {
	monthly := domainsPerMonth * creditsPerDomain
	return CreditEstimate{
		DomainsPerMonth:  domainsPerMonth,
		CreditsPerDomain: creditsPerDomain,
		MonthlyCredits:   monthly,
		AnnualCredits:    monthly * 12,
		HighUsage:        monthly > HighUsageMonthlyCredits,
	}
}

// CreditBalance é o saldo de créditos da chave, consultado sem consumir créditos
type CreditBalance struct {
	RemainingHits     *int `json:"remaining_hits"`
	CreditsPerDomain  int  `json:"credits_per_domain"`
	DomainsAffordable *int `json:"domains_affordable"`
}

func NewCreditBalance(remainingHits *int, creditsPerDomain int) CreditBalance {
	balance := CreditBalance{
		RemainingHits:    remainingHits,
		CreditsPerDomain: creditsPerDomain,
	}

	if remainingHits != nil && creditsPerDomain > 0 {
		affordable := *remainingHits / creditsPerDomain
		balance.DomainsAffordable = &affordable
	}

	return balance
}
