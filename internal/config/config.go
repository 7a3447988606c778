package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Similarweb     Similarweb     `mapstructure:",squash"`
	Enrichment     Enrichment     `mapstructure:",squash"`
	BatchRetention BatchRetention `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Similarweb struct {
	URL               string  `mapstructure:"similarweb_url"`
	APIKey            string  `mapstructure:"similarweb_api_key"`
	TimeoutSeconds    int     `mapstructure:"similarweb_timeout_seconds"`
	RetryDelaySeconds int     `mapstructure:"similarweb_retry_delay_seconds"`
	RequestsPerSecond float64 `mapstructure:"similarweb_requests_per_second"`
	PreflightEnabled  bool    `mapstructure:"similarweb_preflight_enabled"`
}

func (s Similarweb) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s Similarweb) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

type Enrichment struct {
	MaxDomains            int `mapstructure:"enrichment_max_domains"`
	MaxConcurrentRequests int `mapstructure:"enrichment_max_concurrent_requests"`
	CreditsPerDomain      int `mapstructure:"enrichment_credits_per_domain"`
}

type BatchRetention struct {
	CronSchedule     string `mapstructure:"batch_cleanup_cron"`
	RetentionMinutes int    `mapstructure:"batch_retention_minutes"`
	Enabled          bool   `mapstructure:"batch_cleanup_enabled"`
}

func (b BatchRetention) Retention() time.Duration {
	return time.Duration(b.RetentionMinutes) * time.Minute
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("SIMILARWEB_URL", "https://api.similarweb.com")
	viper.SetDefault("SIMILARWEB_API_KEY", "")             // Apenas para o CLI; a API recebe a chave do usuário
	viper.SetDefault("SIMILARWEB_TIMEOUT_SECONDS", 30)     // Timeout de cada requisição
	viper.SetDefault("SIMILARWEB_RETRY_DELAY_SECONDS", 2)  // Espera antes da única nova tentativa
	viper.SetDefault("SIMILARWEB_REQUESTS_PER_SECOND", 2)  // Ritmo máximo de chamadas à API
	viper.SetDefault("SIMILARWEB_PREFLIGHT_ENABLED", true) // Valida a chave antes de gastar créditos

	viper.SetDefault("ENRICHMENT_MAX_DOMAINS", 100)
	viper.SetDefault("ENRICHMENT_MAX_CONCURRENT_REQUESTS", 1) // Sequencial por padrão
	viper.SetDefault("ENRICHMENT_CREDITS_PER_DOMAIN", 25)

	viper.SetDefault("BATCH_CLEANUP_CRON", "*/10 * * * *") // A cada 10 minutos
	viper.SetDefault("BATCH_RETENTION_MINUTES", 60)        // Lotes ficam disponíveis por 1 hora
	viper.SetDefault("BATCH_CLEANUP_ENABLED", true)

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Debug("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.normalize()

	return config, nil
}

// normalize garante limites seguros para a API externa
func (c *Config) normalize() {
	if c.Enrichment.MaxDomains <= 0 || c.Enrichment.MaxDomains > 100 {
		c.Enrichment.MaxDomains = 100
	}

	if c.Enrichment.MaxConcurrentRequests < 1 {
		c.Enrichment.MaxConcurrentRequests = 1
	}
	if c.Enrichment.MaxConcurrentRequests > 4 {
		logrus.WithField("requested", c.Enrichment.MaxConcurrentRequests).
			Warn("config: max concurrent requests capped at 4 to respect vendor rate limits")
		c.Enrichment.MaxConcurrentRequests = 4
	}

	if c.Enrichment.CreditsPerDomain <= 0 {
		c.Enrichment.CreditsPerDomain = 25
	}

	if c.Similarweb.RequestsPerSecond <= 0 {
		c.Similarweb.RequestsPerSecond = 2
	}

	if c.Similarweb.RetryDelaySeconds < 0 {
		c.Similarweb.RetryDelaySeconds = 0
	}
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Debug("Arquivo .env carregado com sucesso de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando variáveis de ambiente")
}
