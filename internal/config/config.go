package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App      `mapstructure:",squash"`
	Server    Server   `mapstructure:",squash"`
	Database  Database `mapstructure:",squash"`
	Ads       Ads      `mapstructure:",squash"`
	Auth      Auth     `mapstructure:",squash"`
	Guardian  Guardian `mapstructure:",squash"`
	SecretKey string   `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Ads configura o acesso à plataforma de anúncios externa
type Ads struct {
	BaseURL        string    `mapstructure:"ads_base_url"`
	URL            string    `mapstructure:"-"`
	Version        string    `mapstructure:"ads_version"`
	AccessToken    string    `mapstructure:"ads_access_token"`
	ClientID       string    `mapstructure:"ads_client_id"`
	ClientSecret   string    `mapstructure:"ads_client_secret"`
	RefreshToken   string    `mapstructure:"ads_refresh_token"`
	TokenExpiresAt time.Time `mapstructure:"-"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret               string `mapstructure:"auth_secret"`
	OperatorUsername     string `mapstructure:"operator_username"`
	OperatorPasswordHash string `mapstructure:"operator_password_hash"`
}

// Guardian reúne os parâmetros do loop de controle. Limites ausentes ou
// malformados impedem a aplicação de iniciar (ver Validate).
type Guardian struct {
	TickIntervalMinutes     int     `mapstructure:"guardian_tick_interval_minutes"`
	HysteresisTicks         int     `mapstructure:"guardian_hysteresis_ticks"`
	MinClicksForDecision    int64   `mapstructure:"guardian_min_clicks_for_decision"`
	BreakevenCost           float64 `mapstructure:"guardian_breakeven_cost"`
	AbsoluteLossLimit       float64 `mapstructure:"guardian_absolute_loss_limit"`
	LossRateLimitPerHour    float64 `mapstructure:"guardian_loss_rate_limit_per_hour"`
	LossWindowHours         int     `mapstructure:"guardian_loss_window_hours"`
	AcceptableLossInterval  float64 `mapstructure:"guardian_acceptable_loss_per_interval"`
	OverpaceRatio           float64 `mapstructure:"guardian_overpace_ratio"`
	HistoryTicks            int     `mapstructure:"guardian_history_ticks"`
	MaxConcurrentFetches    int     `mapstructure:"guardian_max_concurrent_fetches"`
	RetryMaxAttempts        int     `mapstructure:"guardian_retry_max_attempts"`
	RetryBackoffBaseSeconds float64 `mapstructure:"guardian_retry_backoff_base_seconds"`
	Enabled                 bool    `mapstructure:"guardian_enabled"`
}

// LossWindow é a duração da janela móvel do registro de perdas
func (g Guardian) LossWindow() time.Duration {
	return time.Duration(g.LossWindowHours) * time.Hour
}

// TickInterval é o intervalo fixo entre execuções do loop
func (g Guardian) TickInterval() time.Duration {
	return time.Duration(g.TickIntervalMinutes) * time.Minute
}

// RetryBackoffBase é o delay base das retentativas do aplicador de ações
func (g Guardian) RetryBackoffBase() time.Duration {
	return time.Duration(g.RetryBackoffBaseSeconds * float64(time.Second))
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/guardian")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("ADS_BASE_URL", "https://ads.example.com")
	viper.SetDefault("ADS_VERSION", "v3")
	viper.SetDefault("ADS_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("ADS_CLIENT_ID", "your_client_id")
	viper.SetDefault("ADS_CLIENT_SECRET", "your_client_secret")
	viper.SetDefault("ADS_REFRESH_TOKEN", "")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")
	viper.SetDefault("OPERATOR_USERNAME", "operator")
	viper.SetDefault("OPERATOR_PASSWORD_HASH", "")

	// Defaults do loop de proteção
	viper.SetDefault("GUARDIAN_TICK_INTERVAL_MINUTES", 15)          // Intervalo fixo entre ticks
	viper.SetDefault("GUARDIAN_HYSTERESIS_TICKS", 2)                // Ticks consecutivos antes de pausar/retomar
	viper.SetDefault("GUARDIAN_MIN_CLICKS_FOR_DECISION", 10)        // Abaixo disso a confiança é baixa
	viper.SetDefault("GUARDIAN_BREAKEVEN_COST", 45.0)               // Custo de equilíbrio por conversão
	viper.SetDefault("GUARDIAN_ABSOLUTE_LOSS_LIMIT", 100.0)         // Perda acumulada que dispara o circuito
	viper.SetDefault("GUARDIAN_LOSS_RATE_LIMIT_PER_HOUR", 25.0)     // Taxa de perda por hora que dispara o circuito
	viper.SetDefault("GUARDIAN_LOSS_WINDOW_HOURS", 24)              // Janela móvel do registro de perdas
	viper.SetDefault("GUARDIAN_ACCEPTABLE_LOSS_PER_INTERVAL", 0.0)  // Perda tolerada por intervalo antes de contar
	viper.SetDefault("GUARDIAN_OVERPACE_RATIO", 1.5)                // Razão de ritmo que gera recomendação de ajuste
	viper.SetDefault("GUARDIAN_HISTORY_TICKS", 96)                  // Decisões recentes carregadas na inicialização
	viper.SetDefault("GUARDIAN_MAX_CONCURRENT_FETCHES", 3)          // Buscas de métricas concorrentes por tick
	viper.SetDefault("GUARDIAN_RETRY_MAX_ATTEMPTS", 3)              // Tentativas por chamada à plataforma
	viper.SetDefault("GUARDIAN_RETRY_BACKOFF_BASE_SECONDS", 1.0)    // Base do backoff exponencial
	viper.SetDefault("GUARDIAN_ENABLED", false)                     // Inicia desativado; ativar via API

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
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

	config.Ads.URL = fmt.Sprintf("%s/%s", config.Ads.BaseURL, config.Ads.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejeita configuração ausente ou malformada na inicialização
func (c *Config) Validate() error {
	g := c.Guardian

	if g.TickIntervalMinutes < 1 {
		return fmt.Errorf("configuração inválida: guardian_tick_interval_minutes deve ser >= 1, recebido %d", g.TickIntervalMinutes)
	}
	if g.HysteresisTicks < 1 {
		return fmt.Errorf("configuração inválida: guardian_hysteresis_ticks deve ser >= 1, recebido %d", g.HysteresisTicks)
	}
	if g.MinClicksForDecision < 0 {
		return fmt.Errorf("configuração inválida: guardian_min_clicks_for_decision não pode ser negativo")
	}
	if g.BreakevenCost <= 0 {
		return fmt.Errorf("configuração inválida: guardian_breakeven_cost deve ser > 0, recebido %f", g.BreakevenCost)
	}
	if g.AbsoluteLossLimit <= 0 {
		return fmt.Errorf("configuração inválida: guardian_absolute_loss_limit deve ser > 0, recebido %f", g.AbsoluteLossLimit)
	}
	if g.LossRateLimitPerHour <= 0 {
		return fmt.Errorf("configuração inválida: guardian_loss_rate_limit_per_hour deve ser > 0, recebido %f", g.LossRateLimitPerHour)
	}
	if g.LossWindowHours < 1 {
		return fmt.Errorf("configuração inválida: guardian_loss_window_hours deve ser >= 1, recebido %d", g.LossWindowHours)
	}
	if g.AcceptableLossInterval < 0 {
		return fmt.Errorf("configuração inválida: guardian_acceptable_loss_per_interval não pode ser negativo")
	}
	if g.OverpaceRatio <= 1 {
		return fmt.Errorf("configuração inválida: guardian_overpace_ratio deve ser > 1, recebido %f", g.OverpaceRatio)
	}
	if g.HistoryTicks < 1 {
		return fmt.Errorf("configuração inválida: guardian_history_ticks deve ser >= 1, recebido %d", g.HistoryTicks)
	}
	if g.MaxConcurrentFetches < 1 {
		return fmt.Errorf("configuração inválida: guardian_max_concurrent_fetches deve ser >= 1, recebido %d", g.MaxConcurrentFetches)
	}
	if g.RetryMaxAttempts < 1 {
		return fmt.Errorf("configuração inválida: guardian_retry_max_attempts deve ser >= 1, recebido %d", g.RetryMaxAttempts)
	}
	if g.RetryBackoffBaseSeconds <= 0 {
		return fmt.Errorf("configuração inválida: guardian_retry_backoff_base_seconds deve ser > 0, recebido %f", g.RetryBackoffBaseSeconds)
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
