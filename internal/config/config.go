package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DefaultGroupings = "pid,c,geo,install_time,app_id"
	DefaultKPIs      = "impressions,clicks,average_ecpi,installs,cr,cost,revenue,roi," +
		"cohort_day_1_total_revenue_per_user,cohort_day_3_total_revenue_per_user," +
		"cohort_day_7_total_revenue_per_user,cohort_day_30_total_revenue_per_user"
)

var (
	ErrMissingAPIToken    = errors.New("appsflyer_api_token é obrigatório")
	ErrMissingAppID       = errors.New("appsflyer_app_id é obrigatório")
	ErrInvalidUpToDaysAgo = errors.New("appsflyer_up_to_days_ago deve ser maior ou igual a zero")
	ErrInvalidDateRange   = errors.New("appsflyer_date_range deve ser maior ou igual a um")
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	AppsFlyer        AppsFlyer        `mapstructure:",squash"`
	MasterReportSync MasterReportSync `mapstructure:",squash"`
	Auth             Auth             `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type AppsFlyer struct {
	BaseURL           string `mapstructure:"appsflyer_base_url"`
	ReportPath        string `mapstructure:"appsflyer_report_path"`
	ReportVersion     string `mapstructure:"appsflyer_report_version"`
	APIToken          string `mapstructure:"appsflyer_api_token"`
	AppID             string `mapstructure:"appsflyer_app_id"`
	Groupings         string `mapstructure:"appsflyer_groupings"`
	KPIs              string `mapstructure:"appsflyer_kpis"`
	UpToDaysAgo       int    `mapstructure:"appsflyer_up_to_days_ago"`
	DateRange         int    `mapstructure:"appsflyer_date_range"`
	TimeoutSeconds    int    `mapstructure:"appsflyer_timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"appsflyer_requests_per_minute"`
	MaxRetries        int    `mapstructure:"appsflyer_max_retries"`
}

type MasterReportSync struct {
	CronSchedule        string `mapstructure:"master_report_sync_cron"`
	RequestDelaySeconds int    `mapstructure:"master_report_sync_request_delay_seconds"`
	Enabled             bool   `mapstructure:"master_report_sync_enabled"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/appsflyer?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("APPSFLYER_BASE_URL", "https://hq.appsflyer.com")
	viper.SetDefault("APPSFLYER_REPORT_PATH", "/export/master_report/v4")
	viper.SetDefault("APPSFLYER_REPORT_VERSION", "v4")
	viper.SetDefault("APPSFLYER_API_TOKEN", "")
	viper.SetDefault("APPSFLYER_APP_ID", "")
	viper.SetDefault("APPSFLYER_GROUPINGS", DefaultGroupings)
	viper.SetDefault("APPSFLYER_KPIS", DefaultKPIs)
	viper.SetDefault("APPSFLYER_UP_TO_DAYS_AGO", 1) // Dados de ontem para trás
	viper.SetDefault("APPSFLYER_DATE_RANGE", 7)     // 7 dias por sincronização
	viper.SetDefault("APPSFLYER_TIMEOUT_SECONDS", 60)
	viper.SetDefault("APPSFLYER_REQUESTS_PER_MINUTE", 10) // Limite documentado da Master API
	viper.SetDefault("APPSFLYER_MAX_RETRIES", 3)

	viper.SetDefault("MASTER_REPORT_SYNC_CRON", "0 2 * * *")        // Todos os dias às 2h da manhã
	viper.SetDefault("MASTER_REPORT_SYNC_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre janelas
	viper.SetDefault("MASTER_REPORT_SYNC_ENABLED", false)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
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
		return nil, errors.Wrap(err, "erro ao decodificar configuração")
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica a configuração mínima para iniciar uma sincronização.
// Deve ser chamado antes de qualquer janela ser planejada.
func (c *Config) Validate() error {
	if c.AppsFlyer.APIToken == "" {
		return ErrMissingAPIToken
	}
	if c.AppsFlyer.AppID == "" {
		return ErrMissingAppID
	}
	if c.AppsFlyer.UpToDaysAgo < 0 {
		return errors.Wrapf(ErrInvalidUpToDaysAgo, "recebido %d", c.AppsFlyer.UpToDaysAgo)
	}
	if c.AppsFlyer.DateRange < 1 {
		return errors.Wrapf(ErrInvalidDateRange, "recebido %d", c.AppsFlyer.DateRange)
	}
	return nil
}

// ReportURL monta a URL completa do relatório
func (a AppsFlyer) ReportURL() string {
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.TrimLeft(a.ReportPath, "/")
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
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
