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
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	SnapshotSync SnapshotSync `mapstructure:",squash"`
	Turnover     Turnover     `mapstructure:",squash"`
	Validation   Validation   `mapstructure:",squash"`
	Notification Notification `mapstructure:",squash"`
	Metrics      Metrics      `mapstructure:",squash"`
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

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type SnapshotSync struct {
	Enabled              bool          `mapstructure:"snapshot_sync_enabled"`
	CronSchedule         string        `mapstructure:"snapshot_sync_cron"`
	RetryCronSchedule    string        `mapstructure:"snapshot_retry_cron"`
	Timezone             string        `mapstructure:"snapshot_timezone"`
	MaxConcurrentJobs    int           `mapstructure:"snapshot_max_concurrent_jobs"`
	BackfillDelaySeconds int           `mapstructure:"snapshot_backfill_delay_seconds"`
	BackfillMaxDays      int           `mapstructure:"snapshot_backfill_max_days"`
	MaxRetries           int           `mapstructure:"snapshot_max_retries"`
	RetryDelay           time.Duration `mapstructure:"snapshot_retry_delay"`
	RetryRetention       time.Duration `mapstructure:"snapshot_retry_retention"`
	QualityThreshold     float64       `mapstructure:"snapshot_quality_threshold"`
	AutoFixEnabled       bool          `mapstructure:"snapshot_auto_fix_enabled"`
	UpsertBatchSize      int           `mapstructure:"snapshot_upsert_batch_size"`
}

type Turnover struct {
	ShortageDays   float64 `mapstructure:"turnover_shortage_days"`
	NormalDays     float64 `mapstructure:"turnover_normal_days"`
	SufficientDays float64 `mapstructure:"turnover_sufficient_days"`
	SentinelDays   float64 `mapstructure:"turnover_sentinel_days"`
}

type Validation struct {
	SampleSize            int     `mapstructure:"validation_sample_size"`
	AmountTolerance       float64 `mapstructure:"validation_amount_tolerance"`
	RatioTolerance        float64 `mapstructure:"validation_ratio_tolerance"`
	ZScoreThreshold       float64 `mapstructure:"validation_zscore_threshold"`
	CoverageThreshold     float64 `mapstructure:"validation_coverage_threshold"`
	LowCompletenessScore  float64 `mapstructure:"validation_low_completeness_score"`
	LowCompletenessShare  float64 `mapstructure:"validation_low_completeness_share"`
	TurnoverOutlierFactor float64 `mapstructure:"validation_turnover_outlier_factor"`
}

type Notification struct {
	WebhookURL     string        `mapstructure:"notify_webhook_url"`
	WebhookTimeout time.Duration `mapstructure:"notify_webhook_timeout"`
	KafkaBrokers   []string      `mapstructure:"notify_kafka_brokers"`
	KafkaTopic     string        `mapstructure:"notify_kafka_topic"`
}

type Metrics struct {
	BufferSize int    `mapstructure:"metrics_buffer_size"`
	Namespace  string `mapstructure:"metrics_namespace"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/analyst?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Defaults para o pipeline de snapshots
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)            // Habilitar agendamento diário
	viper.SetDefault("SNAPSHOT_SYNC_CRON", "0 2 * * *")         // Todos os dias às 2h da manhã
	viper.SetDefault("SNAPSHOT_RETRY_CRON", "0 * * * *")        // A cada hora
	viper.SetDefault("SNAPSHOT_TIMEZONE", "Local")              // Fuso usado para calcular T-1
	viper.SetDefault("SNAPSHOT_MAX_CONCURRENT_JOBS", 4)         // Grupos agregados em paralelo
	viper.SetDefault("SNAPSHOT_BACKFILL_DELAY_SECONDS", 5)      // Pausa entre dias do backfill
	viper.SetDefault("SNAPSHOT_BACKFILL_MAX_DAYS", 366)         // Tamanho máximo de um backfill
	viper.SetDefault("SNAPSHOT_MAX_RETRIES", 3)                 // Tentativas antes de exigir intervenção
	viper.SetDefault("SNAPSHOT_RETRY_DELAY", "30m")             // Espera fixa entre tentativas
	viper.SetDefault("SNAPSHOT_RETRY_RETENTION", "24h")         // Idade máxima de tarefa elegível
	viper.SetDefault("SNAPSHOT_QUALITY_THRESHOLD", 0.8)         // Nota mínima do validador
	viper.SetDefault("SNAPSHOT_AUTO_FIX_ENABLED", true)         // Corrigir campos recalculáveis
	viper.SetDefault("SNAPSHOT_UPSERT_BATCH_SIZE", 500)         // Linhas por INSERT

	viper.SetDefault("TURNOVER_SHORTAGE_DAYS", 7)
	viper.SetDefault("TURNOVER_NORMAL_DAYS", 30)
	viper.SetDefault("TURNOVER_SUFFICIENT_DAYS", 60)
	viper.SetDefault("TURNOVER_SENTINEL_DAYS", 999)

	viper.SetDefault("VALIDATION_SAMPLE_SIZE", 50)
	viper.SetDefault("VALIDATION_AMOUNT_TOLERANCE", 0.01)
	viper.SetDefault("VALIDATION_RATIO_TOLERANCE", 1e-6)
	viper.SetDefault("VALIDATION_ZSCORE_THRESHOLD", 3.0)
	viper.SetDefault("VALIDATION_COVERAGE_THRESHOLD", 0.9)
	viper.SetDefault("VALIDATION_LOW_COMPLETENESS_SCORE", 0.5)
	viper.SetDefault("VALIDATION_LOW_COMPLETENESS_SHARE", 0.5)
	viper.SetDefault("VALIDATION_TURNOVER_OUTLIER_FACTOR", 2.0)

	viper.SetDefault("NOTIFY_WEBHOOK_URL", "")
	viper.SetDefault("NOTIFY_WEBHOOK_TIMEOUT", "10s")
	viper.SetDefault("NOTIFY_KAFKA_BROKERS", "")
	viper.SetDefault("NOTIFY_KAFKA_TOPIC", "snapshot-task-events")

	viper.SetDefault("METRICS_BUFFER_SIZE", 256)
	viper.SetDefault("METRICS_NAMESPACE", "analyst")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")
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
	}

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Notification.KafkaBrokers = compact(config.Notification.KafkaBrokers)
	config.Server.AllowedOrigins = compact(config.Server.AllowedOrigins)

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

// Validate rejeita combinações de parâmetros que deixariam o pipeline inconsistente
func (c *Config) Validate() error {
	t := c.Turnover
	if !(t.ShortageDays < t.NormalDays && t.NormalDays < t.SufficientDays && t.SufficientDays < t.SentinelDays) {
		return fmt.Errorf("limites de giro devem ser crescentes: %v < %v < %v < %v",
			t.ShortageDays, t.NormalDays, t.SufficientDays, t.SentinelDays)
	}

	s := c.SnapshotSync
	if s.QualityThreshold <= 0 || s.QualityThreshold > 1 {
		return fmt.Errorf("snapshot_quality_threshold deve estar em (0, 1]: %v", s.QualityThreshold)
	}
	if s.MaxConcurrentJobs < 1 {
		return fmt.Errorf("snapshot_max_concurrent_jobs deve ser ao menos 1: %d", s.MaxConcurrentJobs)
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("snapshot_max_retries não pode ser negativo: %d", s.MaxRetries)
	}
	if s.UpsertBatchSize < 1 {
		return fmt.Errorf("snapshot_upsert_batch_size deve ser ao menos 1: %d", s.UpsertBatchSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Location resolve o fuso configurado para cálculo de T-1 e do cron
func (c *Config) Location() (*time.Location, error) {
	switch c.SnapshotSync.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.SnapshotSync.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %q: %w", c.SnapshotSync.Timezone, err)
	}
	return loc, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
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
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
