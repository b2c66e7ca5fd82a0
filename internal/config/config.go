package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Source       Source       `mapstructure:",squash"`
	Forecast     Forecast     `mapstructure:",squash"`
	PipelineSync PipelineSync `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	RateLimit    RateLimit    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port" validate:"required"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Enabled  bool   `mapstructure:"database_enabled"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`

	MaxOpenConns    int           `mapstructure:"database_max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime" validate:"gte=0"`
}

// Source descreve de onde vem o arquivo de vendas (URL http(s) ou caminho local)
type Source struct {
	Location     string        `mapstructure:"source_location"`
	Format       string        `mapstructure:"source_format" validate:"omitempty,oneof=csv xlsx"`
	Delimiter    string        `mapstructure:"source_delimiter" validate:"len=1"`
	FetchTimeout time.Duration `mapstructure:"source_fetch_timeout" validate:"gt=0"`
}

type Forecast struct {
	Horizon             int    `mapstructure:"forecast_horizon" validate:"gte=1"`
	Seed                int64  `mapstructure:"forecast_seed"` // 0 = semente baseada no relógio
	StrategiesFile      string `mapstructure:"forecast_strategies_file"`
	Baseline            string `mapstructure:"forecast_growth_baseline" validate:"oneof=last_point same_month"`
	RankingPeriodMonths int    `mapstructure:"ranking_period_months" validate:"gte=1"`
	TopItemsLimit       int    `mapstructure:"top_items_limit" validate:"gte=0"`
}

type PipelineSync struct {
	CronSchedule string `mapstructure:"pipeline_sync_cron"`
	Enabled      bool   `mapstructure:"pipeline_sync_enabled"`
}

type Auth struct {
	Secret            string `mapstructure:"auth_secret" validate:"required_with=AdminPasswordHash"`
	AdminEmail        string `mapstructure:"auth_admin_email"`
	AdminPasswordHash string `mapstructure:"auth_admin_password_hash"` // hash bcrypt
}

type RateLimit struct {
	PerMinute int `mapstructure:"pipeline_run_rate_per_minute" validate:"gte=1"`
	Burst     int `mapstructure:"pipeline_run_rate_burst" validate:"gte=1"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_ENABLED", false) // Snapshots só em memória por padrão
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales_forecast?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 5) // Um gravador de snapshot por execução
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("SOURCE_LOCATION", "./public/train.csv")
	viper.SetDefault("SOURCE_FORMAT", "") // Vazio = inferir pela extensão
	viper.SetDefault("SOURCE_DELIMITER", ",")
	viper.SetDefault("SOURCE_FETCH_TIMEOUT", "10s")

	viper.SetDefault("FORECAST_HORIZON", 12)
	viper.SetDefault("FORECAST_SEED", 0)
	viper.SetDefault("FORECAST_STRATEGIES_FILE", "")
	viper.SetDefault("FORECAST_GROWTH_BASELINE", "last_point")
	viper.SetDefault("RANKING_PERIOD_MONTHS", 12)
	viper.SetDefault("TOP_ITEMS_LIMIT", 5)

	viper.SetDefault("PIPELINE_SYNC_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("PIPELINE_SYNC_ENABLED", false)

	viper.SetDefault("AUTH_SECRET", "") // Obrigatório quando AUTH_ADMIN_PASSWORD_HASH estiver definido
	viper.SetDefault("AUTH_ADMIN_EMAIL", "admin@localhost")
	viper.SetDefault("AUTH_ADMIN_PASSWORD_HASH", "")

	viper.SetDefault("PIPELINE_RUN_RATE_PER_MINUTE", 6)
	viper.SetDefault("PIPELINE_RUN_RATE_BURST", 2)

	viper.SetDefault("LOG_LEVEL", "debug")
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

// MinSecretLength é o tamanho mínimo de AUTH_SECRET com o login de administrador habilitado
const MinSecretLength = 32

var ErrWeakSecret = errors.New("AUTH_SECRET fraco para assinar tokens")

// Validate verifica as restrições declaradas nas tags `validate`
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuração inválida: %w", err)
	}

	if c.Auth.AdminPasswordHash != "" && len(c.Auth.Secret) < MinSecretLength {
		return fmt.Errorf("configuração inválida: %w: mínimo de %d caracteres", ErrWeakSecret, MinSecretLength)
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
