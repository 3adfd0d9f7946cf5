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

const (
	RegistryDriverJSON     = "json"
	RegistryDriverPostgres = "postgres"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Access         Access         `mapstructure:",squash"`
	Storage        Storage        `mapstructure:",squash"`
	Registry       Registry       `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Analysis       Analysis       `mapstructure:",squash"`
	StagingCleanup StagingCleanup `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type App struct {
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Server struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type Access struct {
	AdminCode             string `mapstructure:"admin_code"`
	DeleteTokenTTLMinutes int    `mapstructure:"delete_token_ttl_minutes"`
}

type Storage struct {
	DataDir           string `mapstructure:"data_dir"`
	MaxUploadBytes    int64  `mapstructure:"max_upload_bytes"`
	StagingTTLMinutes int    `mapstructure:"staging_ttl_minutes"`
}

type Registry struct {
	Driver string `mapstructure:"registry_driver"`
	File   string `mapstructure:"registry_file"`
}

type Database struct {
	DSN             string        `mapstructure:"-"`
	Driver          string        `mapstructure:"database_driver"`
	Password        string        `mapstructure:"database_password"`
	URL             string        `mapstructure:"database_url"`
	User            string        `mapstructure:"database_user"`
	MaxOpenConns    int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"database_conn_max_lifetime"`
}

type Analysis struct {
	MaxMonths       int    `mapstructure:"max_months"`
	OnInvertedRange string `mapstructure:"on_inverted_range"`
}

type StagingCleanup struct {
	CronSchedule string `mapstructure:"staging_cleanup_cron"`
	Enabled      bool   `mapstructure:"staging_cleanup_enabled"`
}

// DeleteTokenTTL é a validade do token de confirmação de exclusão
func (a Access) DeleteTokenTTL() time.Duration {
	return time.Duration(a.DeleteTokenTTLMinutes) * time.Minute
}

// StagingTTL é o tempo que um upload não confirmado fica guardado
func (s Storage) StagingTTL() time.Duration {
	return time.Duration(s.StagingTTLMinutes) * time.Minute
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8501)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8501")

	viper.SetDefault("ADMIN_CODE", "admin2024")
	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("DELETE_TOKEN_TTL_MINUTES", 5)

	viper.SetDefault("DATA_DIR", "datos")
	viper.SetDefault("MAX_UPLOAD_BYTES", 10<<20) // 10 MiB
	viper.SetDefault("STAGING_TTL_MINUTES", 60)

	viper.SetDefault("REGISTRY_DRIVER", RegistryDriverJSON)
	viper.SetDefault("REGISTRY_FILE", "clientes.json")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("MAX_MONTHS", 240)
	viper.SetDefault("ON_INVERTED_RANGE", "reject")

	viper.SetDefault("STAGING_CLEANUP_CRON", "*/30 * * * *") // A cada 30 minutos
	viper.SetDefault("STAGING_CLEANUP_ENABLED", true)

	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8501")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

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

	if err := config.validate(); err != nil {
		return nil, err
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

func (c *Config) validate() error {
	switch c.Registry.Driver {
	case RegistryDriverJSON, RegistryDriverPostgres:
	default:
		return fmt.Errorf("REGISTRY_DRIVER inválido: %q (use json ou postgres)", c.Registry.Driver)
	}

	if c.Access.AdminCode == "" {
		return fmt.Errorf("ADMIN_CODE não pode ser vazio")
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES deve ser positivo")
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
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
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
