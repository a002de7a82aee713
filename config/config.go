package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion string `mapstructure:"GENERAL_VERSION"`
	Environment    string `mapstructure:"ENVIRONMENT"`

	ServerHost       string `mapstructure:"SERVER_HOST"`
	ServerPort       int    `mapstructure:"SERVER_PORT"`
	CorsAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`

	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost         string `mapstructure:"DATABASE_HOST"`
	DatabasePort         int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser         string `mapstructure:"DATABASE_USER"`
	DatabasePassword     string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName         string `mapstructure:"DATABASE_NAME"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	SessionTTLHours       int    `mapstructure:"SESSION_TTL_HOURS"`
	SecuritySigningSecret string `mapstructure:"SECURITY_SIGNING_SECRET"`

	StorageResumeDir string `mapstructure:"STORAGE_RESUME_DIR"`
	StoragePublicURL string `mapstructure:"STORAGE_PUBLIC_URL"`

	PixelID string `mapstructure:"PIXEL_ID"`

	AdminSeedEmail    string `mapstructure:"ADMIN_SEED_EMAIL"`
	AdminSeedPassword string `mapstructure:"ADMIN_SEED_PASSWORD"`
}

var keys = []string{
	"GENERAL_VERSION",
	"ENVIRONMENT",
	"SERVER_HOST",
	"SERVER_PORT",
	"CORS_ALLOW_ORIGINS",
	"DATABASE_DRIVER",
	"DATABASE_DB_PATH",
	"DATABASE_HOST",
	"DATABASE_PORT",
	"DATABASE_USER",
	"DATABASE_PASSWORD",
	"DATABASE_NAME",
	"DATABASE_CACHE_ADDRESS",
	"DATABASE_CACHE_PORT",
	"SESSION_TTL_HOURS",
	"SECURITY_SIGNING_SECRET",
	"STORAGE_RESUME_DIR",
	"STORAGE_PUBLIC_URL",
	"PIXEL_ID",
	"ADMIN_SEED_EMAIL",
	"ADMIN_SEED_PASSWORD",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8280)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DB_PATH", "data/agency.db")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_CACHE_ADDRESS", "localhost")
	v.SetDefault("DATABASE_CACHE_PORT", 6379)
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("STORAGE_RESUME_DIR", "data/resumes")
	v.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8280")
}

func InitConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about during Unmarshal.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) Validate() error {
	if c.SecuritySigningSecret == "" {
		return errors.New("SECURITY_SIGNING_SECRET is required")
	}

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for the postgres driver")
		}
	default:
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}

	return nil
}

func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CorsAllowOrigins, ",") {
		if v := strings.TrimSpace(origin); v != "" {
			origins = append(origins, v)
		}
	}
	return origins
}
