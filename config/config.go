package config

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	OTP      OTPConfig      `mapstructure:"otp"`
	Email    EmailConfig    `mapstructure:"email"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig MySQL configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig token signing configuration. Access tokens authorize API calls
// after signin, reset tokens authorize exactly one password change.
type JWTConfig struct {
	Secret           string        `mapstructure:"secret"`
	AccessExpireMin  int           `mapstructure:"access_expire_minutes"`
	ResetExpireMin   int           `mapstructure:"reset_expire_minutes"`
	AccessExpireTime time.Duration `mapstructure:"-"`
	ResetExpireTime  time.Duration `mapstructure:"-"`
}

// OTPConfig one-time passcode configuration
type OTPConfig struct {
	ExpireMin  int           `mapstructure:"expire_minutes"`
	ExpireTime time.Duration `mapstructure:"-"`
}

// EmailConfig SMTP configuration
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

var (
	// GlobalConfig global configuration instance
	GlobalConfig *Config
)

// LoadConfig loads configuration.
// Precedence: environment variables > external config file > embedded defaults.
// configPath: optional path to an external config file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. Load the embedded defaults first
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("failed to read embedded config: %w", err)
	}

	// 2. Merge an optional external config file on top
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged external config file: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/expense-tracker")
		externalViper.AddConfigPath("$HOME/.expense-tracker")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("warning: failed to merge external config: %v", err)
			} else {
				log.Printf("merged external config file: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. Environment variable overrides, e.g. TRACKER_JWT_SECRET
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Access tokens default to 60 minutes, reset tokens to 1 hour,
	// OTP codes to 10 minutes.
	if cfg.JWT.AccessExpireMin <= 0 {
		cfg.JWT.AccessExpireMin = 60
	}
	if cfg.JWT.ResetExpireMin <= 0 {
		cfg.JWT.ResetExpireMin = 60
	}
	if cfg.OTP.ExpireMin <= 0 {
		cfg.OTP.ExpireMin = 10
	}
	cfg.JWT.AccessExpireTime = time.Duration(cfg.JWT.AccessExpireMin) * time.Minute
	cfg.JWT.ResetExpireTime = time.Duration(cfg.JWT.ResetExpireMin) * time.Minute
	cfg.OTP.ExpireTime = time.Duration(cfg.OTP.ExpireMin) * time.Minute

	GlobalConfig = &cfg

	return &cfg, nil
}

// MustLoadConfig loads configuration and panics on failure
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// GetConfig returns the global configuration
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("config not initialized, call LoadConfig first")
	}
	return GlobalConfig
}

// PrintConfig prints the current configuration (sensitive values hidden)
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("current config:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  database: %s@%s:%s/%s",
		GlobalConfig.Database.Username,
		GlobalConfig.Database.Host,
		GlobalConfig.Database.Port,
		GlobalConfig.Database.DBName)
	log.Printf("  email service: %v", GlobalConfig.Email.Enabled)
	log.Printf("  access token ttl: %v", GlobalConfig.JWT.AccessExpireTime)
}

// SafeErrorMessage returns a generic fallback outside debug mode so that
// internal error detail is never leaked to clients.
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "debug" {
		return fallback + ": " + err.Error()
	}
	return fallback
}
