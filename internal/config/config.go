package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Importer  ImporterConfig  `mapstructure:"importer"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr        string `mapstructure:"addr"`
	AdminAPIKey string `mapstructure:"admin_api_key"`
}

type SQLiteConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type ImporterConfig struct {
	DefaultCountryCode string `mapstructure:"default_country_code"`
}

type BreakerConfig struct {
	FailThreshold int           `mapstructure:"fail_threshold"`
	OpenFor       time.Duration `mapstructure:"open_for"`
}

type WhatsAppConfig struct {
	Token         string        `mapstructure:"token"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	AdminPhone    string        `mapstructure:"admin_phone"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

type ReminderConfig struct {
	Template string `mapstructure:"template"`
	Offsets  []int  `mapstructure:"offsets"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (POLGW_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (POLGW_*)
	v.SetEnvPrefix("POLGW")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
