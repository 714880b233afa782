package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App struct {
		Port         string `mapstructure:"port"`
		Env          string `mapstructure:"env"`
		ReadTimeout  int    `mapstructure:"readTimeout"`
		WriteTimeout int    `mapstructure:"writeTimeout"`
	} `mapstructure:"app"`
	Stripe struct {
		APIKey string `mapstructure:"apiKey"`
	} `mapstructure:"stripe"`
	Twilio struct {
		AccountSID       string `mapstructure:"accountSid"`
		AuthToken        string `mapstructure:"authToken"`
		IdentityMatchURL string `mapstructure:"identityMatchUrl"`
	} `mapstructure:"twilio"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
}

// IsProduction возвращает true, если сервис запущен в production окружении.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// LookupConfigured возвращает true, если заданы креденшелы Twilio Lookup API.
func (c *Config) LookupConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != ""
}

// LoadConfig загружает конфигурацию из файла или переменных окружения.
func LoadConfig(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// .env опционален: локально удобно, в контейнере его нет
		_ = godotenv.Load(path)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv() // Чтение переменных окружения

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.App.ReadTimeout == 0 {
		config.App.ReadTimeout = 10
	}
	if config.App.WriteTimeout == 0 {
		config.App.WriteTimeout = 10
	}

	return &config, nil
}
