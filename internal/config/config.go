package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config es el objeto de configuración del proceso: se construye una sola
// vez en el arranque y se pasa explícito a los componentes (inmutable, sin
// globals escondidos).
type Config struct {
	AppName string
	Port    string

	DatabaseURL string

	LogLevel  string
	LogFormat string

	// Política de status inicial por género cuando el caller no manda uno.
	DefaultMaleStatus   string
	DefaultFemaleStatus string

	Firebase Firebase
}

// Firebase configura el adapter del identity provider.
type Firebase struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Configured indica si el verifier puede instanciarse.
func (f Firebase) Configured() bool {
	return strings.TrimSpace(f.BaseURL) != "" && strings.TrimSpace(f.APIKey) != ""
}

// Load lee config desde env vars (APP_NAME, PORT, DATABASE_URL,
// FIREBASE_BASE_URL, ...) y opcionalmente un config.yaml en el cwd.
// Env pisa archivo; los defaults dejan el proceso usable en modo dev.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("app_name", "apnifarm-api")
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("default_male_status", "Calf")
	v.SetDefault("default_female_status", "Heifer")
	v.SetDefault("firebase.base_url", "")
	v.SetDefault("firebase.api_key", "")
	v.SetDefault("firebase.timeout", 5*time.Second)
	v.SetDefault("firebase.cache_ttl", 5*time.Minute)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		// Sin archivo está bien: env + defaults
	}

	return Config{
		AppName:             v.GetString("app_name"),
		Port:                v.GetString("port"),
		DatabaseURL:         v.GetString("database_url"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		DefaultMaleStatus:   v.GetString("default_male_status"),
		DefaultFemaleStatus: v.GetString("default_female_status"),
		Firebase: Firebase{
			BaseURL:  v.GetString("firebase.base_url"),
			APIKey:   v.GetString("firebase.api_key"),
			Timeout:  v.GetDuration("firebase.timeout"),
			CacheTTL: v.GetDuration("firebase.cache_ttl"),
		},
	}, nil
}
