package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Google GoogleConfig
	Admin  AdminConfig
	Gemini GeminiConfig
	Logger LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type GoogleConfig struct {
	// ClientSecret and RedirectURL come from deployment config; the client
	// ID itself is supplied by the administrator at runtime and kept in
	// storage.
	ClientSecret     string        `yaml:"client_secret"`
	RedirectURL      string        `yaml:"redirect_url"`
	SpreadsheetTitle string        `yaml:"spreadsheet_title"`
	CallTimeout      time.Duration `yaml:"call_timeout"`
}

type AdminConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	DefaultPassword string        `yaml:"default_password"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

const defaultSpreadsheetTitle = "유아 컴퓨팅 사고력 검사 결과 (CT Assessment)"

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("google.spreadsheet_title", defaultSpreadsheetTitle)
	viper.SetDefault("google.call_timeout", 15)
	viper.SetDefault("admin.token_ttl", 3600)
	viper.SetDefault("admin.default_password", "1234")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Google: GoogleConfig{
			ClientSecret:     viper.GetString("google.client_secret"),
			RedirectURL:      viper.GetString("google.redirect_url"),
			SpreadsheetTitle: viper.GetString("google.spreadsheet_title"),
			CallTimeout:      viper.GetDuration("google.call_timeout") * time.Second,
		},
		Admin: AdminConfig{
			JWTSecret:       viper.GetString("admin.jwt_secret"),
			TokenTTL:        viper.GetDuration("admin.token_ttl") * time.Second,
			DefaultPassword: viper.GetString("admin.default_password"),
		},
		Gemini: GeminiConfig{
			APIKey: viper.GetString("gemini.api_key"),
			Model:  viper.GetString("gemini.model"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		config.Redis.Address = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		config.Google.ClientSecret = secret
	}
	if url := os.Getenv("GOOGLE_REDIRECT_URL"); url != "" {
		config.Google.RedirectURL = url
	}
	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		config.Admin.JWTSecret = secret
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}

	return config, nil
}
