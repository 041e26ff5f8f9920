package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/sebas2906/portfolio/pkg/chat"
)

type Config struct {
	App     AppConfig
	Chat    ChatConfig
	Storage StorageConfig
}

type AppConfig struct {
	FPS           int    `validate:"min=1,max=240"`
	ContentPath   string // empty means built-in content
	GradientPath  string `validate:"required"`
	LogFilePath   string `validate:"required"`
	ReducedMotion bool
	Verbose       bool
}

type ChatConfig struct {
	Endpoint string `validate:"required,url"`
	// TokenURL is the challenge endpoint; empty uses StaticToken.
	TokenURL    string `validate:"omitempty,url"`
	StaticToken string
}

type StorageConfig struct {
	DBPath    string `validate:"required"`
	Ephemeral bool
}

// Load reads .env if present, then PORTFOLIO_* variables over defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: could not read .env: %v", err)
	}

	stateDir := defaultStateDir()
	return &Config{
		App: AppConfig{
			FPS:           getEnvAsInt("PORTFOLIO_FPS", 30),
			ContentPath:   getEnv("PORTFOLIO_CONTENT", ""),
			GradientPath:  getEnv("PORTFOLIO_GRADIENT", filepath.Join("textures", "gradients", "3.jpg")),
			LogFilePath:   getEnv("PORTFOLIO_LOG_FILE", filepath.Join(stateDir, "portfolio.log")),
			ReducedMotion: getEnvAsBool("PORTFOLIO_REDUCED_MOTION", false),
			Verbose:       getEnvAsBool("PORTFOLIO_VERBOSE", false),
		},
		Chat: ChatConfig{
			Endpoint:    getEnv("PORTFOLIO_CHAT_ENDPOINT", chat.DefaultEndpoint),
			TokenURL:    getEnv("PORTFOLIO_TOKEN_URL", ""),
			StaticToken: getEnv("PORTFOLIO_STATIC_TOKEN", "local"),
		},
		Storage: StorageConfig{
			DBPath:    getEnv("PORTFOLIO_DB", filepath.Join(stateDir, "state.db")),
			Ephemeral: getEnvAsBool("PORTFOLIO_EPHEMERAL", false),
		},
	}
}

var validate = validator.New()

// Validate checks the final configuration, after flags were applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "portfolio")
	}
	return ".portfolio"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
