package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"roastcard/internal/domain/entity"
)

type Config struct {
	Server HTTPServerConfig `json:"server"`
	LLM    LLMConfig        `json:"llm"`
	Logo   LogoConfig       `json:"logo"`
	Render RenderConfig     `json:"render"`
	Mongo  MongoConfig      `json:"mongo"`
	Log    LogConfig        `json:"log"`
	Output OutputConfig     `json:"output"`
}

type HTTPServerConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	MetricsAddr    string        `json:"metrics_addr"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

type LLMConfig struct {
	APIKey  string        `json:"-"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

type LogoConfig struct {
	BaseURL          string        `json:"base_url"`
	Token            string        `json:"-"`
	Size             int           `json:"size"`
	Format           string        `json:"format"`
	Theme            string        `json:"theme"`
	PlaceholderBytes int64         `json:"placeholder_bytes"`
	Timeout          time.Duration `json:"timeout"`
}

type RenderConfig struct {
	TemplatePath string        `json:"template_path"`
	MascotPath   string        `json:"mascot_path"`
	ChromePath   string        `json:"chrome_path"`
	NoSandbox    bool          `json:"no_sandbox"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// MongoConfig enables the usage ledger when URI is set.
type MongoConfig struct {
	URI      string        `json:"-"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type OutputConfig struct {
	Dir string `json:"dir"`
}

func Default() *Config {
	return &Config{
		Server: HTTPServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			MetricsAddr:    ":2112",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   5 * time.Minute,
			RequestTimeout: 4 * time.Minute,
		},
		LLM: LLMConfig{
			Model:   "gemini-3-pro-preview",
			Timeout: 60 * time.Second,
		},
		Logo: LogoConfig{
			BaseURL:          "https://img.logo.dev",
			Token:            "pk_KV9Z5AZ6RKGwJDRsWiv80g",
			Size:             120,
			Format:           "png",
			Theme:            "light",
			PlaceholderBytes: 5000,
			Timeout:          10 * time.Second,
		},
		Render: RenderConfig{
			TemplatePath: "assets/card-template.html",
			MascotPath:   "assets/shiba.png",
			IdleTimeout:  15 * time.Second,
		},
		Mongo: MongoConfig{
			Database: "roastcard",
			Timeout:  10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Dir: "./cards",
		},
	}
}

// Load builds the configuration from defaults, the optional HCL file named by
// CONFIG_FILE and then the environment, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports entity.ErrMissingAPIKey when no model credential is set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return entity.ErrMissingAPIKey
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func (c *Config) ApplyEnv() error {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.MetricsAddr = getEnv("METRICS_ADDR", c.Server.MetricsAddr)
	c.LLM.APIKey = getEnv("GOOGLE_API_KEY", c.LLM.APIKey)
	c.LLM.Model = getEnv("GEMINI_MODEL", c.LLM.Model)
	c.Logo.BaseURL = getEnv("LOGO_DEV_BASE_URL", c.Logo.BaseURL)
	c.Logo.Token = getEnv("LOGO_DEV_TOKEN", c.Logo.Token)
	c.Render.TemplatePath = getEnv("TEMPLATE_PATH", c.Render.TemplatePath)
	c.Render.MascotPath = getEnv("MASCOT_PATH", c.Render.MascotPath)
	c.Render.ChromePath = getEnv("CHROME_PATH", c.Render.ChromePath)
	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DB", c.Mongo.Database)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Output.Dir = getEnv("OUTPUT_DIR", c.Output.Dir)

	var errs []error
	var err error
	if c.Server.Port, err = getEnvInt("SERVER_PORT", c.Server.Port); err != nil {
		errs = append(errs, err)
	}
	if c.Server.RequestTimeout, err = getEnvDuration("REQUEST_TIMEOUT", c.Server.RequestTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.LLM.Timeout, err = getEnvDuration("LLM_TIMEOUT", c.LLM.Timeout); err != nil {
		errs = append(errs, err)
	}
	if c.Logo.Timeout, err = getEnvDuration("LOGO_TIMEOUT", c.Logo.Timeout); err != nil {
		errs = append(errs, err)
	}
	if c.Render.IdleTimeout, err = getEnvDuration("RENDER_IDLE_TIMEOUT", c.Render.IdleTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.Render.NoSandbox, err = getEnvBool("CHROME_NO_SANDBOX", c.Render.NoSandbox); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
