package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderAPIKey is the sample value shipped in .env templates. A key
// equal to it is treated the same as a missing key.
const PlaceholderAPIKey = "your-api-key-here"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Image     ImageConfig     `yaml:"image"`
	Share     ShareConfig     `yaml:"share"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	// PublicBaseURL is used when composing share links. When empty the
	// request's Host header is used instead.
	PublicBaseURL string `yaml:"publicBaseUrl"`
}

// LLMConfig contains settings for the remote vision/text model provider.
type LLMConfig struct {
	APIKey            string  `yaml:"apiKey"`
	BaseURL           string  `yaml:"baseUrl"`
	VisionModel       string  `yaml:"visionModel"`
	TextModel         string  `yaml:"textModel"`
	Temperature       float32 `yaml:"temperature"`
	IdentifyMaxTokens int     `yaml:"identifyMaxTokens"`
	CarePlanMaxTokens int     `yaml:"carePlanMaxTokens"`
}

// CredentialsConfigured reports whether a usable API key is present.
func (c LLMConfig) CredentialsConfigured() bool {
	key := strings.TrimSpace(c.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

// ImageConfig bounds uploaded photos before they are sent upstream.
type ImageConfig struct {
	MaxSizeBytes int64 `yaml:"maxSizeBytes"`
	MaxEdge      int   `yaml:"maxEdge"`
	JPEGQuality  int   `yaml:"jpegQuality"`
}

// ShareConfig controls share-link lifetime and the optional valkey backend.
type ShareConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the share-link cache.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// RateLimitConfig drives the fixed-window limiting middleware. Each scope is
// an independent counter keyed by client IP except IdentifyGlobal, which is a
// single shared counter.
type RateLimitConfig struct {
	Enabled        bool        `yaml:"enabled"`
	IdentifyPerIP  WindowQuota `yaml:"identifyPerIp"`
	IdentifyGlobal WindowQuota `yaml:"identifyGlobal"`
	General        WindowQuota `yaml:"general"`
	PDFExport      WindowQuota `yaml:"pdfExport"`
	ShareCreation  WindowQuota `yaml:"shareCreation"`
}

// WindowQuota is one fixed-window counter definition.
type WindowQuota struct {
	Window time.Duration `yaml:"window"`
	Limit  int           `yaml:"limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.HTTP.PublicBaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_VISION_MODEL"); v != "" {
		cfg.LLM.VisionModel = v
	}
	if v := os.Getenv("LLM_TEXT_MODEL"); v != "" {
		cfg.LLM.TextModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("IMAGE_MAX_SIZE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Image.MaxSizeBytes = parsed
		}
	}
	if v := os.Getenv("IMAGE_MAX_EDGE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Image.MaxEdge = parsed
		}
	}
	if v := os.Getenv("SHARE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Share.TTL = parsed
		}
	}
	if v := os.Getenv("SHARE_VALKEY_ENABLED"); v != "" {
		cfg.Share.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SHARE_VALKEY_ADDR"); v != "" {
		cfg.Share.Valkey.Addr = v
	}
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			ReadTimeout: 15 * time.Second,
			// Two sequential model calls can take a while.
			WriteTimeout: 2 * time.Minute,
		},
		LLM: LLMConfig{
			VisionModel:       "gpt-4o-mini",
			TextModel:         "gpt-4o-mini",
			Temperature:       0.2,
			IdentifyMaxTokens: 1000,
			CarePlanMaxTokens: 2000,
		},
		Image: ImageConfig{
			MaxSizeBytes: 10 << 20,
			MaxEdge:      1024,
			JPEGQuality:  80,
		},
		Share: ShareConfig{
			TTL: 7 * 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			IdentifyPerIP:  WindowQuota{Window: time.Hour, Limit: 10},
			IdentifyGlobal: WindowQuota{Window: 24 * time.Hour, Limit: 1000},
			General:        WindowQuota{Window: 15 * time.Minute, Limit: 100},
			PDFExport:      WindowQuota{Window: time.Hour, Limit: 50},
			ShareCreation:  WindowQuota{Window: time.Hour, Limit: 20},
		},
	}
}

// Validate ensures the configuration is safe to use. A missing LLM API key is
// deliberately not an error here: the server must boot and report the
// configuration problem per request instead of refusing to start.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.LLM.VisionModel == "" {
		return errors.New("llm.visionModel cannot be empty")
	}
	if c.LLM.TextModel == "" {
		return errors.New("llm.textModel cannot be empty")
	}
	if c.LLM.IdentifyMaxTokens <= 0 {
		return errors.New("llm.identifyMaxTokens must be positive")
	}
	if c.LLM.CarePlanMaxTokens <= 0 {
		return errors.New("llm.carePlanMaxTokens must be positive")
	}
	if c.Image.MaxSizeBytes <= 0 {
		return errors.New("image.maxSizeBytes must be positive")
	}
	if c.Image.MaxEdge <= 0 {
		return errors.New("image.maxEdge must be positive")
	}
	if c.Image.JPEGQuality <= 0 || c.Image.JPEGQuality > 100 {
		return errors.New("image.jpegQuality must be within (0, 100]")
	}
	if c.Share.TTL <= 0 {
		return errors.New("share.ttl must be positive")
	}
	if c.Share.Valkey.Enabled && strings.TrimSpace(c.Share.Valkey.Addr) == "" {
		return errors.New("share.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.RateLimit.Enabled {
		for _, quota := range []struct {
			name string
			q    WindowQuota
		}{
			{"identifyPerIp", c.RateLimit.IdentifyPerIP},
			{"identifyGlobal", c.RateLimit.IdentifyGlobal},
			{"general", c.RateLimit.General},
			{"pdfExport", c.RateLimit.PDFExport},
			{"shareCreation", c.RateLimit.ShareCreation},
		} {
			if quota.q.Window <= 0 {
				return fmt.Errorf("rateLimit.%s.window must be positive", quota.name)
			}
			if quota.q.Limit <= 0 {
				return fmt.Errorf("rateLimit.%s.limit must be positive", quota.name)
			}
		}
	}
	return nil
}
