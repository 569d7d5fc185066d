// Load envs from .env
// Load YAML config
// Override from env, fill defaults, validate

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AuthMode selects how the sign-in scenario gets an authenticated session.
type AuthMode string

const (
	AuthCredentials AuthMode = "credentials"
	AuthGoogle      AuthMode = "google"
	AuthManual      AuthMode = "manual"
	AuthCookies     AuthMode = "cookies"
)

var (
	ErrMissingBaseURL     = errors.New("base_url is required (set PROBE_BASE_URL)")
	ErrMissingCredentials = errors.New("email and password are required for this auth_mode (set PROBE_EMAIL and PROBE_PASSWORD)")
)

type Config struct {
	//Target app
	BaseURL    string   `yaml:"base_url" validate:"omitempty,url"`
	CustomerID string   `yaml:"customer_id"`
	AuthMode   AuthMode `yaml:"auth_mode" validate:"oneof=credentials google manual cookies"`
	//Credentials come from env only in practice, never commit them
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	//Browser
	Headless bool `yaml:"headless"`
	SlowMoMs int  `yaml:"slow_mo_ms" validate:"gte=0"`
	Viewport struct {
		Width  int `yaml:"width" validate:"gt=0"`
		Height int `yaml:"height" validate:"gt=0"`
	} `yaml:"viewport"`
	Locale string `yaml:"locale"`
	//Probing
	VisibleTimeoutMs int `yaml:"visible_timeout_ms" validate:"gte=0"`
	ActionTimeoutMs  int `yaml:"action_timeout_ms" validate:"gte=0"`
	ScanLimit        int `yaml:"scan_limit" validate:"gte=0,lte=500"`
	AuthPollSeconds  int `yaml:"auth_poll_seconds" validate:"gt=0"`
	//Paths
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	TargetsPath   string `yaml:"targets_path"`
	//Reporting (optional)
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id" validate:"required_with=TelegramToken"`
	//Scheduling (empty schedule means run once)
	Schedule string `yaml:"schedule"`
	Timezone string `yaml:"timezone"`
	//Probe service
	ServerAddr string `yaml:"server_addr"`
	Debug      bool   `yaml:"debug"`
}

// DefaultPath is where Load looks for YAML unless PROBE_CONFIG says otherwise.
const DefaultPath = "configs/config.yaml"

// Load reads .env, the YAML file, env overrides and defaults, then validates
// everything a live probe run needs. A missing YAML file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(configPath())
}

// LoadService is Load for the HTTP probe service, which never talks to the
// app and so needs neither base_url nor credentials.
func LoadService() (*Config, error) {
	_ = godotenv.Load()
	return LoadServiceFile(configPath())
}

func configPath() string {
	if p := os.Getenv("PROBE_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadFile is Load with an explicit YAML path and no .env handling.
func LoadFile(path string) (*Config, error) {
	cfg, err := LoadServiceFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateApp(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadServiceFile is LoadService with an explicit YAML path.
func LoadServiceFile(path string) (*Config, error) {
	cfg := &Config{Headless: true}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.BaseURL, "PROBE_BASE_URL")
	setString(&c.CustomerID, "PROBE_CUSTOMER_ID")
	setString(&c.Email, "PROBE_EMAIL")
	setString(&c.Password, "PROBE_PASSWORD")
	setString(&c.CookiesPath, "PROBE_COOKIES_PATH")
	setString(&c.ScreenshotDir, "PROBE_SCREENSHOT_DIR")
	setString(&c.TargetsPath, "PROBE_TARGETS_PATH")
	setString(&c.ServerAddr, "PROBE_SERVER_ADDR")
	setString(&c.Schedule, "PROBE_SCHEDULE")
	setString(&c.Timezone, "PROBE_TIMEZONE")
	setString(&c.TelegramToken, "TELEGRAM_BOT_TOKEN")
	if mode := os.Getenv("PROBE_AUTH_MODE"); mode != "" {
		c.AuthMode = AuthMode(strings.ToLower(mode))
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if v := os.Getenv("PROBE_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PROBE_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if v := os.Getenv("PROBE_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PROBE_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.AuthMode == "" {
		c.AuthMode = AuthCredentials
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = 1280
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = 720
	}
	if c.Locale == "" {
		c.Locale = "ja-JP"
	}
	if c.ActionTimeoutMs == 0 {
		c.ActionTimeoutMs = 5000
	}
	if c.ScanLimit == 0 {
		c.ScanLimit = 20
	}
	if c.AuthPollSeconds == 0 {
		c.AuthPollSeconds = 30
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "logs/screenshots"
	}
	if c.CookiesPath == "" && c.AuthMode == AuthCookies {
		c.CookiesPath = ".cookies/cookies-paintly.json"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats and ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateApp checks what a run against the live app needs.
func (c *Config) ValidateApp() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	switch c.AuthMode {
	case AuthCredentials, AuthGoogle:
		if c.Email == "" || c.Password == "" {
			return fmt.Errorf("auth_mode %s: %w", c.AuthMode, ErrMissingCredentials)
		}
	}
	return nil
}

// CustomerURL is the detail page the probes inspect.
func (c *Config) CustomerURL() string {
	return c.BaseURL + "/customer/" + c.CustomerID
}

// DashboardURL is the page that hosts the navigation sidebar.
func (c *Config) DashboardURL() string {
	return c.BaseURL + "/dashboard"
}

// SignInURL is the app's sign-in page.
func (c *Config) SignInURL() string {
	return c.BaseURL + "/auth/signin"
}

// HasTelegram reports whether run summaries should be sent.
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
