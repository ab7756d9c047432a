package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/longkey1/docchat/internal/backend"
	"github.com/longkey1/docchat/internal/docchat"
	"github.com/longkey1/docchat/internal/docchat/session"
)

// Config holds the configuration for the document chat client
type Config struct {
	BaseURL         string   `toml:"base_url" mapstructure:"base_url"`
	TextToMongoPath string   `toml:"text_to_mongo_path" mapstructure:"text_to_mongo_path"`
	PDFChatPath     string   `toml:"pdf_chat_path" mapstructure:"pdf_chat_path"`
	PPTChatPath     string   `toml:"ppt_chat_path" mapstructure:"ppt_chat_path"`
	DefaultMode     string   `toml:"default_mode" mapstructure:"default_mode"`
	ErrorText       string   `toml:"error_text" mapstructure:"error_text"`
	RequestTimeout  string   `toml:"request_timeout" mapstructure:"request_timeout"` // Go duration, "0s" = transport default
	ProxyURL        string   `toml:"proxy_url" mapstructure:"proxy_url"`             // Empty = use environment
	NoProxy         string   `toml:"no_proxy" mapstructure:"no_proxy"`
	RenderMarkdown  bool     `toml:"render_markdown" mapstructure:"render_markdown"`
	WordWrap        int      `toml:"word_wrap" mapstructure:"word_wrap"`
	Style           string   `toml:"style" mapstructure:"style"` // glamour style: auto, dark, light, notty, ascii
	LogFile         string   `toml:"log_file" mapstructure:"log_file"`
	LogLevel        string   `toml:"log_level" mapstructure:"log_level"`
	TemplateDirs    []string `toml:"template_dirs" mapstructure:"template_dirs"`
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(templateDir, logFile string) *Config {
	return &Config{
		BaseURL:         backend.DefaultBaseURL,
		TextToMongoPath: "/text-to-mongo",
		PDFChatPath:     "/query",
		PPTChatPath:     "/ppt-search",
		DefaultMode:     string(docchat.ModePPTChat),
		ErrorText:       session.DefaultErrorText,
		RequestTimeout:  "0s",
		RenderMarkdown:  true,
		WordWrap:        80,
		Style:           "auto",
		LogFile:         logFile,
		LogLevel:        "info",
		TemplateDirs:    []string{templateDir},
	}
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	// Expand $VAR / ${VAR} references
	config.BaseURL = expandEnvVar(config.BaseURL)
	config.ProxyURL = expandEnvVar(config.ProxyURL)
	config.LogFile = expandEnvVar(config.LogFile)

	if config.LogFile != "" {
		absPath, err := ResolvePath(config.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error resolving log file path '%s': %v", config.LogFile, err)
		}
		config.LogFile = absPath
	}

	// Convert template directories to absolute paths
	for i, templateDir := range config.TemplateDirs {
		absPath, err := ResolvePath(templateDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving template directory path '%s': %v", templateDir, err)
		}
		config.TemplateDirs[i] = absPath
	}

	return config, nil
}

// GetPath returns the endpoint path for the specified mode
func (c *Config) GetPath(mode docchat.Mode) (string, error) {
	var path string
	switch mode {
	case docchat.ModeTextToMongo:
		path = c.TextToMongoPath
	case docchat.ModePDFChat:
		path = c.PDFChatPath
	case docchat.ModePPTChat:
		path = c.PPTChatPath
	default:
		return "", fmt.Errorf("unsupported mode: %s", mode)
	}

	if path == "" {
		return "", fmt.Errorf("%s endpoint path is not configured", mode)
	}
	return path, nil
}

// GetEndpoint returns the full endpoint URL for the specified mode
func (c *Config) GetEndpoint(mode docchat.Mode) (string, error) {
	path, err := c.GetPath(mode)
	if err != nil {
		return "", err
	}
	return backend.JoinURL(c.BaseURL, path)
}

// GetDefaultMode parses the configured default mode
func (c *Config) GetDefaultMode() (docchat.Mode, error) {
	if c.DefaultMode == "" {
		return docchat.ModePPTChat, nil
	}
	return docchat.ParseMode(c.DefaultMode)
}

// GetTimeout parses the request timeout. Zero means the transport default.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", c.RequestTimeout)
	}
	return d, nil
}

// SetDefaults registers the values of cfg as viper defaults
func SetDefaults(cfg *Config) {
	viper.SetDefault("base_url", cfg.BaseURL)
	viper.SetDefault("text_to_mongo_path", cfg.TextToMongoPath)
	viper.SetDefault("pdf_chat_path", cfg.PDFChatPath)
	viper.SetDefault("ppt_chat_path", cfg.PPTChatPath)
	viper.SetDefault("default_mode", cfg.DefaultMode)
	viper.SetDefault("error_text", cfg.ErrorText)
	viper.SetDefault("request_timeout", cfg.RequestTimeout)
	viper.SetDefault("proxy_url", cfg.ProxyURL)
	viper.SetDefault("no_proxy", cfg.NoProxy)
	viper.SetDefault("render_markdown", cfg.RenderMarkdown)
	viper.SetDefault("word_wrap", cfg.WordWrap)
	viper.SetDefault("style", cfg.Style)
	viper.SetDefault("log_file", cfg.LogFile)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("template_dirs", cfg.TemplateDirs)
}
