package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Render  RenderConfig  `yaml:"render"`
	Style   StyleConfig   `yaml:"style"`
	Output  OutputConfig  `yaml:"output"`
	Preview PreviewConfig `yaml:"preview"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// RenderConfig controls the host frame loop. Frames == 0 renders until the
// process is stopped.
type RenderConfig struct {
	FPS          float64       `yaml:"fps"`
	Frames       int           `yaml:"frames"`
	Height       int           `yaml:"height"`
	FrameTimeout time.Duration `yaml:"frame_timeout"`
	Background   string        `yaml:"background"`
}

type OutputConfig struct {
	File FileOutputConfig `yaml:"file"`
	S3   S3Config         `yaml:"s3"`
}

type FileOutputConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Prefix  string `yaml:"prefix"`
	// KeepLast overwrites a single file instead of numbering frames.
	KeepLast bool `yaml:"keep_last"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
	Prometheus bool             `yaml:"prometheus"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
	Dashboard string `yaml:"dashboard"`
}

type LoggingConfig struct {
	Level          string        `yaml:"level"`
	Format         string        `yaml:"format"`
	Output         string        `yaml:"output"`
	MaxAge         int           `yaml:"max_age"`
	ReportInterval time.Duration `yaml:"report_interval"`
}

// DefaultConfig returns the settings used for any key a config file leaves
// out.
func DefaultConfig() Config {
	return Config{
		App: AppConfig{Name: "depthview", Version: "dev"},
		Render: RenderConfig{
			FPS:          10,
			Height:       600,
			FrameTimeout: 2 * time.Second,
			Background:   "#1f2126",
		},
		Style: DefaultStyle(),
		Output: OutputConfig{
			File: FileOutputConfig{Dir: "frames", Prefix: "overlay"},
		},
		Preview: PreviewConfig{Address: "0.0.0.0:8080"},
		Metrics: MetricsConfig{
			CloudWatch: CloudWatchConfig{Namespace: "DepthView", Dashboard: "DepthView"},
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "json",
			Output:         "stdout",
			ReportInterval: 30 * time.Second,
		},
	}
}

// LoadConfig reads path, or its APP_ENV specific sibling when one is
// registered, on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, DefaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes, applies env overrides and validates.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Output.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Output.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Output.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Output.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Output.S3.Bucket = strings.TrimSpace(v)
		}
	}
	config.Output.S3.Bucket = strings.TrimSpace(config.Output.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if cfg.Render.FPS <= 0 {
		return fmt.Errorf("render.fps must be greater than 0")
	}
	if cfg.Render.Frames < 0 {
		return fmt.Errorf("render.frames must not be negative")
	}
	if cfg.Render.Height <= 0 {
		return fmt.Errorf("render.height must be greater than 0")
	}

	if err := cfg.Style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}

	if cfg.Output.File.Enabled && cfg.Output.File.Dir == "" {
		return fmt.Errorf("output.file.dir is required when file output is enabled")
	}

	if cfg.Output.S3.Enabled {
		if cfg.Output.S3.Bucket == "" {
			return fmt.Errorf("output.s3.bucket is required when S3 is enabled")
		}
		if cfg.Output.S3.Region == "" {
			return fmt.Errorf("output.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Output.S3.Bucket) {
			return fmt.Errorf("output.s3.bucket '%s' is invalid", cfg.Output.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
