package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultThreshold    = 10.0
	DefaultLookback     = 24 * time.Hour
	DefaultPeriod       = time.Hour
	DefaultTagKey       = "Environment"
	DefaultOwner        = "self"
	DefaultConcurrency  = 1
	DefaultCallTimeout  = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultReportPrefix = "aws-reaper/"

	// MaxDatapoints is the most datapoints GetMetricStatistics returns in one call.
	MaxDatapoints = 1440

	envPrefix = "REAPER"
)

// DefaultTagValues are the environments whose idle instances get stopped.
var DefaultTagValues = []string{"staging", "dev"}

var (
	ErrNegativeThreshold  = errors.New("thresholds must not be negative")
	ErrPercentageRange    = errors.New("max_low_percentage must be within [0, 100]")
	ErrInvalidWindow      = errors.New("lookback and period must be positive and period must not exceed lookback")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrInvalidPeriod      = errors.New("period_seconds must be a multiple of 60")
	ErrTooManyDatapoints  = fmt.Errorf("lookback divided by period must not exceed %d datapoints", MaxDatapoints)
)

// Config holds optional defaults loaded from ~/.config/aws-reaper/config.yaml.
// Every field is optional; accessors fill in defaults for unset values.
type Config struct {
	DefaultProfile string   `yaml:"default_profile"`
	DefaultRegion  string   `yaml:"default_region"`
	Regions        []string `yaml:"regions"`

	// SampleThreshold is the CPU percentage under which one sample counts as
	// low. MaxLowPercentage is the share of low samples under which an
	// instance is stopped. Both default to 10.
	SampleThreshold  *float64 `yaml:"sample_threshold"`
	MaxLowPercentage *float64 `yaml:"max_low_percentage"`
	LookbackHours    int      `yaml:"lookback_hours"`
	PeriodSeconds    int      `yaml:"period_seconds"`

	EnvironmentTagKey    string   `yaml:"environment_tag_key"`
	EnvironmentTagValues []string `yaml:"environment_tag_values"`
	SnapshotOwner        string   `yaml:"snapshot_owner"`

	DryRun             bool `yaml:"dry_run"`
	SkipSnapshots      bool `yaml:"skip_snapshots"`
	SkipInstances      bool `yaml:"skip_instances"`
	SkipSecurityGroups bool `yaml:"skip_security_groups"`

	Concurrency        int `yaml:"concurrency"`
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	MaxAttempts        int `yaml:"max_attempts"`

	LogLevel     string `yaml:"log_level"`
	ReportBucket string `yaml:"report_bucket"`
	ReportPrefix string `yaml:"report_prefix"`
}

// DefaultPath returns the config file location under the user's home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aws-reaper", "config.yaml"), nil
}

// Load reads the default config file. Returns zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge applies CLI flag overrides. Flags take precedence over config defaults.
func (c *Config) Merge(profile, region string) (string, string) {
	p := c.DefaultProfile
	if profile != "" {
		p = profile
	}
	r := c.DefaultRegion
	if region != "" {
		r = region
	}
	return p, r
}

// ApplyEnv overrides fields from REAPER_* environment variables, e.g.
// REAPER_DRY_RUN=true or REAPER_ENVIRONMENT_TAG_VALUES=staging,dev.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{
		"default_profile", "default_region", "regions",
		"sample_threshold", "max_low_percentage", "lookback_hours", "period_seconds",
		"environment_tag_key", "environment_tag_values", "snapshot_owner",
		"dry_run", "skip_snapshots", "skip_instances", "skip_security_groups",
		"concurrency", "call_timeout_seconds", "max_attempts",
		"log_level", "report_bucket", "report_prefix",
	} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	setList := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = splitList(v.GetString(key))
		}
	}

	setString("default_profile", &c.DefaultProfile)
	setString("default_region", &c.DefaultRegion)
	setList("regions", &c.Regions)
	if v.IsSet("sample_threshold") {
		f := v.GetFloat64("sample_threshold")
		c.SampleThreshold = &f
	}
	if v.IsSet("max_low_percentage") {
		f := v.GetFloat64("max_low_percentage")
		c.MaxLowPercentage = &f
	}
	setInt("lookback_hours", &c.LookbackHours)
	setInt("period_seconds", &c.PeriodSeconds)
	setString("environment_tag_key", &c.EnvironmentTagKey)
	setList("environment_tag_values", &c.EnvironmentTagValues)
	setString("snapshot_owner", &c.SnapshotOwner)
	setBool("dry_run", &c.DryRun)
	setBool("skip_snapshots", &c.SkipSnapshots)
	setBool("skip_instances", &c.SkipInstances)
	setBool("skip_security_groups", &c.SkipSecurityGroups)
	setInt("concurrency", &c.Concurrency)
	setInt("call_timeout_seconds", &c.CallTimeoutSeconds)
	setInt("max_attempts", &c.MaxAttempts)
	setString("log_level", &c.LogLevel)
	setString("report_bucket", &c.ReportBucket)
	setString("report_prefix", &c.ReportPrefix)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Thresholds returns the per-sample CPU threshold and the low-sample
// percentage ceiling.
func (c *Config) Thresholds() (sample, maxLowPct float64) {
	sample, maxLowPct = DefaultThreshold, DefaultThreshold
	if c.SampleThreshold != nil {
		sample = *c.SampleThreshold
	}
	if c.MaxLowPercentage != nil {
		maxLowPct = *c.MaxLowPercentage
	}
	return sample, maxLowPct
}

// Lookback returns the metric lookback window.
func (c *Config) Lookback() time.Duration {
	if c.LookbackHours == 0 {
		return DefaultLookback
	}
	return time.Duration(c.LookbackHours) * time.Hour
}

// Period returns the metric aggregation period.
func (c *Config) Period() time.Duration {
	if c.PeriodSeconds == 0 {
		return DefaultPeriod
	}
	return time.Duration(c.PeriodSeconds) * time.Second
}

// TagFilter returns the tag key and accepted values that mark an instance as
// eligible for stopping.
func (c *Config) TagFilter() (string, []string) {
	key := c.EnvironmentTagKey
	if key == "" {
		key = DefaultTagKey
	}
	values := c.EnvironmentTagValues
	if len(values) == 0 {
		values = DefaultTagValues
	}
	return key, values
}

func (c *Config) Owner() string {
	if c.SnapshotOwner == "" {
		return DefaultOwner
	}
	return c.SnapshotOwner
}

func (c *Config) Workers() int {
	if c.Concurrency == 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Config) CallTimeout() time.Duration {
	if c.CallTimeoutSeconds == 0 {
		return DefaultCallTimeout
	}
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func (c *Config) Level() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

func (c *Config) Prefix() string {
	if c.ReportPrefix == "" {
		return DefaultReportPrefix
	}
	return c.ReportPrefix
}

// Validate checks the effective settings.
func (c *Config) Validate() error {
	sample, maxLow := c.Thresholds()
	if sample < 0 || maxLow < 0 {
		return ErrNegativeThreshold
	}
	if maxLow > 100 {
		return ErrPercentageRange
	}
	if c.LookbackHours < 0 || c.PeriodSeconds < 0 || c.Period() > c.Lookback() {
		return ErrInvalidWindow
	}
	if c.Period()%time.Minute != 0 {
		return ErrInvalidPeriod
	}
	if c.Lookback()/c.Period() > MaxDatapoints {
		return ErrTooManyDatapoints
	}
	if c.Workers() < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}
