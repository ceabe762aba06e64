package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/drugpurchasing/shift-roster/pkg/core/scheduler"
)

// ConfigFileName is looked up in the working directory first, then in
// the user's home directory
const ConfigFileName = "roster_config.yaml"

// DefaultIterations bounds the optimizer when the config and the CLI
// both leave it unset
const DefaultIterations = 50

// HolidayRule declares a recurring public holiday as an RRULE,
// expanded over the scheduling horizon at load time
type HolidayRule struct {
	RRule string `yaml:"rrule" validate:"required"`
	Name  string `yaml:"name"`
}

// WeightOverrides adjusts individual scheduler weights; nil fields
// keep the engine defaults
type WeightOverrides struct {
	Consecutive       *float64 `yaml:"consecutive"`
	Hours             *float64 `yaml:"hours"`
	Preference        *float64 `yaml:"preference"`
	Weekend           *float64 `yaml:"weekend"`
	HourImbalance     *float64 `yaml:"hourImbalance"`
	WeekendVariance   *float64 `yaml:"weekendVariance"`
	NightVariance     *float64 `yaml:"nightVariance"`
	PreferencePenalty *float64 `yaml:"preferencePenalty"`
}

// OAuthClient mirrors the installed-app OAuth client JSON downloaded
// from the Google Cloud console, so the yaml block can be passed to
// google.ConfigFromJSON unchanged
type OAuthClient struct {
	Installed struct {
		ClientID     string   `yaml:"client_id" json:"client_id"`
		ProjectID    string   `yaml:"project_id" json:"project_id"`
		AuthURI      string   `yaml:"auth_uri" json:"auth_uri"`
		TokenURI     string   `yaml:"token_uri" json:"token_uri"`
		ClientSecret string   `yaml:"client_secret" json:"client_secret"`
		RedirectURIs []string `yaml:"redirect_uris" json:"redirect_uris"`
	} `yaml:"installed" json:"installed"`
}

// Config is the application configuration loaded from roster_config.yaml
type Config struct {
	// Exactly one workbook source is required: a Google Sheets
	// spreadsheet or a directory of CSV exports
	SpreadsheetID string `yaml:"spreadsheetID"`
	WorkbookDir   string `yaml:"workbookDir"`

	// OAuth is required when SpreadsheetID is the source
	OAuth *OAuthClient `yaml:"oauth"`

	PostgresURL string `yaml:"postgresURL"`

	Iterations   int  `yaml:"iterations" validate:"gte=0"`
	SafetyBuffer *int `yaml:"safetyBuffer"`

	Weights *WeightOverrides `yaml:"weights"`

	// Holidays are explicit ISO dates; HolidayRules recur
	Holidays     []string      `yaml:"holidays" validate:"dive,datetime=2006-01-02"`
	HolidayRules []HolidayRule `yaml:"holidayRules" validate:"dive"`
}

var validate = validator.New()

// Validate checks required fields and that every holiday rule parses
// as an RRULE
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.SpreadsheetID == "" && cfg.WorkbookDir == "" {
		return fmt.Errorf("config validation failed: one of spreadsheetID or workbookDir is required")
	}
	for _, rule := range cfg.HolidayRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule %q: %w", rule.RRule, err)
		}
	}
	return nil
}

// Load reads the config from the working directory, falling back to
// the user's home directory
func Load() (*Config, error) {
	if _, err := os.Stat(ConfigFileName); err == nil {
		return LoadFromPath(ConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(home, ConfigFileName))
}

// LoadFromPath reads, parses and validates a config file
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Iterations == 0 {
		cfg.Iterations = DefaultIterations
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SchedulerWeights merges the configured overrides onto the engine
// defaults
func (c *Config) SchedulerWeights() scheduler.Weights {
	w := scheduler.DefaultWeights()
	if c.Weights == nil {
		return w
	}
	apply := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&w.Consecutive, c.Weights.Consecutive)
	apply(&w.Hours, c.Weights.Hours)
	apply(&w.Preference, c.Weights.Preference)
	apply(&w.Weekend, c.Weights.Weekend)
	apply(&w.MetricHourImbalance, c.Weights.HourImbalance)
	apply(&w.MetricWeekendVariance, c.Weights.WeekendVariance)
	apply(&w.MetricNightVariance, c.Weights.NightVariance)
	apply(&w.MetricPreferencePenalty, c.Weights.PreferencePenalty)
	return w
}

// SchedulerSafetyBuffer returns the configured staffing buffer or the
// engine default
func (c *Config) SchedulerSafetyBuffer() int {
	if c.SafetyBuffer == nil {
		return scheduler.DefaultSafetyBuffer
	}
	return *c.SafetyBuffer
}

// ExpandHolidays resolves explicit dates and recurring rules into the
// ISO date set covering [start, end]. Validate must have accepted the
// config first; rules are assumed parseable here.
func (c *Config) ExpandHolidays(start, end time.Time) map[string]bool {
	holidays := make(map[string]bool, len(c.Holidays))
	for _, date := range c.Holidays {
		holidays[date] = true
	}
	for _, rule := range c.HolidayRules {
		r, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			continue
		}
		r.DTStart(start)
		for _, occurrence := range r.Between(start, end, true) {
			holidays[scheduler.DateKey(occurrence)] = true
		}
	}
	return holidays
}
