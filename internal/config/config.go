package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults is the table of named fallback values consulted at the decision
// points of the assistant, instead of inline magic numbers.
type Defaults struct {
	// ReminderLeadMinutes is how far ahead an informal reminder is due.
	ReminderLeadMinutes int `yaml:"reminder_lead_minutes"`
	// EventDurationMinutes is the event length when the classifier gave no end.
	EventDurationMinutes int `yaml:"event_duration_minutes"`
	// EventLeadMinutes is the fixed lead of the pre-event notification.
	EventLeadMinutes int `yaml:"event_lead_minutes"`
	// EventSummary and EventDescription fill blank classifier fields.
	EventSummary     string `yaml:"event_summary"`
	EventDescription string `yaml:"event_description"`
}

func (d Defaults) ReminderLead() time.Duration {
	return time.Duration(d.ReminderLeadMinutes) * time.Minute
}

func (d Defaults) EventDuration() time.Duration {
	return time.Duration(d.EventDurationMinutes) * time.Minute
}

func (d Defaults) EventLead() time.Duration {
	return time.Duration(d.EventLeadMinutes) * time.Minute
}

// StorageConfig selects the reminder/user store backend.
type StorageConfig struct {
	// Backend is "file" (single JSON document, the default) or "postgres".
	Backend string `yaml:"backend"`
	// Path is the JSON document location for the file backend.
	Path string `yaml:"path"`
	// DSN is the connection string for the postgres backend.
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

type WhatsAppConfig struct {
	AccessToken   string `yaml:"access_token"`
	PhoneNumberID string `yaml:"phone_number_id"`
	APIVersion    string `yaml:"api_version"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type CalendarConfig struct {
	AccessToken string `yaml:"access_token"`
	CalendarID  string `yaml:"calendar_id"`
	BaseURL     string `yaml:"base_url"`
}

// Config is the top-level application configuration, loaded from a YAML
// file with env-var overrides for the secrets.
type Config struct {
	// Channel is the outbound messaging channel: "telegram" or "whatsapp".
	Channel string `yaml:"channel"`
	// Timezone is the IANA zone used for digest formatting and the digest
	// trigger (e.g. "America/Argentina/Buenos_Aires").
	Timezone string `yaml:"timezone"`
	// DispatchInterval is the reminder sweep cadence, as a Go duration
	// string (e.g. "5s").
	DispatchInterval string `yaml:"dispatch_interval"`
	// DigestCron fires the daily digest, minute-precision cron syntax.
	DigestCron string `yaml:"digest_cron"`

	Storage  StorageConfig  `yaml:"storage"`
	Telegram TelegramConfig `yaml:"telegram"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Calendar CalendarConfig `yaml:"calendar"`
	Defaults Defaults       `yaml:"defaults"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Channel:          "telegram",
		Timezone:         "America/Argentina/Buenos_Aires",
		DispatchInterval: "5s",
		DigestCron:       "0 8 * * *",
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data/store.json",
		},
		WhatsApp: WhatsAppConfig{
			APIVersion: "v17.0",
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
		},
		Calendar: CalendarConfig{
			CalendarID: "primary",
			BaseURL:    "https://www.googleapis.com/calendar/v3",
		},
		Defaults: Defaults{
			ReminderLeadMinutes:  30,
			EventDurationMinutes: 60,
			EventLeadMinutes:     60,
			EventSummary:         "Evento",
			EventDescription:     "Creado por asistente",
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies env
// overrides. A missing file is not an error: env-only setups are valid.
func Load(path string) (*Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// keep defaults
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(conf)
	return conf, nil
}

// SweepInterval parses DispatchInterval, falling back to 5s on anything
// unusable.
func (c *Config) SweepInterval() time.Duration {
	if d, err := time.ParseDuration(c.DispatchInterval); err == nil && d > 0 {
		return d
	}
	return 5 * time.Second
}

// applyEnv overrides secrets from the environment, so tokens can stay out
// of the config file.
func applyEnv(conf *Config) {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		conf.Telegram.Token = v
	}
	if v := os.Getenv("WHATSAPP_TOKEN"); v != "" {
		conf.WhatsApp.AccessToken = v
	}
	if v := os.Getenv("WHATSAPP_PHONE_ID"); v != "" {
		conf.WhatsApp.PhoneNumberID = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		conf.OpenAI.APIKey = v
	}
	if v := os.Getenv("GCAL_TOKEN"); v != "" {
		conf.Calendar.AccessToken = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		conf.Storage.DSN = v
	}
}
