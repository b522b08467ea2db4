package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "no-existe.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "telegram", conf.Channel)
	assert.Equal(t, "file", conf.Storage.Backend)
	assert.Equal(t, 5*time.Second, conf.SweepInterval())
	assert.Equal(t, 30, conf.Defaults.ReminderLeadMinutes)
	assert.Equal(t, "Evento", conf.Defaults.EventSummary)
	assert.Equal(t, "Creado por asistente", conf.Defaults.EventDescription)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
channel: whatsapp
dispatch_interval: 10s
digest_cron: "0 7 * * *"
storage:
  backend: postgres
  dsn: postgres://localhost/agendabot
defaults:
  reminder_lead_minutes: 15
`), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "whatsapp", conf.Channel)
	assert.Equal(t, 10*time.Second, conf.SweepInterval())
	assert.Equal(t, "0 7 * * *", conf.DigestCron)
	assert.Equal(t, "postgres", conf.Storage.Backend)
	assert.Equal(t, 15, conf.Defaults.ReminderLeadMinutes)
	// Lo no mencionado conserva el valor por defecto.
	assert.Equal(t, 60, conf.Defaults.EventDurationMinutes)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("OPENAI_API_KEY", "sk-abc")
	t.Setenv("DATABASE_DSN", "postgres://env/db")

	conf, err := Load(filepath.Join(t.TempDir(), "no-existe.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tg-token", conf.Telegram.Token)
	assert.Equal(t, "sk-abc", conf.OpenAI.APIKey)
	assert.Equal(t, "postgres://env/db", conf.Storage.DSN)
}

func TestDefaults_DurationHelpers(t *testing.T) {
	d := Default().Defaults

	assert.Equal(t, 30*time.Minute, d.ReminderLead())
	assert.Equal(t, time.Hour, d.EventDuration())
	assert.Equal(t, time.Hour, d.EventLead())
}
