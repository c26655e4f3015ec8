package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: `+testSecret+`
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "0 0 0 * * *", cfg.Scheduler.ApplyLateFees)
		assert.Equal(t, "0 0 8 * * *", cfg.Scheduler.SendOverdueReminders)
		assert.True(t, cfg.ShouldDedupeReminders())
		assert.True(t, decimal.RequireFromString("0.1").Equal(cfg.LateFeeRate()))
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "", cfg.GetHealthAddress())
	})

	t.Run("DedupeDisabled", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: `+testSecret+`
scheduler:
  dedupe_reminders: false
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.ShouldDedupeReminders())
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("LATE_FEE_RATE", "0.25")
		t.Setenv("LOG_FORMAT", "json")
		path := writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: `+testSecret+`
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.True(t, decimal.RequireFromString("0.25").Equal(cfg.LateFeeRate()))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "postgres", Host: "localhost", User: "app", Database: "sewasaathi"},
			JWT:      JWTConfig{Secret: testSecret},
		}
	}

	t.Run("PostgresDefaults", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres://app:@localhost:5432/sewasaathi?sslmode=disable", cfg.GetDatabaseConnectionString())
	})

	t.Run("EmptyDriverMeansPostgres", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "postgres", cfg.Database.Driver)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Driver = "sqlite"
		assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")
	})

	t.Run("ShortSecret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = "short"
		assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
	})

	t.Run("BadLateFeeRate", func(t *testing.T) {
		cfg := valid()
		cfg.Automation.LateFeeRate = "ten percent"
		assert.ErrorContains(t, cfg.Validate(), "invalid late fee rate")
	})

	t.Run("ZeroLateFeeRate", func(t *testing.T) {
		cfg := valid()
		cfg.Automation.LateFeeRate = "0"
		assert.ErrorContains(t, cfg.Validate(), "late fee rate must be positive")
	})

	t.Run("NegativeLateFeeRate", func(t *testing.T) {
		cfg := valid()
		cfg.Automation.LateFeeRate = "-0.1"
		assert.ErrorContains(t, cfg.Validate(), "late fee rate must be positive")
	})

	t.Run("SendGridNeedsSender", func(t *testing.T) {
		cfg := valid()
		cfg.SendGrid.APIKey = "SG.key"
		assert.ErrorContains(t, cfg.Validate(), "from_email")
	})
}

func TestRouteSecurity(t *testing.T) {
	assert.Equal(t, SecurityPublic, RouteSecurity("Health"))
	assert.Equal(t, SecurityAdmin, RouteSecurity("ApplyLateFees"))
	assert.Equal(t, SecurityAdmin, RouteSecurity("ListQuotations"))
	assert.Equal(t, SecurityAccess, RouteSecurity("ListMyQuotations"))
	assert.Equal(t, SecurityAccess, RouteSecurity("MarkNotificationRead"))
	assert.Equal(t, SecurityAccess, RouteSecurity("Unlisted"))
}
