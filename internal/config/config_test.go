package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9000

[database]
driver = "memory"

[booking]
timezone = "UTC"
customer_can_cancel_confirmed = false
`)
	t.Setenv("BOOKING_SERVER_HTTP_PORT", "9100")
	t.Setenv("BOOKING_BOOKING_MAX_ADVANCE_DAYS", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.HTTPPort)
	assert.True(t, cfg.Database.IsMemory())
	assert.Equal(t, 30, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 30, cfg.Booking.MaxAdvanceDays)
	assert.False(t, cfg.Booking.CustomerCanCancelConfirmed)

	methods := cfg.DomainPaymentMethods()
	require.Len(t, methods, 5)
	assert.Equal(t, "cash", methods[4].ID)
	assert.False(t, methods[4].RequiresProof)
	assert.True(t, methods[0].RequiresProof)
}

func TestLoad_CustomPaymentMethods(t *testing.T) {
	path := writeConfig(t, `
[[payment_methods]]
id = "cash"
name = "Pay at the salon"
type = "cash"
requires_proof = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.PaymentMethods, 1)
	assert.Equal(t, "Pay at the salon", cfg.PaymentMethods[0].Name)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[booking]\nslot_step_minutes = 1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "[database]\ndriver = \"mysql\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(writeConfig(t, "[events]\nenabled = true\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}
