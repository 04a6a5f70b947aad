package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tick_ms: 50
convergence_threshold: 5
`), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 50, s.TickMs)
	assert.Equal(t, 5, s.ConvergenceThreshold)
	// unset keys stay zero and do not override defaults
	assert.Zero(t, s.InboxSize)
}

func TestLoadSettings_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`tick_ms: -3`), 0644))
	_, err := LoadSettings(path)
	assert.ErrorContains(t, err, "tick_ms must not be negative")

	require.NoError(t, os.WriteFile(path, []byte(`register_backoff_min_ms: 900
register_backoff_max_ms: 100
`), 0644))
	_, err = LoadSettings(path)
	assert.ErrorContains(t, err, "register_backoff_min_ms exceeds")
}

func TestSettingsApply(t *testing.T) {
	oldTick, oldThreshold := TickInterval, ConvergenceThreshold
	defer func() {
		TickInterval, ConvergenceThreshold = oldTick, oldThreshold
	}()

	s := Settings{TickMs: 25, ConvergenceThreshold: 4}
	s.Apply()
	assert.Equal(t, int64(25), TickInterval.Milliseconds())
	assert.Equal(t, 4, ConvergenceThreshold)
}

func TestDefaultSettingsRoundTrip(t *testing.T) {
	s := DefaultSettings()
	data, err := s.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, *loaded)
}

func TestRouterCfgRelayAddr(t *testing.T) {
	cfg := RouterCfg{Id: "u", RelayHost: "127.0.0.1", RelayPort: 5500}
	assert.Equal(t, "127.0.0.1:5500", cfg.RelayAddr())
}
