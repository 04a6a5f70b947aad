package state

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

// RelayCfg is the relay's startup configuration.
type RelayCfg struct {
	Bind         string
	TopologyPath string
	MetricsBind  string
	LogPath      string
}

// RouterCfg is a single agent's startup configuration. Agents never read the
// topology file; they learn their own row from the relay at registration.
type RouterCfg struct {
	Id        Node
	RelayHost string
	RelayPort uint16
	LogPath   string
}

func (c *RouterCfg) RelayAddr() string {
	return net.JoinHostPort(c.RelayHost, strconv.Itoa(int(c.RelayPort)))
}

// Settings are the protocol tunables, loadable from YAML. Zero values fall
// back to the defaults in constants.go.
type Settings struct {
	TickMs                int `yaml:"tick_ms,omitempty"`
	PeriodicRefreshCycles int `yaml:"periodic_refresh_cycles,omitempty"`
	ConvergenceThreshold  int `yaml:"convergence_threshold,omitempty"`
	RegisterBackoffMinMs  int `yaml:"register_backoff_min_ms,omitempty"`
	RegisterBackoffMaxMs  int `yaml:"register_backoff_max_ms,omitempty"`
	RegistrationTTLSec    int `yaml:"registration_ttl_sec,omitempty"`
	InboxSize             int `yaml:"inbox_size,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		TickMs:                int(TickInterval.Milliseconds()),
		PeriodicRefreshCycles: PeriodicRefreshCycles,
		ConvergenceThreshold:  ConvergenceThreshold,
		RegisterBackoffMinMs:  int(RegisterBackoffMin.Milliseconds()),
		RegisterBackoffMaxMs:  int(RegisterBackoffMax.Milliseconds()),
		RegistrationTTLSec:    int(RegistrationTTL.Seconds()),
		InboxSize:             InboxSize,
	}
}

func LoadSettings(path string) (*Settings, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(file, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	for name, v := range map[string]int{
		"tick_ms":                 s.TickMs,
		"periodic_refresh_cycles": s.PeriodicRefreshCycles,
		"convergence_threshold":   s.ConvergenceThreshold,
		"register_backoff_min_ms": s.RegisterBackoffMinMs,
		"register_backoff_max_ms": s.RegisterBackoffMaxMs,
		"registration_ttl_sec":    s.RegistrationTTLSec,
		"inbox_size":              s.InboxSize,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if s.RegisterBackoffMaxMs > 0 && s.RegisterBackoffMinMs > s.RegisterBackoffMaxMs {
		return fmt.Errorf("register_backoff_min_ms exceeds register_backoff_max_ms")
	}
	return nil
}

// Apply overrides the package defaults with any non-zero settings.
func (s *Settings) Apply() {
	if s.TickMs > 0 {
		TickInterval = time.Duration(s.TickMs) * time.Millisecond
	}
	if s.PeriodicRefreshCycles > 0 {
		PeriodicRefreshCycles = s.PeriodicRefreshCycles
	}
	if s.ConvergenceThreshold > 0 {
		ConvergenceThreshold = s.ConvergenceThreshold
	}
	if s.RegisterBackoffMinMs > 0 {
		RegisterBackoffMin = time.Duration(s.RegisterBackoffMinMs) * time.Millisecond
	}
	if s.RegisterBackoffMaxMs > 0 {
		RegisterBackoffMax = time.Duration(s.RegisterBackoffMaxMs) * time.Millisecond
	}
	if s.RegistrationTTLSec > 0 {
		RegistrationTTL = time.Duration(s.RegistrationTTLSec) * time.Second
	}
	if s.InboxSize > 0 {
		InboxSize = s.InboxSize
	}
}

func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
