package state

import (
	"fmt"
	"net/netip"
	"regexp"
)

var namePattern = regexp.MustCompile("^[0-9a-z._-]+$")

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid router id, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func BindValidator(s string) error {
	_, err := netip.ParseAddrPort(s)
	return err
}

func RelayConfigValidator(cfg *RelayCfg) error {
	if err := BindValidator(cfg.Bind); err != nil {
		return fmt.Errorf("relay bind %q: %w", cfg.Bind, err)
	}
	if cfg.MetricsBind != "" {
		if err := BindValidator(cfg.MetricsBind); err != nil {
			return fmt.Errorf("metrics bind %q: %w", cfg.MetricsBind, err)
		}
	}
	if cfg.TopologyPath == "" {
		return fmt.Errorf("topology config path must be set")
	}
	return nil
}

func RouterConfigValidator(cfg *RouterCfg) error {
	if err := NameValidator(string(cfg.Id)); err != nil {
		return err
	}
	if cfg.RelayHost == "" {
		return fmt.Errorf("relay host must be set")
	}
	if cfg.RelayPort == 0 {
		return fmt.Errorf("relay port must be set")
	}
	return nil
}
