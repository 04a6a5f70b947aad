package state

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameValidator_Valid(t *testing.T) {
	assert.NoError(t, NameValidator("u"))
	assert.NoError(t, NameValidator("node-1.local"))
	assert.NoError(t, NameValidator("r_2"))
}

func TestNameValidator_Invalid(t *testing.T) {
	assert.Error(t, NameValidator("U"))
	assert.Error(t, NameValidator("router id"))
	assert.Error(t, NameValidator(""))
	assert.Error(t, NameValidator("\t"))
	assert.Error(t, NameValidator(strings.Repeat("a", 200)))
}

func TestRelayConfigValidator(t *testing.T) {
	cfg := RelayCfg{Bind: "0.0.0.0:5500", TopologyPath: "topology.conf"}
	assert.NoError(t, RelayConfigValidator(&cfg))

	bad := cfg
	bad.Bind = ":5500"
	assert.Error(t, RelayConfigValidator(&bad))

	bad = cfg
	bad.TopologyPath = ""
	assert.ErrorContains(t, RelayConfigValidator(&bad), "topology config path")

	bad = cfg
	bad.MetricsBind = "nonsense"
	assert.Error(t, RelayConfigValidator(&bad))
}

func TestRouterConfigValidator(t *testing.T) {
	cfg := RouterCfg{Id: "u", RelayHost: "127.0.0.1", RelayPort: 5500}
	assert.NoError(t, RouterConfigValidator(&cfg))

	bad := cfg
	bad.Id = "not valid"
	assert.Error(t, RouterConfigValidator(&bad))

	bad = cfg
	bad.RelayHost = ""
	assert.ErrorContains(t, RouterConfigValidator(&bad), "relay host")

	bad = cfg
	bad.RelayPort = 0
	assert.ErrorContains(t, RouterConfigValidator(&bad), "relay port")
}
