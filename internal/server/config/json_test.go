package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_Overlay(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	path := writeConfigFile(t, `{
		"endpoint_addr_http": ":9999",
		"database_dsn": "postgres://u:p@h:5432/db",
		"secret_key": "fromjson",
		"token_validity_duration": "30m"
	}`)
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJSON(c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@h:5432/db", c.DatabaseDSN)
	assert.Equal(t, "fromjson", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.TokenValidityDuration)
}

func TestParseJSON_PartialFileKeepsDefaults(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	path := writeConfigFile(t, `{"secret_key": "onlykey"}`)
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJSON(c)

	assert.Equal(t, "onlykey", c.SecretKey)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, 60*time.Minute, c.TokenValidityDuration)
}

func TestParseJSON_NoFlagNoop(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = []string{"server"}

	c := &Config{}
	c.LoadDefaults()
	parseJSON(c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}

func TestParseJSON_InvalidFilePanics(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	path := writeConfigFile(t, `{not json`)
	os.Args = []string{"server", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	assert.Panics(t, func() { parseJSON(c) })
}
