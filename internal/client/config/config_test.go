package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, time.Minute, c.SignatureTTL)
	assert.Equal(t, 10*time.Second, c.CallTimeout)
	assert.Equal(t, "text", c.Format)
	assert.Equal(t, DefaultKeystorePath(), c.KeystorePath)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := &Config{}
	want.LoadDefaults()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "vaultctl.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"server_endpoint_addr": "vault.example:9000",
		"keystore": "/tmp/ks.json",
		"signature_ttl": "30s",
		"call_timeout": 5000000000,
		"format": "json"
	}`), 0o600))

	yamlPath := filepath.Join(dir, "vaultctl.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(
		"server_endpoint_addr: vault.example:9000\n"+
			"keystore: /tmp/ks.json\n"+
			"signature_ttl: 30s\n"+
			"call_timeout: 5s\n"+
			"format: json\n"), 0o600))

	want := &Config{
		ServerEndpointAddr: "vault.example:9000",
		KeystorePath:       "/tmp/ks.json",
		SignatureTTL:       30 * time.Second,
		CallTimeout:        5 * time.Second,
		Format:             "json",
	}

	for _, p := range []string{jsonPath, yamlPath} {
		t.Run(filepath.Ext(p), func(t *testing.T) {
			got, err := Load(p)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"format":"json"}`), 0o600))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, "127.0.0.1:50051", got.ServerEndpointAddr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"signature_ttl": "soon"}`), 0o600))
	_, err = Load(p)
	assert.Error(t, err)
}
