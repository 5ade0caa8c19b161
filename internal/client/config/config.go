package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the vaultctl CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the VaultKeeper gRPC endpoint.
//   - KeystorePath: encrypted keystore holding the signing keys.
//   - SignatureTTL: lifetime of the request proofs the client issues. It
//     must not exceed the server's signature_ttl.
//   - CallTimeout: deadline for each RPC.
//   - Format: text or json output.
type Config struct {
	ServerEndpointAddr string
	KeystorePath       string
	SignatureTTL       time.Duration
	CallTimeout        time.Duration
	Format             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.KeystorePath = DefaultKeystorePath()
	c.SignatureTTL = time.Minute
	c.CallTimeout = 10 * time.Second
	c.Format = "text"
}

// DefaultKeystorePath is ~/.vaultkeeper/keystore.json, or a file in the
// working directory when the home directory is unknown.
func DefaultKeystorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "vaultkeeper-keystore.json"
	}
	return filepath.Join(home, ".vaultkeeper", "keystore.json")
}

// Load applies defaults and then the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}
	if err := parseFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
