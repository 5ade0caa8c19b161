// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
)

// Config holds runtime settings for the VaultKeeper server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDriver: "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - DatabaseDSN: driver-specific DSN.
//   - ProgramID: identity mixed into every derived address. Changing it
//     orphans every existing vault.
//   - SignatureTTL: longest lifetime accepted for a request proof.
//   - PruneInterval: how often expired proof ids are deleted.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional receipt archive; an empty bucket disables it.
type Config struct {
	EndpointAddrGRPC string
	DatabaseDriver   string
	DatabaseDSN      string
	ProgramID        string
	SignatureTTL     time.Duration
	PruneInterval    time.Duration
	LogLevel         string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
}

// DefaultProgramID is the program identity used when none is configured.
func DefaultProgramID() identity.Identity {
	return identity.Identity(sha256.Sum256([]byte("vaultkeeper")))
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and no receipt archive.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:vaultkeeper.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.ProgramID = DefaultProgramID().String()
	c.SignatureTTL = 2 * time.Minute
	c.PruneInterval = 10 * time.Minute
	c.LogLevel = "info"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
}

// Program parses ProgramID.
func (c *Config) Program() (identity.Identity, error) {
	id, err := identity.Parse(c.ProgramID)
	if err != nil {
		return identity.Zero, fmt.Errorf("program id: %w", err)
	}
	return id, nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
