package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/flagx"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations use timex.Duration,
// so both "2m" and integer nanoseconds are accepted. Empty fields leave
// the current value untouched.
type FileConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDriver   string         `json:"db_driver" yaml:"db_driver"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	ProgramID        string         `json:"program_id" yaml:"program_id"`
	SignatureTTL     timex.Duration `json:"signature_ttl" yaml:"signature_ttl"`
	PruneInterval    timex.Duration `json:"prune_interval" yaml:"prune_interval"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	S3RootUser       string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile overlays the file named by -c/-config onto config. Files ending
// in .yaml or .yml are read as YAML, anything else as JSON. A file that
// cannot be read or decoded panics, as a bad config must stop startup.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.ProgramID, c.ProgramID)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.SignatureTTL.Duration > 0 {
		config.SignatureTTL = c.SignatureTTL.Duration
	}
	if c.PruneInterval.Duration > 0 {
		config.PruneInterval = c.PruneInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
