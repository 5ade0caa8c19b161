package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Empty fields keep the default.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	KeystorePath       string         `json:"keystore" yaml:"keystore"`
	SignatureTTL       timex.Duration `json:"signature_ttl" yaml:"signature_ttl"`
	CallTimeout        timex.Duration `json:"call_timeout" yaml:"call_timeout"`
	Format             string         `json:"format" yaml:"format"`
}

func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.KeystorePath != "" {
		cfg.KeystorePath = fc.KeystorePath
	}
	if fc.SignatureTTL.Duration > 0 {
		cfg.SignatureTTL = fc.SignatureTTL.Duration
	}
	if fc.CallTimeout.Duration > 0 {
		cfg.CallTimeout = fc.CallTimeout.Duration
	}
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	return nil
}
