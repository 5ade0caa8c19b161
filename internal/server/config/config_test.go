package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Contains(t, c.DatabaseDSN, "vaultkeeper.db")
	assert.Equal(t, DefaultProgramID().String(), c.ProgramID)
	assert.Equal(t, 2*time.Minute, c.SignatureTTL)
	assert.Equal(t, 10*time.Minute, c.PruneInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestProgram(t *testing.T) {
	var c Config
	c.LoadDefaults()

	id, err := c.Program()
	require.NoError(t, err)
	assert.Equal(t, DefaultProgramID(), id)

	c.ProgramID = "not-an-identity"
	_, err = c.Program()
	assert.Error(t, err)
}
