package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
	"github.com/dmitrijs2005/vaultkeeper/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_TextVault(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}
	v := &rpc.Vault{Address: identity.Generate().Public, Balance: 12, Withdrawn: 3}

	require.NoError(t, f.Success(v))
	assert.Contains(t, buf.String(), v.Address.String())
	assert.Contains(t, buf.String(), "12")
}

func TestOutputFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(&rpc.Account{Amount: 9}))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])

	buf.Reset()
	require.NoError(t, f.Error(errors.New("boom")))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "boom", resp["error"])
}

func TestExitError(t *testing.T) {
	inner := errors.New("inner")
	err := WrapExitError(ExitCommandError, "outer", inner)
	assert.Equal(t, "outer: inner", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitFailure, GetExitCode(inner))
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
}
