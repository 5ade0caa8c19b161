package cryptox

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	require.NoError(t, err)
	b, err := RandomBytes(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	in := map[string]string{"alice": "00ff"}

	ct, nonce, err := Seal(in, key)
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "alice")

	var out map[string]string
	require.NoError(t, Open(ct, nonce, key, &out))
	assert.Equal(t, in, out)
}

func TestOpen_WrongKeyOrTamper(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	ct, nonce, err := Seal("payload", key)
	require.NoError(t, err)

	var out string
	err = Open(ct, nonce, DeriveKey([]byte("other"), []byte("salt")), &out)
	assert.True(t, errors.Is(err, ErrDecrypt))

	ct[0] ^= 0xff
	err = Open(ct, nonce, key, &out)
	assert.True(t, errors.Is(err, ErrDecrypt))

	err = Open(ct, nonce[:3], key, &out)
	assert.True(t, errors.Is(err, ErrDecrypt))
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, _, err := Seal("x", []byte("short"))
	assert.Error(t, err)
}
