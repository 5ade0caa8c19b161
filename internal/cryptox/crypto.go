// Package cryptox seals small JSON documents under a passphrase-derived
// key: argon2id for the key, AES-256-GCM for the data.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the argon2 salt length used for new keystores.
const SaltSize = 16

// ErrDecrypt means the key is wrong or the data was tampered with.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a passphrase into a 32-byte AES key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Seal serializes v to JSON and encrypts it using AES-GCM.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new
// random nonce is generated for each call; the ciphertext and nonce are
// returned separately and both are needed by Open.
//
// Example:
//
//	key := DeriveKey([]byte("passphrase"), salt)
//	ciphertext, nonce, err := Seal(map[string]string{"a": "b"}, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Seal(v any, key []byte) (ciphertext, nonce []byte, err error) {

	// serializing JSON
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce, err = RandomBytes(aesgcm.NonceSize())
	if err != nil {
		return nil, nil, err
	}

	// encrypting
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Open decrypts ciphertext produced by Seal and unmarshals the JSON into v.
// A wrong key yields ErrDecrypt.
func Open(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrDecrypt
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
