// Package keystore keeps named signing keys in a passphrase-encrypted file.
package keystore

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
	"github.com/dmitrijs2005/vaultkeeper/internal/identity"
)

const fileVersion = 1

var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrKeyExists    = errors.New("key already exists")
	ErrBadPassword  = errors.New("wrong passphrase or corrupted keystore")
	ErrInvalidName  = errors.New("invalid key name")
	ErrStoreMissing = errors.New("keystore does not exist")
)

// file is the on-disk layout. Only the key map is encrypted.
type file struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Keystore is an unlocked keystore. Changes are kept in memory until Save.
type Keystore struct {
	path string
	salt []byte
	key  []byte
	// name -> hex ed25519 seed
	seeds map[string]string
}

// Open unlocks the keystore at path. When the file does not exist and
// create is true an empty keystore is returned; it is written on Save.
func Open(path string, passphrase []byte, create bool) (*Keystore, error) {
	ok, err := filex.Exists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		if !create {
			return nil, fmt.Errorf("%w: %s", ErrStoreMissing, path)
		}
		salt, err := cryptox.RandomBytes(cryptox.SaltSize)
		if err != nil {
			return nil, err
		}
		return &Keystore{
			path:  path,
			salt:  salt,
			key:   cryptox.DeriveKey(passphrase, salt),
			seeds: map[string]string{},
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &file{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if f.Version != fileVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", f.Version)
	}

	ks := &Keystore{path: path, salt: f.Salt, key: cryptox.DeriveKey(passphrase, f.Salt)}
	if err := cryptox.Open(f.Ciphertext, f.Nonce, ks.key, &ks.seeds); err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return nil, ErrBadPassword
		}
		return nil, err
	}
	if ks.seeds == nil {
		ks.seeds = map[string]string{}
	}
	return ks, nil
}

func (k *Keystore) Path() string { return k.path }

// Save encrypts the key map with a fresh nonce and replaces the file.
func (k *Keystore) Save() error {
	ct, nonce, err := cryptox.Seal(k.seeds, k.key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(file{Version: fileVersion, Salt: k.salt, Nonce: nonce, Ciphertext: ct}, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(k.path, data)
}

// Generate creates a new keypair under name.
func (k *Keystore) Generate(name string) (*identity.Keypair, error) {
	kp := identity.Generate()
	if err := k.Add(name, kp); err != nil {
		return nil, err
	}
	return kp, nil
}

// Add stores kp under name. Names are unique.
func (k *Keystore) Add(name string, kp *identity.Keypair) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := k.seeds[name]; ok {
		return fmt.Errorf("%w: %s", ErrKeyExists, name)
	}
	k.seeds[name] = hex.EncodeToString(kp.Seed())
	return nil
}

func (k *Keystore) Get(name string) (*identity.Keypair, error) {
	s, ok := k.seeds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("key %s: %w", name, err)
	}
	return identity.FromSeed(seed)
}

// Names lists key names in sorted order.
func (k *Keystore) Names() []string {
	names := make([]string, 0, len(k.seeds))
	for n := range k.seeds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Resolve turns ref into an identity: a key name in the store, or an
// address literal.
func (k *Keystore) Resolve(ref string) (identity.Identity, error) {
	if k != nil {
		if _, ok := k.seeds[ref]; ok {
			kp, err := k.Get(ref)
			if err != nil {
				return identity.Zero, err
			}
			return kp.Public, nil
		}
	}
	id, err := identity.Parse(ref)
	if err != nil {
		return identity.Zero, fmt.Errorf("%q is neither a key name nor an address: %w", ref, err)
	}
	return id, nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	// A name that parses as an address would make Resolve ambiguous.
	if _, err := identity.Parse(name); err == nil {
		return fmt.Errorf("%w: %q looks like an address", ErrInvalidName, name)
	}
	return nil
}
