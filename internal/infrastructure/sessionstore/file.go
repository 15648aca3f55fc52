package sessionstore

import (
	"context"
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/caportal/portal/internal/core/domain"
)

var errSealed = errors.New("session file cannot be opened with the configured secret")

// A sealed file is salt, then nonce, then the secretbox payload. The key is
// derived from the secret and the salt with scrypt.
const (
	saltSize  = 16
	nonceSize = 24

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// namespaceData is what one namespace holds, keyed like browser storage.
type namespaceData map[string]*domain.Session

// File keeps sessions in a single JSON document on disk, one entry per
// namespace. With a secret the document is sealed with NaCl secretbox, since
// it holds bearer credentials.
type File struct {
	path   string
	secret []byte

	mu sync.Mutex
	// salt and key cache the last derivation; guarded by mu.
	salt []byte
	key  *[32]byte
}

// NewFile stores sessions at path. An empty secret writes plain JSON.
func NewFile(path, secret string) *File {
	f := &File{path: path}
	if secret != "" {
		f.secret = []byte(secret)
	}
	return f
}

// DefaultPath is the per-user location used by the CLI.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "caportal", "session.json"), nil
}

func (f *File) Load(_ context.Context, namespace string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return nil, err
	}
	s := all[namespace][domain.SessionStorageKey]
	if s == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *File) Save(_ context.Context, namespace string, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}
	all[namespace] = namespaceData{domain.SessionStorageKey: s}
	return f.write(all)
}

func (f *File) Clear(_ context.Context, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := all[namespace]; !ok {
		return nil
	}
	delete(all, namespace)
	return f.write(all)
}

func (f *File) read() (map[string]namespaceData, error) {
	all := make(map[string]namespaceData)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return all, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return all, nil
	}

	if f.secret != nil {
		if data, err = f.open(data); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return all, nil
}

func (f *File) write(all map[string]namespaceData) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if f.secret != nil {
		if data, err = f.seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// deriveKey returns the key for salt, reusing the cached one when the salt
// has not changed.
func (f *File) deriveKey(salt []byte) (*[32]byte, error) {
	if f.key != nil && bytes.Equal(f.salt, salt) {
		return f.key, nil
	}
	raw, err := scrypt.Key(f.secret, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	var key [32]byte
	copy(key[:], raw)
	f.salt = append([]byte(nil), salt...)
	f.key = &key
	return f.key, nil
}

func (f *File) seal(plain []byte) ([]byte, error) {
	salt := f.salt
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("session salt: %w", err)
		}
	}
	key, err := f.deriveKey(salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("session nonce: %w", err)
	}
	out := make([]byte, 0, saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, key), nil
}

func (f *File) open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize+secretbox.Overhead {
		return nil, errSealed
	}
	key, err := f.deriveKey(sealed[:saltSize])
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, sealed[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, errSealed
	}
	return plain, nil
}
