package keystore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var _ Store = (*FileStore)(nil)

// FileStore persists the key-value map as a single encrypted file. The key is
// derived from a passphrase with scrypt and the payload is sealed with
// XChaCha20-Poly1305. Writes go through a temp file and rename so a crash
// never leaves a half-written store.
type FileStore struct {
	path       string
	passphrase []byte

	lock   sync.Mutex
	values map[string]string
}

// NewFileStore opens (or creates) the encrypted store at path.
func NewFileStore(path string, passphrase []byte) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	if len(passphrase) == 0 {
		return nil, errors.New("[NewFileStore] passphrase is required")
	}

	fs := &FileStore{
		path:       path,
		passphrase: passphrase,
		values:     make(map[string]string),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) Get(_ context.Context, key string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	value, ok := fs.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (fs *FileStore) Set(_ context.Context, key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[key] = value
	return fs.save()
}

func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.save()
}

func (fs *FileStore) load() error {
	raw, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[FileStore.load] read")
	}
	if len(raw) < saltLength+chacha20poly1305.NonceSizeX {
		return errors.New("[FileStore.load] store file truncated")
	}

	salt := raw[:saltLength]
	nonce := raw[saltLength : saltLength+chacha20poly1305.NonceSizeX]
	sealed := raw[saltLength+chacha20poly1305.NonceSizeX:]

	aead, err := fs.aead(salt)
	if err != nil {
		return err
	}
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return errors.Wrap(err, "[FileStore.load] decrypt")
	}
	if err := json.Unmarshal(plain, &fs.values); err != nil {
		return errors.Wrap(err, "[FileStore.load] unmarshal")
	}
	return nil
}

// save must be called with the lock held.
func (fs *FileStore) save() error {
	plain, err := json.Marshal(fs.values)
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] marshal")
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return errors.Wrap(err, "[FileStore.save] salt")
	}
	aead, err := fs.aead(salt)
	if err != nil {
		return err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return errors.Wrap(err, "[FileStore.save] nonce")
	}

	out := make([]byte, 0, saltLength+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, nil)

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.save] mkdir")
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.save] write")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.save] rename")
	}
	return nil
}

func (fs *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(fs.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.aead] derive key")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.aead] cipher")
	}
	return aead, nil
}
