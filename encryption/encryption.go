// Package encryption seals configuration payloads with AES-256-GCM before they
// reach persistence. A Manager satisfies configstore.Encryptor.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// MinKeyLength is the minimum number of bytes of key material.
	MinKeyLength = 32
	// EnvKeyName is the environment variable read by NewManager.
	EnvKeyName = "CONFIGSTORE_ENCRYPTION_KEY"
)

var (
	// ErrInvalidKeyLength is returned when the key material is shorter than MinKeyLength.
	ErrInvalidKeyLength = errors.New("encryption key must be at least 32 bytes")
	// ErrKeyNotFound is returned when EnvKeyName is unset or empty.
	ErrKeyNotFound = errors.New("encryption key not found in environment variable " + EnvKeyName)
	// ErrEncryptionFailed is returned when a payload cannot be sealed.
	ErrEncryptionFailed = errors.New("encryption operation failed")
	// ErrDecryptionFailed is returned when a payload cannot be opened.
	ErrDecryptionFailed = errors.New("decryption operation failed")
	// ErrInvalidCiphertext is returned when the decoded payload is shorter than a nonce.
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short or malformed")
)

// Manager seals and opens payloads. The AES key is the SHA-256 digest of the
// key material, so any material of at least MinKeyLength bytes is accepted.
// A Manager is safe for concurrent use.
type Manager struct {
	aead cipher.AEAD
}

// NewManager creates a Manager from the key material in EnvKeyName.
func NewManager() (*Manager, error) {
	material := os.Getenv(EnvKeyName)
	if material == "" {
		return nil, ErrKeyNotFound
	}
	return NewManagerWithKey([]byte(material))
}

// NewManagerWithKey creates a Manager from the given key material.
func NewManagerWithKey(material []byte) (*Manager, error) {
	if err := checkLength(material); err != nil {
		return nil, err
	}

	key := deriveKey(material)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Manager{aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext). An empty plaintext stays empty.
func (m *Manager) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, m.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: failed to generate nonce: %v", ErrEncryptionFailed, err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (m *Manager) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryptionFailed, err)
	}

	n := m.aead.NonceSize()
	if len(sealed) < n {
		return "", ErrInvalidCiphertext
	}

	plaintext, err := m.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// ValidateKey checks EnvKeyName without building a Manager, for fast failure at startup.
func ValidateKey() error {
	material := os.Getenv(EnvKeyName)
	if material == "" {
		return ErrKeyNotFound
	}
	return checkLength([]byte(material))
}

func checkLength(material []byte) error {
	if len(material) < MinKeyLength {
		return fmt.Errorf("%w: got %d bytes, need at least %d", ErrInvalidKeyLength, len(material), MinKeyLength)
	}
	return nil
}

func deriveKey(material []byte) []byte {
	sum := sha256.Sum256(material)
	return sum[:]
}
