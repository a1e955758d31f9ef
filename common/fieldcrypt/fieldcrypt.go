// Package fieldcrypt provides symmetric field-level encryption for
// confidential free-text values (locations, notes). Ciphertext is opaque to
// the rest of the system: it is stored and passed around as a base64 string
// and only decrypted for authorized reads.
package fieldcrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Cipher encrypts and decrypts individual field values with
// XChaCha20-Poly1305. A random nonce is prepended to each ciphertext.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 256-bit key from the configured secret and returns a Cipher.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("field encryption secret must not be empty")
	}
	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to build AEAD: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns base64(nonce || ciphertext). Empty
// input stays empty so optional fields round-trip as absent.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or truncated input yields
// ErrInvalidCiphertext.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}
