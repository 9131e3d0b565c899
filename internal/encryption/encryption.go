/**
 * @description
 * Field-level encryption for free-text subscription notes. Notes are
 * encrypted with AES-256-GCM before they reach the database and stored as
 * `ivHex:tagHex:cipherHex` so a leaked dump never exposes plaintext notes.
 * Empty strings bypass encryption entirely and round-trip as "".
 */
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	keyLength = 32
	ivLength  = 16
	tagLength = 16
)

// ErrInvalidCiphertext is returned when stored data does not match the
// iv:tag:cipher format or fails authentication.
var ErrInvalidCiphertext = errors.New("invalid encrypted data format")

// Cipher performs authenticated encryption of note fields with a fixed key.
type Cipher struct {
	key []byte
}

// NewCipher creates a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keyLength, len(key))
	}
	return &Cipher{key: key}, nil
}

// Encrypt seals plaintext and returns the iv:tag:cipher hex triple.
// Empty input returns "" untouched.
func (c *Cipher) Encrypt(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	// GCM appends the auth tag to the ciphertext; split it back out to
	// match the stored format.
	sealed := gcm.Seal(nil, iv, []byte(text), nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	), nil
}

// Decrypt opens an iv:tag:cipher hex triple back into plaintext.
// Empty input returns "" untouched.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}

	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		return "", ErrInvalidCiphertext
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		return "", ErrInvalidCiphertext
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagLength {
		return "", ErrInvalidCiphertext
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}
