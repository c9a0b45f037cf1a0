package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// TokenCipher encrypts OAuth tokens before they reach the database.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// NoopCipher passes tokens through unencrypted. Used when no
// TOKEN_ENCRYPTION_KEY is configured.
type NoopCipher struct{}

func (NoopCipher) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (NoopCipher) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

// AesGcmCipher encrypts tokens with AES-256-GCM.
type AesGcmCipher struct {
	gcm cipher.AEAD
}

func NewAesGcmCipher(hexKey string) (*AesGcmCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key hex: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AesGcmCipher{gcm: gcm}, nil
}

func (c *AesGcmCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the encrypted data to nonce, returning nonce || ciphertext || tag
	ciphertext := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

func (c *AesGcmCipher) Decrypt(ciphertext string) (string, error) {
	buffer, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode hex: %w", err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(buffer) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, cipherBytes := buffer[:nonceSize], buffer[nonceSize:]
	plainBytes, err := c.gcm.Open(nil, nonce, cipherBytes, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plainBytes), nil
}
