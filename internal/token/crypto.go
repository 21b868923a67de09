package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// keyCipher seals the upstream access key before it is embedded in a token.
// Tokens travel over channels that are not all fully trusted, so the key must
// never appear in claims as cleartext.
type keyCipher struct {
	aead cipher.AEAD
}

// newKeyCipher derives an AES-256-GCM cipher from the configured secret.
// The derivation is deterministic so all instances of a deployment can open
// each other's tokens.
func newKeyCipher(secret string) (*keyCipher, error) {
	sum := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("init aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &keyCipher{aead: aead}, nil
}

// seal encrypts plaintext and returns base64(nonce || ciphertext).
func (k *keyCipher) seal(plaintext string) (string, error) {
	nonce := make([]byte, k.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := k.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// open reverses seal. Tampered or truncated input fails closed.
func (k *keyCipher) open(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode sealed key: %w", err)
	}
	if len(raw) < k.aead.NonceSize() {
		return "", fmt.Errorf("sealed key too short")
	}
	nonce, ciphertext := raw[:k.aead.NonceSize()], raw[k.aead.NonceSize():]
	plaintext, err := k.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open sealed key: %w", err)
	}
	return string(plaintext), nil
}
