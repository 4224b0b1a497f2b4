// Package cryptox holds the cryptographic primitives of the auth service:
// the field cipher protecting stored payment data and the one-way hashers
// for passwords and security answers.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/deckexc/internal/common"
)

// FieldCipher reversibly encrypts single string fields. Ciphertexts are
// plain strings so they can be stored in text columns.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// CBCFieldCipher is AES-256-CBC with a static key and IV, hex-encoded.
//
// The transform is deterministic: the same plaintext always produces the same
// ciphertext, which is what allows a unique index on encrypted card numbers.
// There is no authentication tag.
type CBCFieldCipher struct {
	block cipher.Block
	iv    []byte
}

var _ FieldCipher = (*CBCFieldCipher)(nil)

// NewCBCFieldCipher derives the key and IV from two configured secrets: the
// key is the first 32 hex characters of sha256(keySecret) and the IV the
// first 16 hex characters of sha256(ivSecret). The hex characters themselves
// are the key material, kept for compatibility with existing rows.
func NewCBCFieldCipher(keySecret, ivSecret string) (*CBCFieldCipher, error) {
	key := deriveHexPrefix(keySecret, 32)
	iv := deriveHexPrefix(ivSecret, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher init: %w", err)
	}
	return &CBCFieldCipher{block: block, iv: iv}, nil
}

func deriveHexPrefix(secret string, n int) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(hex.EncodeToString(sum[:])[:n])
}

func (c *CBCFieldCipher) Encrypt(plaintext string) (string, error) {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Malformed hex, a bad length or bad padding all
// yield common.ErrDecryptionFailed.
func (c *CBCFieldCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d", common.ErrDecryptionFailed, len(raw))
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, fmt.Errorf("%w: bad padding", common.ErrDecryptionFailed)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: bad padding", common.ErrDecryptionFailed)
		}
	}
	return b[:len(b)-n], nil
}
