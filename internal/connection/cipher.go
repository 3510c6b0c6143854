// Package connection manages cluster connection records: their encrypted
// credentials and the directory-backed store they are persisted in.
package connection

import (
	"crypto/aes"
	"encoding/base64"
	"errors"
	"fmt"
)

// keySize is the AES key length derived from the username.
const keySize = 16

// ErrMalformedCiphertext is returned by Decrypt when the input is not valid
// base64, not a whole number of cipher blocks, or carries invalid padding.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// cipherKey derives the AES key from the username: right-padded with spaces
// to 16 bytes, truncated to 16. This matches the legacy on-disk format, so
// existing connection files keep decrypting.
func cipherKey(username string) []byte {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = ' '
	}
	copy(key, username)
	return key
}

// Encrypt encrypts a plaintext password, using the username as key material.
// The result is base64-encoded AES-ECB with PKCS#5 padding. There is no salt
// and no IV; the format is a compatibility requirement, not a security
// design.
func Encrypt(username, plaintext string) (string, error) {
	block, err := aes.NewCipher(cipherKey(username))
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	padded := pkcs5Pad([]byte(plaintext), block.BlockSize())
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += block.BlockSize() {
		block.Encrypt(out[i:i+block.BlockSize()], padded[i:i+block.BlockSize()])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It returns ErrMalformedCiphertext when the input
// is not a validly encoded ciphertext.
func Decrypt(username, ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(cipherKey(username))
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	size := block.BlockSize()
	if len(raw) == 0 || len(raw)%size != 0 {
		return "", ErrMalformedCiphertext
	}

	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += size {
		block.Decrypt(out[i:i+size], raw[i:i+size])
	}

	unpadded, ok := pkcs5Unpad(out, size)
	if !ok {
		return "", ErrMalformedCiphertext
	}
	return string(unpadded), nil
}

// pkcs5Pad appends PKCS#5 padding. The stdlib ships no ECB mode and no
// padding helpers, so both are written out here.
func pkcs5Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs5Unpad(data []byte, size int) ([]byte, bool) {
	if len(data) == 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
