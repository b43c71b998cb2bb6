package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

const BlockSize = aes.BlockSize

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPadding    = errors.New("invalid padding")
)

// Cipher encrypts and decrypts with AES-CBC under fixed key material
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// NewCipher creates a new AES-CBC cipher from derived key material
func NewCipher(m *KeyMaterial) (*Cipher, error) {
	block, err := aes.NewCipher(m.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(m.IV) != BlockSize {
		return nil, fmt.Errorf("failed to create cipher: iv must be %d bytes, got %d", BlockSize, len(m.IV))
	}

	return &Cipher{
		block: block,
		iv:    m.IV,
	}, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it in CBC mode
func (c *Cipher) Encrypt(plaintext []byte) []byte {
	padded := Pad(plaintext, BlockSize)
	defer ClearBytes(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(ciphertext, padded)
	return ciphertext
}

// Decrypt decrypts CBC ciphertext and strips PKCS#7 padding
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plaintext, ciphertext)

	n, err := Unpad(plaintext, BlockSize)
	if err != nil {
		ClearBytes(plaintext)
		return nil, err
	}
	return plaintext[:n:n], nil
}

// Pad returns a copy of data padded to a multiple of blockSize (PKCS#7).
// A full block of padding is added when data is already aligned.
func Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad validates PKCS#7 padding and returns the unpadded length.
// Every padding byte is inspected regardless of where a mismatch occurs.
func Unpad(data []byte, blockSize int) (int, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return 0, ErrInvalidPadding
	}

	n := int(data[len(data)-1])
	bad := 0
	if n == 0 || n > blockSize {
		bad = 1
	}
	for i := 1; i <= blockSize; i++ {
		if i <= n && int(data[len(data)-i]) != n {
			bad = 1
		}
	}
	if bad != 0 {
		return 0, ErrInvalidPadding
	}
	return len(data) - n, nil
}
