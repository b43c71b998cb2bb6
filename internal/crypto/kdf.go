package crypto

import (
	"crypto/sha1"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeySize      = 32    // AES-256 key size
	IVSize       = 16    // AES block size
	DefaultIters = 10000 // PBKDF2 iterations fixed by the envelope format
)

// KeyMaterial is a key and IV derived from one password and salt
type KeyMaterial struct {
	Key []byte
	IV  []byte

	buf []byte
}

// DeriveKeyIV derives a key and IV from a password.
// Both come from a single PBKDF2 output: the first KeySize bytes are the key,
// the next IVSize bytes are the IV.
func DeriveKeyIV(password, salt []byte, iterations int) *KeyMaterial {
	buf := pbkdf2.Key(password, salt, iterations, KeySize+IVSize, sha1.New)
	return &KeyMaterial{
		Key: buf[:KeySize:KeySize],
		IV:  buf[KeySize:],
		buf: buf,
	}
}

// Destroy clears the derived key and IV from memory
func (m *KeyMaterial) Destroy() {
	ClearBytes(m.buf)
}
