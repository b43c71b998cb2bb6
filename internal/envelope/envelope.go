package envelope

import (
	"encoding/base64"
	"encoding/hex"
	"unicode/utf8"

	"github.com/illarion/sealtext/internal/crypto"
)

// Encrypt seals plaintext under password and returns the envelope text.
// Every call uses a fresh salt, so equal inputs give different envelopes.
func Encrypt(plaintext, password string) (string, error) {
	if plaintext == "" {
		return "", missing("plaintext")
	}
	if password == "" {
		return "", missing("password")
	}

	pt := []byte(plaintext)
	defer crypto.ClearBytes(pt)
	pw := []byte(password)
	defer crypto.ClearBytes(pw)

	return Seal(pt, pw)
}

// Seal is Encrypt for callers holding the plaintext and password as bytes.
// The caller keeps ownership of both slices.
// Plaintext must be valid UTF-8, since Open rejects anything else.
func Seal(plaintext, password []byte) (string, error) {
	if len(plaintext) == 0 {
		return "", missing("plaintext")
	}
	if !utf8.Valid(plaintext) {
		return "", invalid("plaintext", "is not valid UTF-8")
	}
	if len(password) == 0 {
		return "", missing("password")
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return "", err
	}

	km := crypto.DeriveKeyIV(password, salt, crypto.DefaultIters)
	defer km.Destroy()

	c, err := crypto.NewCipher(km)
	if err != nil {
		return "", err
	}
	ciphertext := c.Encrypt(plaintext)

	raw := make([]byte, 0, len(salt)+len(ciphertext))
	raw = append(raw, salt...)
	raw = append(raw, ciphertext...)

	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decrypt opens an envelope with password and returns the plaintext
func Decrypt(text, password string) (string, error) {
	if text == "" {
		return "", missing("envelope")
	}
	if password == "" {
		return "", missing("password")
	}

	pw := []byte(password)
	defer crypto.ClearBytes(pw)

	plaintext, err := Open(text, pw)
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(plaintext)

	return string(plaintext), nil
}

// Open is Decrypt returning the plaintext as bytes.
// The caller should clear the result with crypto.ClearBytes when done.
func Open(text string, password []byte) ([]byte, error) {
	if text == "" {
		return nil, missing("envelope")
	}
	if len(password) == 0 {
		return nil, missing("password")
	}

	salt, ciphertext, err := split(text)
	if err != nil {
		return nil, err
	}

	km := crypto.DeriveKeyIV(password, salt, crypto.DefaultIters)
	defer km.Destroy()

	c, err := crypto.NewCipher(km)
	if err != nil {
		return nil, err
	}

	// bad length, bad padding and bad text all report the same error
	plaintext, err := c.Decrypt(ciphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if !utf8.Valid(plaintext) {
		crypto.ClearBytes(plaintext)
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// Info describes the public parts of an envelope
type Info struct {
	Salt             string
	CiphertextLength int
	Blocks           int
	Aligned          bool
}

// Inspect decodes an envelope without a password
func Inspect(text string) (*Info, error) {
	if text == "" {
		return nil, missing("envelope")
	}

	salt, ciphertext, err := split(text)
	if err != nil {
		return nil, err
	}

	return &Info{
		Salt:             hex.EncodeToString(salt),
		CiphertextLength: len(ciphertext),
		Blocks:           len(ciphertext) / crypto.BlockSize,
		Aligned:          len(ciphertext) > 0 && len(ciphertext)%crypto.BlockSize == 0,
	}, nil
}

func split(text string) (salt, ciphertext []byte, err error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, nil, ErrMalformedEnvelope
	}
	if len(raw) < crypto.SaltSize {
		return nil, nil, ErrMalformedEnvelope
	}
	return raw[:crypto.SaltSize], raw[crypto.SaltSize:], nil
}
