// Package envelope implements password-based text envelopes.
//
// An envelope is base64(salt || ciphertext):
//   - salt: 32 random bytes, fresh for every Encrypt call
//   - ciphertext: AES-256-CBC of the UTF-8 plaintext, PKCS#7 padded
//
// Key and IV are derived from the password and salt (see package crypto),
// so only the password is needed to decrypt.
//
// Errors:
//   - ErrInvalidArgument: empty plaintext, password or envelope (see ArgumentError)
//   - ErrMalformedEnvelope: not base64, or shorter than the salt
//   - ErrDecryptionFailed: wrong password or corrupted ciphertext
//
// Wrong password and corruption are deliberately indistinguishable.
// Envelopes carry no authentication tag; a modified envelope may decrypt
// to different text without error.
package envelope
