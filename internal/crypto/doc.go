// Package crypto provides the cryptographic primitives behind sealtext envelopes.
//
// Encryption uses AES-256-CBC with:
//   - 32-byte key and 16-byte IV derived together from the password
//   - PKCS#7 padding to the 16-byte block size
//   - No authentication tag (confidentiality only)
//
// Key derivation uses PBKDF2-HMAC-SHA1 with:
//   - 32-byte random salt (stored unencrypted in the envelope)
//   - 10,000 iterations
//
// The PRF and iteration count are fixed by the envelope format and are weak
// by current standards. They must not change without a format version.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call KeyMaterial.Destroy() when done with a derived key
package crypto
