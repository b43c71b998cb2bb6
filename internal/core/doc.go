// Package core provides the sealtext envelope store operations.
//
// Core operations include:
//   - Init: Create a new store with a password check envelope
//   - Put/Get: Seal a value under the store password, or open it again
//   - Remove: Delete entries (password required)
//   - List/Export/Status: Read-only operations that need no password
//   - ChangePassword: Re-seal every entry under a new password
//
// Every value is kept as a standalone envelope, so an exported value can be
// decrypted with `sealtext decrypt` and the store password alone.
package core
