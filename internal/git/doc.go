// Package git reports how an envelope store file relates to a git repository.
//
// Values in the store are encrypted, but entry names and sizes are kept in
// an unencrypted index. Committing the store is allowed; `sealtext ls`
// shows a notice so it is a conscious choice:
//   - Whether the store file is tracked by git
//   - Whether the store file is covered by .gitignore
package git
