// Package common defines the sentinel errors shared by the storage engine and
// its callers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Cipher setup errors. Key and IV lengths are fixed by construction, so
	// seeing one of these means a bug rather than bad input.
	ErrEncrypt = errors.New("encryption failed")

	// Decryption errors (wrong password or corrupted ciphertext).
	ErrBadCrypt = errors.New("decryption failed")
	ErrBadUTF8  = errors.New("decryption result gave non UTF-8 bytes (likely incorrect key?)")

	// Format-version limitations.
	ErrUnsupportedTotp = errors.New("TOTP values are not supported with your current file version")

	// Accessor preconditions.
	ErrContentsNotUnlocked = errors.New("contents have not been decrypted")
	ErrIsTotp              = errors.New("encryption cannot be disabled on TOTP fields")
	ErrBadTotpSecret       = errors.New("this field has an invalid TOTP secret")
	ErrIncompleteField     = errors.New("field builder is missing a name or a value")

	// Loader errors.
	ErrUnknownVersion  = errors.New("unknown file format version")
	ErrVersionMismatch = errors.New("file format version does not match parser")
	ErrMalformedFile   = errors.New("malformed store file")
	ErrStoreExists     = errors.New("store file already exists")

	// Background unlock.
	ErrUnlockInProgress = errors.New("a key derivation is already in progress")
	ErrNoUnlockPending  = errors.New("no key derivation has been started")
)
