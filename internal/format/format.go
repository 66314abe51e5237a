// Package format defines the contract every store file generation implements
// and the pieces the generations share.
//
// # Overview
//
// A store file holds named entries, each with a list of fields whose values
// are plain text, encrypted text, or encrypted TOTP secrets. Every generation
// of the on-disk format lives in its own sub-package (v02, v03, v04) and
// exposes itself through FileContent, so callers never need to know which one
// was loaded.
//
// # Keys
//
// A loaded store starts locked. SetKey derives a key from the password with
// the generation's KDF and checks it by decrypting the stored token; only a
// byte-exact match with EncryptToken unlocks the store. Reading or writing
// encrypted values on a locked store fails with common.ErrContentsNotUnlocked.
//
// # Accessors
//
// EntryRef/EntryMut and FieldRef/FieldMut are views addressed by index. They
// stay valid until entries or fields are added or removed; indices out of
// range are a caller bug and panic like any slice access.
package format

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/cryptox"
)

// EncryptToken is the known plaintext whose encryption is stored in every
// file. Decrypting it back is the only password check there is.
const EncryptToken = "encryption token ☺"

// FileContent is implemented by every loaded store, whatever its generation.
type FileContent interface {
	// Version returns the version tag written to the file.
	Version() string

	// ToCurrent unlocks the store with password (unless it already is) and
	// converts it to the newest generation. For the newest generation this
	// returns the receiver.
	ToCurrent(password string) (FileContent, error)

	// Write serializes the store.
	Write() ([]byte, error)

	// DeriveKey runs the generation's KDF. It does not touch the store and
	// may run on another goroutine.
	DeriveKey(password string) ([]byte, error)
	// Unlock checks key against the stored token and keeps it on success.
	Unlock(key []byte) error
	// SetKey is DeriveKey followed by Unlock.
	SetKey(password string) error

	Decrypted() bool
	Unsaved() bool
	MarkSaved()

	NumEntries() int
	Entry(idx int) EntryRef
	EntryMut(idx int) EntryMut
	AddEmptyEntry(name string) int
	RemoveEntry(idx int)

	// ToPlaintext decrypts everything into the version-independent
	// representation used for export.
	ToPlaintext() (PlaintextContent, error)
}

// Warning is returned by the loader for formats that still load but should
// be upgraded.
type Warning struct {
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s; consider running the update subcommand", w.Reason)
}

// Scheme is how a generation encrypts individual values and which value
// kinds it can store.
type Scheme struct {
	Encrypt func(plaintext, iv, key []byte) ([]byte, error)
	Decrypt func(ciphertext, iv, key []byte) ([]byte, error)
	Totp    bool
	Tags    Tags
}

// Tags are the mapping keys a generation writes to mark each value kind.
type Tags struct {
	Basic     string
	Protected string
	Totp      string
}

var (
	// TitleTags is the value layout up to v0.3.
	TitleTags = Tags{Basic: "Basic", Protected: "Protected", Totp: "Totp"}
	// LowerTags is the value layout from v0.4 on.
	LowerTags = Tags{Basic: "basic", Protected: "protected", Totp: "totp"}
)

var (
	// Unsalted encrypts values directly (oldest generation).
	Unsalted = Scheme{Encrypt: cryptox.Encrypt, Decrypt: cryptox.Decrypt, Tags: TitleTags}
	// Salted prefixes every value with a length-hiding salt.
	Salted = Scheme{Encrypt: cryptox.EncryptSalted, Decrypt: cryptox.DecryptSalted, Tags: TitleTags}
)

// WithTotp returns a copy of s that also stores TOTP values. Every generation
// with TOTP support writes lowercase tags.
func (s Scheme) WithTotp() Scheme {
	s.Totp = true
	s.Tags = LowerTags
	return s
}

// now is swapped out by tests that need a fixed clock.
var now = time.Now
