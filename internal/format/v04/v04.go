// Package v04 is the current store format: Argon2id key derivation, salted
// value encryption and TOTP fields.
package v04

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/cryptox"
	"github.com/dmitrijs2005/lockbox/internal/format"
)

const Version = "v0.4"

var scheme = format.Salted.WithTotp()

// FileContent is a loaded v0.4 store.
type FileContent struct {
	*format.Keyed
	salt string
}

var _ format.FileContent = (*FileContent)(nil)

// Parse loads a v0.4 document. The result is locked.
func Parse(data []byte) (*FileContent, error) {
	f, err := format.ParseFile(data, Version, scheme)
	if err != nil {
		return nil, err
	}
	if f.Salt == "" {
		return nil, fmt.Errorf("%w: missing salt", common.ErrMalformedFile)
	}
	return &FileContent{
		Keyed: format.NewKeyed(f.Body, f.Token, f.IV, scheme),
		salt:  f.Salt,
	}, nil
}

// FromPlaintext encrypts pt under password with a fresh salt and IV.
func FromPlaintext(pt format.PlaintextContent, password string) (*FileContent, error) {
	salt := cryptox.GenerateSalt()
	key, err := cryptox.HashPasswordArgon2(salt, password)
	if err != nil {
		return nil, err
	}
	k, err := format.Seal(pt, scheme, cryptox.GenerateIV(), key)
	if err != nil {
		return nil, err
	}
	return &FileContent{Keyed: k, salt: salt}, nil
}

// MakeNew returns an empty, unlocked store.
func MakeNew(password string) (*FileContent, error) {
	return FromPlaintext(format.NewPlaintextContent(), password)
}

func (c *FileContent) Version() string { return Version }

func (c *FileContent) Salt() string { return c.salt }

func (c *FileContent) DeriveKey(password string) ([]byte, error) {
	key, err := cryptox.HashPasswordArgon2(c.salt, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}
	return key, nil
}

func (c *FileContent) SetKey(password string) error {
	key, err := c.DeriveKey(password)
	if err != nil {
		return err
	}
	return c.Unlock(key)
}

// ToCurrent only unlocks: v0.4 is already current.
func (c *FileContent) ToCurrent(password string) (format.FileContent, error) {
	if !c.Decrypted() {
		if err := c.SetKey(password); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *FileContent) Write() ([]byte, error) {
	return format.WriteFile(c.Keyed, Version, c.salt)
}
