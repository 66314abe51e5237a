// Package v03 reads and writes the v0.3 store format. It is v0.4 without
// TOTP fields.
package v03

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/cryptox"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/format/v04"
)

const Version = "v0.3"

var Warning = &format.Warning{Reason: "v0.3 is outdated and cannot store TOTP fields"}

var scheme = format.Salted

type FileContent struct {
	*format.Keyed
	salt string
}

var _ format.FileContent = (*FileContent)(nil)

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

// FromPlaintext encrypts pt under password with a fresh salt and IV. TOTP
// fields are rejected with common.ErrUnsupportedTotp.
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

func (c *FileContent) Version() string { return Version }
func (c *FileContent) Salt() string    { return c.salt }

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

// ToCurrent re-encrypts the store as v0.4 with fresh key material.
func (c *FileContent) ToCurrent(password string) (format.FileContent, error) {
	if !c.Decrypted() {
		if err := c.SetKey(password); err != nil {
			return nil, err
		}
	}
	pt, err := c.ToPlaintext()
	if err != nil {
		return nil, err
	}
	next, err := v04.FromPlaintext(pt, password)
	if err != nil {
		return nil, err
	}
	return next.ToCurrent(password)
}

func (c *FileContent) Write() ([]byte, error) {
	return format.WriteFile(c.Keyed, Version, c.salt)
}
