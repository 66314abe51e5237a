// Package v02 reads the v0.2 store format and the unversioned layout that
// preceded it. Both hash the password with plain SHA-256 and encrypt values
// without salting.
package v02

import (
	"github.com/dmitrijs2005/lockbox/internal/cryptox"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/format/v03"
)

const Version = "v0.2"

var (
	Warning       = &format.Warning{Reason: "v0.2 is deprecated for security reasons"}
	LegacyWarning = &format.Warning{Reason: "unversioned files are deprecated for security reasons"}
)

var scheme = format.Unsalted

type FileContent struct {
	*format.Keyed
}

var _ format.FileContent = (*FileContent)(nil)

func Parse(data []byte) (*FileContent, error) {
	f, err := format.ParseFile(data, Version, scheme)
	if err != nil {
		return nil, err
	}
	return &FileContent{Keyed: format.NewKeyed(f.Body, f.Token, f.IV, scheme)}, nil
}

// ParseLegacy loads a file written before the version tag existed. Writing
// it back produces a v0.2 file; the layouts are otherwise the same.
func ParseLegacy(data []byte) (*FileContent, error) {
	f, err := format.ParseFile(data, "", scheme)
	if err != nil {
		return nil, err
	}
	return &FileContent{Keyed: format.NewKeyed(f.Body, f.Token, f.IV, scheme)}, nil
}

// FromPlaintext builds a v0.2 store. Only tests and fixtures need it; the
// tool never writes new v0.2 files.
func FromPlaintext(pt format.PlaintextContent, password string) (*FileContent, error) {
	k, err := format.Seal(pt, scheme, cryptox.GenerateIV(), cryptox.HashPasswordSHA256(password))
	if err != nil {
		return nil, err
	}
	return &FileContent{Keyed: k}, nil
}

func (c *FileContent) Version() string { return Version }

func (c *FileContent) DeriveKey(password string) ([]byte, error) {
	return cryptox.HashPasswordSHA256(password), nil
}

func (c *FileContent) SetKey(password string) error {
	return c.Unlock(cryptox.HashPasswordSHA256(password))
}

// ToCurrent walks the store through v0.3 to the newest format.
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
	next, err := v03.FromPlaintext(pt, password)
	if err != nil {
		return nil, err
	}
	return next.ToCurrent(password)
}

func (c *FileContent) Write() ([]byte, error) {
	return format.WriteFile(c.Keyed, Version, "")
}
