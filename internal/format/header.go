package format

import (
	"fmt"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/cryptox"
	"gopkg.in/yaml.v3"
)

// Header is the key material every generation writes before the body.
// Salt is empty for generations without a salted KDF.
type Header struct {
	Version string
	Token   []byte
	IV      []byte
	Salt    string
}

// File is the complete on-disk document.
type File struct {
	Header
	Body
}

// ParseFile decodes data and checks the parts every generation has in
// common: the exact version tag, the IV length and the representable value
// kinds. Files from before the version tag existed are parsed with an empty
// version.
func ParseFile(data []byte, version string, scheme Scheme) (File, error) {
	var w wireFile
	if err := yaml.Unmarshal(data, &w); err != nil {
		return File{}, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}
	if w.Version != version {
		return File{}, fmt.Errorf("%w: expected %q, got %q", common.ErrVersionMismatch, version, w.Version)
	}
	if len(w.IV) != cryptox.IVSize {
		return File{}, fmt.Errorf("%w: iv is %d bytes", common.ErrMalformedFile, len(w.IV))
	}
	if len(w.Token) == 0 {
		return File{}, fmt.Errorf("%w: missing token", common.ErrMalformedFile)
	}

	body, err := w.body(scheme.Tags)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}
	if err := body.Validate(scheme); err != nil {
		return File{}, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}

	return File{
		Header: Header{Version: w.Version, Token: w.Token, IV: w.IV, Salt: w.Salt},
		Body:   body,
	}, nil
}

// WriteFile serializes k under the given header fields.
func WriteFile(k *Keyed, version, salt string) ([]byte, error) {
	w, err := newWireFile(k.body, k.scheme.Tags)
	if err != nil {
		return nil, err
	}
	w.Version, w.Token, w.IV, w.Salt = version, k.token, k.iv, salt
	return yaml.Marshal(w)
}

// ProbeVersion returns the version tag of a serialized store, or "" when
// the document has none.
func ProbeVersion(data []byte) (string, error) {
	var h struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &h); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}
	return h.Version, nil
}
