package format

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/common"
)

// ValueKind classifies a field value.
type ValueKind int

const (
	KindBasic ValueKind = iota
	KindProtected
	KindTotp
)

func (k ValueKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindProtected:
		return "protected"
	case KindTotp:
		return "totp"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a field value as stored. Basic values keep their text; Protected
// and Totp values keep ciphertext only.
type Value struct {
	Kind   ValueKind
	Text   string // KindBasic
	Cipher []byte // KindProtected, KindTotp
	Issuer string // KindTotp
}

// Field is a named value inside an entry. Names are unique by convention
// only.
type Field struct {
	Name  string
	Value Value
}

// Entry is one credential.
type Entry struct {
	Name       string
	Tags       []string
	Fields     []Field
	FirstAdded time.Time
	LastUpdate time.Time
}

// Body is the part of a file every generation shares.
type Body struct {
	LastUpdate time.Time
	Inner      []Entry
}

// Validate reports values the scheme cannot represent.
func (b Body) Validate(s Scheme) error {
	for i, e := range b.Inner {
		for j, f := range e.Fields {
			if f.Value.Kind == KindTotp && !s.Totp {
				return fmt.Errorf("entry %d field %d: %w", i, j, common.ErrUnsupportedTotp)
			}
		}
	}
	return nil
}
