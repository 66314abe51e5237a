package format

import (
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/lockbox/internal/common"
)

// Keyed holds a store body together with what is needed to decrypt it: the
// encrypted token, the file IV, the generation's scheme and, once unlocked,
// the key. Every generation embeds one.
type Keyed struct {
	body    Body
	token   []byte
	iv      []byte
	scheme  Scheme
	key     []byte
	unsaved bool
}

// NewKeyed wraps a parsed body. The result is locked.
func NewKeyed(body Body, token, iv []byte, scheme Scheme) *Keyed {
	return &Keyed{body: body, token: token, iv: iv, scheme: scheme}
}

// Seal encrypts pt under key into a new, already unlocked container. The
// result counts as unsaved.
func Seal(pt PlaintextContent, scheme Scheme, iv, key []byte) (*Keyed, error) {
	token, err := scheme.Encrypt([]byte(EncryptToken), iv, key)
	if err != nil {
		return nil, err
	}

	k := &Keyed{
		token:   token,
		iv:      iv,
		scheme:  scheme,
		key:     key,
		unsaved: true,
		body:    Body{LastUpdate: pt.LastUpdate, Inner: make([]Entry, 0, len(pt.Entries))},
	}

	for _, pe := range pt.Entries {
		e := Entry{
			Name:       pe.Name,
			Tags:       append([]string{}, pe.Tags...),
			Fields:     make([]Field, 0, len(pe.Fields)),
			FirstAdded: pe.FirstAdded,
			LastUpdate: pe.LastUpdate,
		}
		for _, pf := range pe.Fields {
			v, err := k.encode(pf.Value)
			if err != nil {
				return nil, fmt.Errorf("entry %q field %q: %w", pe.Name, pf.Name, err)
			}
			e.Fields = append(e.Fields, Field{Name: pf.Name, Value: v})
		}
		k.body.Inner = append(k.body.Inner, e)
	}

	return k, nil
}

func (k *Keyed) Body() Body     { return k.body }
func (k *Keyed) Token() []byte  { return k.token }
func (k *Keyed) IV() []byte     { return k.iv }
func (k *Keyed) Scheme() Scheme { return k.scheme }

// Key returns the unlocking key, or nil while locked.
func (k *Keyed) Key() []byte { return k.key }

// Unlock keeps key if it decrypts the token to EncryptToken. A wrong key
// leaves the container as it was and returns common.ErrBadCrypt.
func (k *Keyed) Unlock(key []byte) error {
	plain, err := k.scheme.Decrypt(k.token, k.iv, key)
	if err != nil {
		return err
	}
	if string(plain) != EncryptToken {
		return common.ErrBadCrypt
	}
	k.key = key
	return nil
}

func (k *Keyed) Decrypted() bool { return k.key != nil }
func (k *Keyed) Unsaved() bool   { return k.unsaved }
func (k *Keyed) MarkSaved()      { k.unsaved = false }

func (k *Keyed) NumEntries() int { return len(k.body.Inner) }

func (k *Keyed) Entry(idx int) EntryRef {
	_ = k.body.Inner[idx]
	return entryRef{k: k, idx: idx}
}

func (k *Keyed) EntryMut(idx int) EntryMut {
	_ = k.body.Inner[idx]
	return entryMut{entryRef{k: k, idx: idx}}
}

// AddEmptyEntry appends an entry with no tags or fields and returns its
// index.
func (k *Keyed) AddEmptyEntry(name string) int {
	t := now()
	k.body.Inner = append(k.body.Inner, Entry{
		Name:       name,
		Tags:       []string{},
		Fields:     []Field{},
		FirstAdded: t,
		LastUpdate: t,
	})
	k.body.LastUpdate = t
	k.unsaved = true
	return len(k.body.Inner) - 1
}

func (k *Keyed) RemoveEntry(idx int) {
	k.body.Inner = append(k.body.Inner[:idx], k.body.Inner[idx+1:]...)
	k.body.LastUpdate = now()
	k.unsaved = true
}

// ToPlaintext decrypts every value. The container must be unlocked.
func (k *Keyed) ToPlaintext() (PlaintextContent, error) {
	if k.key == nil {
		return PlaintextContent{}, common.ErrContentsNotUnlocked
	}

	pt := PlaintextContent{
		LastUpdate: k.body.LastUpdate,
		Entries:    make([]PlaintextEntry, 0, len(k.body.Inner)),
	}
	for i := range k.body.Inner {
		e := k.Entry(i)
		pe := PlaintextEntry{
			Name:       e.Name(),
			Tags:       e.Tags(),
			Fields:     make([]PlaintextField, 0, e.NumFields()),
			FirstAdded: e.FirstAdded(),
			LastUpdate: e.LastUpdate(),
		}
		for j := 0; j < e.NumFields(); j++ {
			f := e.Field(j)
			v, err := f.PlaintextValue()
			if err != nil {
				return PlaintextContent{}, fmt.Errorf("entry %q field %q: %w", pe.Name, f.Name(), err)
			}
			pe.Fields = append(pe.Fields, PlaintextField{Name: f.Name(), Value: v})
		}
		pt.Entries = append(pt.Entries, pe)
	}
	return pt, nil
}

func (k *Keyed) decryptString(ciphertext []byte) (string, error) {
	if k.key == nil {
		return "", common.ErrContentsNotUnlocked
	}
	plain, err := k.scheme.Decrypt(ciphertext, k.iv, k.key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", common.ErrBadUTF8
	}
	return string(plain), nil
}

// encode turns a plaintext value into its stored form.
func (k *Keyed) encode(v PlaintextValue) (Value, error) {
	switch {
	case v.Totp != nil:
		if !k.scheme.Totp {
			return Value{}, common.ErrUnsupportedTotp
		}
		if k.key == nil {
			return Value{}, fmt.Errorf("cannot set %s field: %w", KindTotp, common.ErrContentsNotUnlocked)
		}
		ct, err := k.scheme.Encrypt([]byte(v.Totp.Secret), k.iv, k.key)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTotp, Issuer: v.Totp.Issuer, Cipher: ct}, nil
	case v.Protected:
		if k.key == nil {
			return Value{}, fmt.Errorf("cannot set %s field: %w", KindProtected, common.ErrContentsNotUnlocked)
		}
		ct, err := k.scheme.Encrypt([]byte(v.Value), k.iv, k.key)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindProtected, Cipher: ct}, nil
	default:
		return Value{Kind: KindBasic, Text: v.Value}, nil
	}
}
