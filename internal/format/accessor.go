package format

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/totpx"
)

// EntryRef is a read-only view of an entry.
type EntryRef interface {
	Name() string
	Tags() []string
	FirstAdded() time.Time
	LastUpdate() time.Time
	NumFields() int
	Field(idx int) FieldRef
}

// EntryMut is a writable view of an entry. Every successful change bumps the
// entry and store timestamps and marks the store unsaved.
type EntryMut interface {
	EntryRef
	SetName(name string)
	SetTags(tags []string)
	FieldMut(idx int) FieldMut
	// FieldBuilder returns an empty builder for SetField.
	FieldBuilder() *FieldBuilder
	// SetField replaces the field at idx, or appends when idx equals
	// NumFields.
	SetField(idx int, b *FieldBuilder) error
	RemoveField(idx int)
}

// FieldRef is a read-only view of a field.
type FieldRef interface {
	Name() string
	Kind() ValueKind
	// Value renders the value for display. TOTP values yield the current
	// code.
	Value() (Display, error)
	PlaintextValue() (PlaintextValue, error)
}

// FieldMut is a writable view of a field.
type FieldMut interface {
	FieldRef
	// SwapEncryption turns a basic value into a protected one and back.
	SwapEncryption() error
}

// Display is a rendered value. A positive Remaining means the text is only
// valid for that long.
type Display struct {
	Text      string
	Remaining time.Duration
}

func (d Display) TimeSensitive() bool { return d.Remaining > 0 }

func (d Display) String() string {
	if !d.TimeSensitive() {
		return d.Text
	}
	return fmt.Sprintf("%s  (00:%02d remaining)", d.Text, int(d.Remaining/time.Second))
}

// FieldBuilder collects a field before SetField stores it.
type FieldBuilder struct {
	totpSupported bool
	totp          bool
	name          *string
	value         *PlaintextValue
}

// TotpSupported reports whether MakeTotp can succeed.
func (b *FieldBuilder) TotpSupported() bool { return b.totpSupported }

func (b *FieldBuilder) IsTotp() bool { return b.totp }

func (b *FieldBuilder) MakeManual() {
	b.totp = false
	if b.value != nil && b.value.IsTotp() {
		b.value = nil
	}
}

func (b *FieldBuilder) MakeTotp() error {
	if !b.totpSupported {
		return common.ErrUnsupportedTotp
	}
	b.totp = true
	if b.value != nil && !b.value.IsTotp() {
		b.value = nil
	}
	return nil
}

func (b *FieldBuilder) SetName(name string) { b.name = &name }

// SetValue sets the value and switches the builder to the value's kind.
func (b *FieldBuilder) SetValue(v PlaintextValue) {
	b.totp = v.IsTotp()
	b.value = &v
}

type entryRef struct {
	k   *Keyed
	idx int
}

func (e entryRef) entry() *Entry { return &e.k.body.Inner[e.idx] }

func (e entryRef) Name() string          { return e.entry().Name }
func (e entryRef) Tags() []string        { return append([]string{}, e.entry().Tags...) }
func (e entryRef) FirstAdded() time.Time { return e.entry().FirstAdded }
func (e entryRef) LastUpdate() time.Time { return e.entry().LastUpdate }
func (e entryRef) NumFields() int        { return len(e.entry().Fields) }

func (e entryRef) Field(idx int) FieldRef {
	_ = e.entry().Fields[idx]
	return fieldRef{k: e.k, entry: e.idx, idx: idx}
}

type entryMut struct {
	entryRef
}

func (e entryMut) touch() {
	t := now()
	e.entry().LastUpdate = t
	e.k.body.LastUpdate = t
	e.k.unsaved = true
}

func (e entryMut) SetName(name string) {
	e.entry().Name = name
	e.touch()
}

func (e entryMut) SetTags(tags []string) {
	e.entry().Tags = append([]string{}, tags...)
	e.touch()
}

func (e entryMut) FieldMut(idx int) FieldMut {
	_ = e.entry().Fields[idx]
	return fieldMut{fieldRef{k: e.k, entry: e.idx, idx: idx}}
}

func (e entryMut) FieldBuilder() *FieldBuilder {
	return &FieldBuilder{totpSupported: e.k.scheme.Totp}
}

func (e entryMut) SetField(idx int, b *FieldBuilder) error {
	if b.name == nil || b.value == nil {
		return common.ErrIncompleteField
	}
	if b.totp != b.value.IsTotp() {
		return fmt.Errorf("builder kind does not match value: %w", common.ErrIncompleteField)
	}

	v, err := e.k.encode(*b.value)
	if err != nil {
		return err
	}

	fields := &e.entry().Fields
	f := Field{Name: *b.name, Value: v}
	if idx == len(*fields) {
		*fields = append(*fields, f)
	} else {
		(*fields)[idx] = f
	}
	e.touch()
	return nil
}

func (e entryMut) RemoveField(idx int) {
	fields := &e.entry().Fields
	*fields = append((*fields)[:idx], (*fields)[idx+1:]...)
	e.touch()
}

type fieldRef struct {
	k     *Keyed
	entry int
	idx   int
}

func (f fieldRef) field() *Field { return &f.k.body.Inner[f.entry].Fields[f.idx] }

func (f fieldRef) Name() string    { return f.field().Name }
func (f fieldRef) Kind() ValueKind { return f.field().Value.Kind }

func (f fieldRef) Value() (Display, error) {
	v := f.field().Value
	switch v.Kind {
	case KindProtected:
		s, err := f.k.decryptString(v.Cipher)
		if err != nil {
			return Display{}, err
		}
		return Display{Text: s}, nil
	case KindTotp:
		secret, err := f.k.decryptString(v.Cipher)
		if err != nil {
			return Display{}, err
		}
		code, err := totpx.Generate(secret, now())
		if err != nil {
			return Display{}, err
		}
		return Display{Text: code.Value, Remaining: code.Remaining}, nil
	default:
		return Display{Text: v.Text}, nil
	}
}

func (f fieldRef) PlaintextValue() (PlaintextValue, error) {
	v := f.field().Value
	switch v.Kind {
	case KindProtected:
		s, err := f.k.decryptString(v.Cipher)
		if err != nil {
			return PlaintextValue{}, err
		}
		return ManualValue(s, true), nil
	case KindTotp:
		s, err := f.k.decryptString(v.Cipher)
		if err != nil {
			return PlaintextValue{}, err
		}
		return TotpValue(v.Issuer, s), nil
	default:
		return ManualValue(v.Text, false), nil
	}
}

type fieldMut struct {
	fieldRef
}

func (f fieldMut) SwapEncryption() error {
	if f.k.key == nil {
		return common.ErrContentsNotUnlocked
	}

	field := f.field()
	switch field.Value.Kind {
	case KindBasic:
		ct, err := f.k.scheme.Encrypt([]byte(field.Value.Text), f.k.iv, f.k.key)
		if err != nil {
			return err
		}
		field.Value = Value{Kind: KindProtected, Cipher: ct}
	case KindProtected:
		s, err := f.k.decryptString(field.Value.Cipher)
		if err != nil {
			return err
		}
		field.Value = Value{Kind: KindBasic, Text: s}
	default:
		return common.ErrIsTotp
	}

	entryMut{entryRef{k: f.k, idx: f.entry}}.touch()
	return nil
}
