package format

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaintextContent is the decrypted, version-independent form of a store.
// It is what gets exported and what migrations pass between generations.
type PlaintextContent struct {
	LastUpdate time.Time
	Entries    []PlaintextEntry
}

type PlaintextEntry struct {
	Name       string
	Tags       []string
	Fields     []PlaintextField
	FirstAdded time.Time
	LastUpdate time.Time
}

type PlaintextField struct {
	Name  string
	Value PlaintextValue
}

// PlaintextValue is either a manual value (optionally marked protected) or a
// TOTP secret.
type PlaintextValue struct {
	Value     string
	Protected bool
	Totp      *PlaintextTotp
}

type PlaintextTotp struct {
	Issuer string `yaml:"issuer"`
	Secret string `yaml:"secret"`
}

func ManualValue(value string, protected bool) PlaintextValue {
	return PlaintextValue{Value: value, Protected: protected}
}

func TotpValue(issuer, secret string) PlaintextValue {
	return PlaintextValue{Totp: &PlaintextTotp{Issuer: issuer, Secret: secret}}
}

func (v PlaintextValue) IsTotp() bool { return v.Totp != nil }

// NewPlaintextContent returns an empty store stamped with the current time.
func NewPlaintextContent() PlaintextContent {
	return PlaintextContent{LastUpdate: now(), Entries: []PlaintextEntry{}}
}

type plaintextWire struct {
	LastUpdate epoch                `yaml:"last_update"`
	Entries    []plaintextEntryWire `yaml:"entries"`
}

type plaintextEntryWire struct {
	Name       string               `yaml:"name"`
	Tags       []string             `yaml:"tags"`
	Fields     []plaintextFieldWire `yaml:"fields"`
	FirstAdded epoch                `yaml:"first_added"`
	LastUpdate epoch                `yaml:"last_update"`
}

type plaintextFieldWire struct {
	Name  string             `yaml:"name"`
	Value plaintextValueWire `yaml:"value"`
}

// plaintextValueWire holds exactly one of its variants.
type plaintextValueWire struct {
	Manual *manualWire    `yaml:"Manual,omitempty"`
	Totp   *PlaintextTotp `yaml:"Totp,omitempty"`
}

type manualWire struct {
	Value     string `yaml:"value"`
	Protected bool   `yaml:"protected"`
}

// MarshalPlaintext renders pt as YAML.
func MarshalPlaintext(pt PlaintextContent) ([]byte, error) {
	w := plaintextWire{LastUpdate: epochOf(pt.LastUpdate), Entries: make([]plaintextEntryWire, 0, len(pt.Entries))}
	for _, e := range pt.Entries {
		we := plaintextEntryWire{
			Name:       e.Name,
			Tags:       e.Tags,
			Fields:     make([]plaintextFieldWire, 0, len(e.Fields)),
			FirstAdded: epochOf(e.FirstAdded),
			LastUpdate: epochOf(e.LastUpdate),
		}
		for _, f := range e.Fields {
			var v plaintextValueWire
			if f.Value.Totp != nil {
				v.Totp = f.Value.Totp
			} else {
				v.Manual = &manualWire{Value: f.Value.Value, Protected: f.Value.Protected}
			}
			we.Fields = append(we.Fields, plaintextFieldWire{Name: f.Name, Value: v})
		}
		w.Entries = append(w.Entries, we)
	}
	return yaml.Marshal(w)
}

// UnmarshalPlaintext parses YAML produced by MarshalPlaintext.
func UnmarshalPlaintext(data []byte) (PlaintextContent, error) {
	var w plaintextWire
	if err := yaml.Unmarshal(data, &w); err != nil {
		return PlaintextContent{}, fmt.Errorf("parse plaintext: %w", err)
	}

	pt := PlaintextContent{LastUpdate: w.LastUpdate.Time(), Entries: make([]PlaintextEntry, 0, len(w.Entries))}
	for _, we := range w.Entries {
		e := PlaintextEntry{
			Name:       we.Name,
			Tags:       we.Tags,
			Fields:     make([]PlaintextField, 0, len(we.Fields)),
			FirstAdded: we.FirstAdded.Time(),
			LastUpdate: we.LastUpdate.Time(),
		}
		for _, wf := range we.Fields {
			var v PlaintextValue
			switch {
			case wf.Value.Manual != nil && wf.Value.Totp == nil:
				v = ManualValue(wf.Value.Manual.Value, wf.Value.Manual.Protected)
			case wf.Value.Totp != nil && wf.Value.Manual == nil:
				v = TotpValue(wf.Value.Totp.Issuer, wf.Value.Totp.Secret)
			default:
				return PlaintextContent{}, fmt.Errorf("entry %q field %q: value must be exactly one of Manual, Totp", we.Name, wf.Name)
			}
			e.Fields = append(e.Fields, PlaintextField{Name: wf.Name, Value: v})
		}
		pt.Entries = append(pt.Entries, e)
	}
	return pt, nil
}
