package format

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Base64 is a byte blob written to YAML as standard base64 text.
type Base64 []byte

func (b Base64) MarshalYAML() (any, error) {
	return base64.StdEncoding.EncodeToString(b), nil
}

func (b *Base64) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*b = raw
	return nil
}

// epoch is a timestamp written as whole seconds plus nanoseconds since the
// Unix epoch. Both keys are required.
type epoch struct {
	Secs  int64 `yaml:"secs_since_epoch"`
	Nanos int64 `yaml:"nanos_since_epoch"`
}

func epochOf(t time.Time) epoch {
	return epoch{Secs: t.Unix(), Nanos: int64(t.Nanosecond())}
}

// Time returns the instant in UTC.
func (e epoch) Time() time.Time {
	return time.Unix(e.Secs, e.Nanos).UTC()
}

func (e *epoch) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		Secs  *int64 `yaml:"secs_since_epoch"`
		Nanos *int64 `yaml:"nanos_since_epoch"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	if raw.Secs == nil || raw.Nanos == nil {
		return fmt.Errorf("line %d: timestamp needs secs_since_epoch and nanos_since_epoch", n.Line)
	}
	if *raw.Nanos < 0 || *raw.Nanos >= int64(time.Second) {
		return fmt.Errorf("line %d: nanos_since_epoch out of range", n.Line)
	}
	*e = epoch{Secs: *raw.Secs, Nanos: *raw.Nanos}
	return nil
}

type wireFile struct {
	Version    string      `yaml:"version,omitempty"`
	Token      Base64      `yaml:"token"`
	IV         Base64      `yaml:"iv"`
	Salt       string      `yaml:"salt,omitempty"`
	LastUpdate epoch       `yaml:"last_update"`
	Inner      []wireEntry `yaml:"inner"`
}

type wireEntry struct {
	Name       string      `yaml:"name"`
	Tags       []string    `yaml:"tags"`
	Fields     []wireField `yaml:"fields"`
	FirstAdded epoch       `yaml:"first_added"`
	LastUpdate epoch       `yaml:"last_update"`
}

type wireField struct {
	Name  string    `yaml:"name"`
	Value yaml.Node `yaml:"value"`
}

type wireTotp struct {
	Issuer string `yaml:"issuer"`
	Secret Base64 `yaml:"secret"`
}

func newWireFile(b Body, tags Tags) (wireFile, error) {
	w := wireFile{LastUpdate: epochOf(b.LastUpdate), Inner: make([]wireEntry, 0, len(b.Inner))}
	for _, e := range b.Inner {
		we := wireEntry{
			Name:       e.Name,
			Tags:       e.Tags,
			Fields:     make([]wireField, 0, len(e.Fields)),
			FirstAdded: epochOf(e.FirstAdded),
			LastUpdate: epochOf(e.LastUpdate),
		}
		for _, f := range e.Fields {
			n, err := encodeValue(f.Value, tags)
			if err != nil {
				return wireFile{}, fmt.Errorf("entry %q field %q: %w", e.Name, f.Name, err)
			}
			we.Fields = append(we.Fields, wireField{Name: f.Name, Value: *n})
		}
		w.Inner = append(w.Inner, we)
	}
	return w, nil
}

func (w wireFile) body(tags Tags) (Body, error) {
	b := Body{LastUpdate: w.LastUpdate.Time(), Inner: make([]Entry, 0, len(w.Inner))}
	for _, we := range w.Inner {
		e := Entry{
			Name:       we.Name,
			Tags:       we.Tags,
			Fields:     make([]Field, 0, len(we.Fields)),
			FirstAdded: we.FirstAdded.Time(),
			LastUpdate: we.LastUpdate.Time(),
		}
		for _, wf := range we.Fields {
			v, err := decodeValue(&wf.Value, tags)
			if err != nil {
				return Body{}, fmt.Errorf("entry %q field %q: %w", we.Name, wf.Name, err)
			}
			e.Fields = append(e.Fields, Field{Name: wf.Name, Value: v})
		}
		b.Inner = append(b.Inner, e)
	}
	return b, nil
}

// encodeValue renders v as a single-key mapping named by tags.
func encodeValue(v Value, tags Tags) (*yaml.Node, error) {
	var body map[string]any
	switch v.Kind {
	case KindBasic:
		body = map[string]any{tags.Basic: v.Text}
	case KindProtected:
		body = map[string]any{tags.Protected: Base64(v.Cipher)}
	case KindTotp:
		body = map[string]any{tags.Totp: wireTotp{Issuer: v.Issuer, Secret: v.Cipher}}
	default:
		return nil, fmt.Errorf("unknown value kind %v", v.Kind)
	}

	var n yaml.Node
	if err := n.Encode(body); err != nil {
		return nil, err
	}
	return &n, nil
}

var errValueShape = errors.New("value must be a mapping with exactly one key")

// decodeValue reads a value written by encodeValue with the same tags.
func decodeValue(n *yaml.Node, tags Tags) (Value, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return Value{}, fmt.Errorf("line %d: %w", n.Line, errValueShape)
	}

	key, body := n.Content[0].Value, n.Content[1]
	switch key {
	case tags.Basic:
		var s string
		if err := body.Decode(&s); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBasic, Text: s}, nil
	case tags.Protected:
		var c Base64
		if err := body.Decode(&c); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindProtected, Cipher: c}, nil
	case tags.Totp:
		var t wireTotp
		if err := body.Decode(&t); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTotp, Issuer: t.Issuer, Cipher: t.Secret}, nil
	default:
		return Value{}, fmt.Errorf("line %d: unknown value variant %q", n.Line, key)
	}
}
