// Package formattest holds fixtures shared by the format generation tests.
package formattest

import (
	"crypto/sha256"
	"embed"
	"testing"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/format"
)

// RFCSecret is the RFC 6238 SHA-1 test seed in base32.
const RFCSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

// Stores in the layout each generation writes to disk, one file per
// generation plus an exported plaintext document. All of them hold the same
// Bank entry (see FixtureEntry).
//
// legacy.yaml and v0.2.yaml are keyed by SHA-256 of FixturePassword. The
// v0.3 and v0.4 files are sealed directly under FixtureKey, so tests unlock
// them without running Argon2id.
//
//go:embed testdata/*.yaml
var fixtures embed.FS

const FixturePassword = "correct horse"

// FixtureKey is the raw key of the salted fixtures.
var FixtureKey = func() []byte {
	sum := sha256.Sum256([]byte("lockbox fixture key"))
	return sum[:]
}()

// Fixture returns testdata/<name>.yaml.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	return data
}

// FixtureEntry is the plaintext of the Bank entry stored in every fixture.
// withTotp adds the TOTP field only v0.4 carries.
func FixtureEntry(withTotp bool) format.PlaintextEntry {
	e := format.PlaintextEntry{
		Name:       "Bank",
		Tags:       []string{"money"},
		FirstAdded: time.Unix(1599000000, 0).UTC(),
		LastUpdate: time.Unix(1600000000, 123456789).UTC(),
		Fields: []format.PlaintextField{
			{Name: "user", Value: format.ManualValue("alice", false)},
			{Name: "pin", Value: format.ManualValue("1234", true)},
		},
	}
	if withTotp {
		e.Fields = append(e.Fields, format.PlaintextField{Name: "otp", Value: format.TotpValue("Bank", RFCSecret)})
	}
	return e
}

// FixtureTime is the store-level last update of every fixture.
var FixtureTime = time.Unix(1600000000, 123456789).UTC()

// Sample returns a small store in plaintext form. withTotp adds a TOTP field
// for generations that support it.
func Sample(withTotp bool) format.PlaintextContent {
	t0 := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC)

	bank := format.PlaintextEntry{
		Name:       "Bank",
		Tags:       []string{"money"},
		FirstAdded: t0,
		LastUpdate: t1,
		Fields: []format.PlaintextField{
			{Name: "user", Value: format.ManualValue("alice", false)},
			{Name: "pin", Value: format.ManualValue("1234", true)},
			{Name: "note", Value: format.ManualValue("", true)},
		},
	}
	if withTotp {
		bank.Fields = append(bank.Fields, format.PlaintextField{Name: "otp", Value: format.TotpValue("Bank", RFCSecret)})
	}

	return format.PlaintextContent{
		LastUpdate: t1,
		Entries: []format.PlaintextEntry{
			bank,
			{
				Name:       "Mail",
				Tags:       []string{},
				FirstAdded: t0,
				LastUpdate: t0,
				Fields: []format.PlaintextField{
					{Name: "password", Value: format.ManualValue("correct horse battery staple ☺", true)},
				},
			},
		},
	}
}
