package v04

import (
	"os"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/dmitrijs2005/lockbox/internal/cryptox"
	"github.com/dmitrijs2005/lockbox/internal/format"
	"github.com/dmitrijs2005/lockbox/internal/format/formattest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	restore := cryptox.WeakenKDFForTesting()
	code := m.Run()
	restore()
	os.Exit(code)
}

func writeAndParse(t *testing.T, c *FileContent) *FileContent {
	t.Helper()
	data, err := c.Write()
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	return parsed
}

func TestMakeNew(t *testing.T) {
	c, err := MakeNew("pw1")
	require.NoError(t, err)
	assert.Equal(t, Version, c.Version())
	assert.True(t, c.Decrypted())
	assert.True(t, c.Unsaved())
	assert.Equal(t, 0, c.NumEntries())
	assert.NotEmpty(t, c.Salt())
}

func TestBankScenario(t *testing.T) {
	c, err := MakeNew("pw1")
	require.NoError(t, err)

	idx := c.AddEmptyEntry("Bank")
	e := c.EntryMut(idx)
	b := e.FieldBuilder()
	b.SetName("pin")
	b.SetValue(format.ManualValue("1234", true))
	require.NoError(t, e.SetField(0, b))

	data, err := c.Write()
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: v0.4")
	assert.NotContains(t, string(data), "1234")

	loaded, err := Parse(data)
	require.NoError(t, err)
	assert.False(t, loaded.Decrypted())
	assert.False(t, loaded.Unsaved())

	_, err = loaded.Entry(0).Field(0).Value()
	require.ErrorIs(t, err, common.ErrContentsNotUnlocked)

	require.ErrorIs(t, loaded.SetKey("wrong"), common.ErrBadCrypt)
	assert.False(t, loaded.Decrypted())

	require.NoError(t, loaded.SetKey("pw1"))
	d, err := loaded.Entry(0).Field(0).Value()
	require.NoError(t, err)
	assert.Equal(t, "1234", d.Text)

	require.ErrorIs(t, loaded.SetKey("wrong"), common.ErrBadCrypt)
	assert.True(t, loaded.Decrypted())
}

func TestRoundTripPlaintext(t *testing.T) {
	want := formattest.Sample(true)
	c, err := FromPlaintext(want, "pw")
	require.NoError(t, err)

	loaded := writeAndParse(t, c)
	require.NoError(t, loaded.SetKey("pw"))
	got, err := loaded.ToPlaintext()
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plaintext mismatch (-want +got):\n%s", diff)
	}
}

func TestToCurrent_Identity(t *testing.T) {
	c, err := FromPlaintext(formattest.Sample(true), "pw")
	require.NoError(t, err)
	loaded := writeAndParse(t, c)

	cur, err := loaded.ToCurrent("pw")
	require.NoError(t, err)
	assert.Same(t, loaded, cur)

	again, err := cur.ToCurrent("ignored once unlocked")
	require.NoError(t, err)
	assert.Same(t, loaded, again)

	got, err := again.ToPlaintext()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(formattest.Sample(true), got))
}

func TestToCurrent_WrongPassword(t *testing.T) {
	c, err := MakeNew("pw")
	require.NoError(t, err)
	loaded := writeAndParse(t, c)

	_, err = loaded.ToCurrent("nope")
	require.ErrorIs(t, err, common.ErrBadCrypt)
}

func TestDeriveKeyThenUnlock(t *testing.T) {
	c, err := MakeNew("pw")
	require.NoError(t, err)
	loaded := writeAndParse(t, c)

	key, err := loaded.DeriveKey("pw")
	require.NoError(t, err)
	assert.Len(t, key, cryptox.KeySize)
	assert.False(t, loaded.Decrypted())
	require.NoError(t, loaded.Unlock(key))
	assert.True(t, loaded.Decrypted())
}

func TestParse_Errors(t *testing.T) {
	c, err := MakeNew("pw")
	require.NoError(t, err)
	data, err := c.Write()
	require.NoError(t, err)
	doc := string(data)

	_, err = Parse([]byte(strings.Replace(doc, "version: v0.4", "version: v0.3", 1)))
	require.ErrorIs(t, err, common.ErrVersionMismatch)

	_, err = Parse([]byte(strings.Replace(doc, "salt: "+c.Salt(), "", 1)))
	require.ErrorIs(t, err, common.ErrMalformedFile)

	broken, err := Parse([]byte(strings.Replace(doc, "salt: "+c.Salt(), "salt: '***'", 1)))
	require.NoError(t, err)
	require.ErrorIs(t, broken.SetKey("pw"), common.ErrMalformedFile)
}

func TestParse_StoredFixture(t *testing.T) {
	loaded, err := Parse(formattest.Fixture(t, "v0.4"))
	require.NoError(t, err)
	assert.Equal(t, "bG9ja2JveC1maXh0dXJlIQ", loaded.Salt())
	require.NoError(t, loaded.Unlock(formattest.FixtureKey))

	otp := loaded.Entry(0).Field(2)
	assert.Equal(t, format.KindTotp, otp.Kind())
	pv, err := otp.PlaintextValue()
	require.NoError(t, err)
	assert.Equal(t, format.TotpValue("Bank", formattest.RFCSecret), pv)

	want := format.PlaintextContent{
		LastUpdate: formattest.FixtureTime,
		Entries:    []format.PlaintextEntry{formattest.FixtureEntry(true)},
	}
	got, err := loaded.ToPlaintext()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))

	out, err := loaded.Write()
	require.NoError(t, err)
	reparsed, err := Parse(out)
	require.NoError(t, err)
	require.NoError(t, reparsed.Unlock(formattest.FixtureKey))
	got, err = reparsed.ToPlaintext()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))

	for _, s := range []string{"basic: alice", "protected: ", "totp:", "issuer: Bank", "secs_since_epoch: 1599000000", "nanos_since_epoch: 123456789"} {
		assert.Contains(t, string(out), s)
	}
}
