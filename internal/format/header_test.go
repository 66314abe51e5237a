package format

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndParseFile(t *testing.T) {
	k := newStore(t, Salted.WithTotp())
	idx := k.AddEmptyEntry("Bank")
	addField(t, k, idx, "pin", ManualValue("1234", true))
	addField(t, k, idx, "otp", TotpValue("Bank", rfcSecret))

	data, err := WriteFile(k, "v9", "c2FsdA")
	require.NoError(t, err)

	v, err := ProbeVersion(data)
	require.NoError(t, err)
	assert.Equal(t, "v9", v)

	f, err := ParseFile(data, "v9", Salted.WithTotp())
	require.NoError(t, err)
	assert.Equal(t, "c2FsdA", f.Salt)
	assert.Equal(t, k.IV(), []byte(f.IV))

	reopened := NewKeyed(f.Body, f.Token, f.IV, Salted.WithTotp())
	require.NoError(t, reopened.Unlock(testKey))
	d, err := reopened.Entry(0).Field(0).Value()
	require.NoError(t, err)
	assert.Equal(t, "1234", d.Text)

	_, err = ParseFile(data, "v8", Salted.WithTotp())
	require.ErrorIs(t, err, common.ErrVersionMismatch)

	_, err = ParseFile(data, "v9", Salted)
	require.ErrorIs(t, err, common.ErrMalformedFile)
}

func TestParseFile_Malformed(t *testing.T) {
	tests := map[string]string{
		"not yaml": "version: [",
		"short iv": "version: v1\ntoken: aGk=\niv: aGk=\n",
		"no token": "version: v1\niv: AAAAAAAAAAAAAAAAAAAAAA==\n",
		"bad b64":  "version: v1\ntoken: '***'\niv: AAAAAAAAAAAAAAAAAAAAAA==\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFile([]byte(doc), "v1", Salted)
			require.ErrorIs(t, err, common.ErrMalformedFile)
		})
	}
}

func TestProbeVersion_Missing(t *testing.T) {
	v, err := ProbeVersion([]byte("token: aGk=\n"))
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestParseFile_Unversioned(t *testing.T) {
	doc := "---\ntoken: aGk=\niv: AAECAwQFBgcICQoLDA0ODw==\nlast_update:\n  secs_since_epoch: 5\n  nanos_since_epoch: 0\ninner: []\n"

	f, err := ParseFile([]byte(doc), "", Unsalted)
	require.NoError(t, err)
	assert.Equal(t, "", f.Version)
	assert.Equal(t, []byte("hi"), f.Token)
	assert.True(t, time.Unix(5, 0).Equal(f.LastUpdate))
	assert.Empty(t, f.Inner)

	_, err = ParseFile([]byte(doc), "v0.2", Unsalted)
	require.ErrorIs(t, err, common.ErrVersionMismatch)
}

func TestWriteFile_TagsFollowScheme(t *testing.T) {
	for want, scheme := range map[string]Scheme{"Basic: alice": Unsalted, "basic: alice": Salted.WithTotp()} {
		k := newStore(t, scheme)
		idx := k.AddEmptyEntry("Bank")
		addField(t, k, idx, "user", ManualValue("alice", false))

		data, err := WriteFile(k, "v1", "")
		require.NoError(t, err)
		assert.Contains(t, string(data), want)
		assert.Contains(t, string(data), "secs_since_epoch:")
	}
}
