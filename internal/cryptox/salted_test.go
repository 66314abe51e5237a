package cryptox

import (
	"bytes"
	"testing"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalted_RoundTripAllLengths(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()

	for n := 0; n <= 70; n++ {
		pt := common.GenerateRandByteArray(n)
		ct, err := EncryptSalted(pt, iv, key)
		require.NoError(t, err)

		back, err := DecryptSalted(ct, iv, key)
		require.NoError(t, err)
		require.True(t, bytes.Equal(pt, back), "length %d", n)
	}
}

func TestSalted_RoundTripEverySaltLength(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()
	pt := []byte("1234")

	for l := SaltMinLength; l <= SaltMaxLength; l++ {
		salt := common.GenerateRandByteArray(l)
		orig := bytes.Clone(salt)

		ct, err := EncryptWithSalt(pt, salt, iv, key)
		require.NoError(t, err)
		assert.Equal(t, orig, salt, "caller's salt must not be modified")

		back, err := DecryptSalted(ct, iv, key)
		require.NoError(t, err)
		assert.Equal(t, pt, back, "salt length %d", l)
	}
}

func TestSalted_LengthNibble(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()

	salt := bytes.Repeat([]byte{0xAB}, 20)
	ct, err := EncryptWithSalt([]byte("v"), salt, iv, key)
	require.NoError(t, err)

	full, err := Decrypt(ct, iv, key)
	require.NoError(t, err)
	assert.Equal(t, byte(0xA0|3), full[0], "high nibble kept, low nibble = 20-17")
	assert.Equal(t, salt[1:], full[1:20])
}

func TestSalted_PayloadFloor(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()

	for n := 0; n < 32; n++ {
		for i := 0; i < 20; i++ {
			ct, err := EncryptSalted(bytes.Repeat([]byte{'x'}, n), iv, key)
			require.NoError(t, err)

			full, err := Decrypt(ct, iv, key)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(full), 32, "plaintext length %d", n)

			saltLen := int(full[0]&0x0F) + SaltMinLength
			require.GreaterOrEqual(t, saltLen, SaltMinLength)
			require.LessOrEqual(t, saltLen, SaltMaxLength)
		}
	}
}

func TestEncryptWithSalt_PanicsOnBadSalt(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()

	require.Panics(t, func() { _, _ = EncryptWithSalt(nil, make([]byte, 16), iv, key) })
	require.Panics(t, func() { _, _ = EncryptWithSalt(nil, make([]byte, 33), iv, key) })
}

func TestDecryptSalted_ShortPayloadIsBadCrypt(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	iv := GenerateIV()

	// 5 bytes, first byte announces a 17+ byte salt
	ct, err := Encrypt([]byte{0x00, 1, 2, 3, 4}, iv, key)
	require.NoError(t, err)

	_, err = DecryptSalted(ct, iv, key)
	require.ErrorIs(t, err, common.ErrBadCrypt)

	ct, err = Encrypt(nil, iv, key)
	require.NoError(t, err)
	_, err = DecryptSalted(ct, iv, key)
	require.ErrorIs(t, err, common.ErrBadCrypt)
}

func TestSalted_WrongKey(t *testing.T) {
	iv := GenerateIV()
	right := common.GenerateRandByteArray(KeySize)
	wrong := common.GenerateRandByteArray(KeySize)

	ct, err := EncryptSalted([]byte("encryption token ☺"), iv, right)
	require.NoError(t, err)

	out, err := DecryptSalted(ct, iv, wrong)
	if err == nil {
		assert.NotEqual(t, []byte("encryption token ☺"), out)
	}
}
