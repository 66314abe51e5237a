package totpx

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6238 appendix B, SHA1 seed "12345678901234567890"; the 8-digit vectors
// truncated to the last six digits.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerate_RFCVectors(t *testing.T) {
	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, tt := range tests {
		code, err := Generate(rfcSecret, time.Unix(tt.unix, 0))
		require.NoError(t, err)
		assert.Equal(t, tt.want, code.Value, "T=%d", tt.unix)
	}
}

func TestGenerate_LowercaseSecret(t *testing.T) {
	code, err := Generate("gezdgnbvgy3tqojqgezdgnbvgy3tqojq", time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "287082", code.Value)
}

func TestGenerate_Remaining(t *testing.T) {
	code, err := Generate(rfcSecret, time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, 1*time.Second, code.Remaining)

	assert.Equal(t, 30*time.Second, Remaining(time.Unix(60, 0)))
	assert.Equal(t, 13*time.Second, Remaining(time.Unix(77, 0)))
	assert.Equal(t, 1*time.Second, Remaining(time.Unix(59, 500_000_000)))
}

func TestSlice(t *testing.T) {
	assert.Equal(t, int64(1), slice(time.Unix(59, 0)))
	assert.Equal(t, int64(2), slice(time.Unix(60, 0)))
	assert.Equal(t, int64(2), slice(time.Unix(89, 999)))
}

func TestGenerate_BadSecret(t *testing.T) {
	for _, s := range []string{"", "   ", "not base32 !!", "1"} {
		_, err := Generate(s, time.Unix(59, 0))
		require.ErrorIs(t, err, common.ErrBadTotpSecret, "secret %q", s)
	}
}
