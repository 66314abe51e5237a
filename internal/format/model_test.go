package format

import (
	"testing"

	"github.com/dmitrijs2005/lockbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "basic", KindBasic.String())
	assert.Equal(t, "protected", KindProtected.String())
	assert.Equal(t, "totp", KindTotp.String())
	assert.Equal(t, "ValueKind(9)", ValueKind(9).String())
}

func TestBody_Validate(t *testing.T) {
	b := Body{Inner: []Entry{{Name: "x", Fields: []Field{{Name: "otp", Value: Value{Kind: KindTotp}}}}}}
	require.ErrorIs(t, b.Validate(Salted), common.ErrUnsupportedTotp)
	require.NoError(t, b.Validate(Salted.WithTotp()))
}
