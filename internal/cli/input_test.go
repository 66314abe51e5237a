package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPasswords makes readPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	queue := append([]string{}, pws...)
	readPassword = func(int) ([]byte, error) {
		if len(queue) == 0 {
			return nil, errors.New("no more passwords")
		}
		pw := queue[0]
		queue = queue[1:]
		return []byte(pw), nil
	}
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("hello world\n")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleText_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("lastline")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	stubPasswords(t, "s3cret")
	var out bytes.Buffer

	got, err := GetPassword(&out, "Key: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "Key: \n", out.String())

	_, err = GetPassword(&out, "Key: ")
	require.Error(t, err)
}

func TestGetNewPassword(t *testing.T) {
	var out bytes.Buffer

	stubPasswords(t, "a", "a")
	got, err := GetNewPassword(&out, "New: ")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	stubPasswords(t, "a", "b")
	_, err = GetNewPassword(&out, "New: ")
	require.ErrorIs(t, err, errPasswordMismatch)
}
