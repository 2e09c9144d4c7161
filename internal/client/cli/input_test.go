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

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer

	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Name?")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer

	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)
}

func TestGetSimpleText_EmptyInput(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer

	_, err := GetSimpleText(in, "Name?", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	t.Run("returns terminal input", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
		var out bytes.Buffer

		pw, err := GetPassword(&out)
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), pw)
	})

	t.Run("propagates terminal errors", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
		var out bytes.Buffer

		_, err := GetPassword(&out)
		assert.Error(t, err)
	})
}
