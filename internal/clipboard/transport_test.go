package clipboard

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURIList(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	text := encodeURIList([]string{"/tmp/proj/a b.c", "/tmp/proj/src"})
	assert.Equal(t, "file:///tmp/proj/a%20b.c\r\nfile:///tmp/proj/src", text)
	assert.Equal(t, []string{"/tmp/proj/a b.c", "/tmp/proj/src"}, decodeURIList(text))

	mixed := "# copied from a file manager\nhttps://example.com/x\nplain text\nfile:///etc/hosts\n"
	assert.Equal(t, []string{"/etc/hosts"}, decodeURIList(mixed))
	assert.Empty(t, decodeURIList(""))
}

func TestMemoryTransport(t *testing.T) {
	m := NewMemoryTransport()
	files, err := m.Files()
	require.NoError(t, err)
	assert.Empty(t, files)

	paths := []string{"/a", "/b"}
	require.NoError(t, m.Publish(paths))
	paths[0] = "/changed"

	files, err = m.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, files)
}
