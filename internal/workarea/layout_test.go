package workarea

import (
	"testing"

	"edshell/internal/buffer"
	"edshell/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullStore struct{}

func (nullStore) ReadFile(path string) ([]byte, error) { return []byte("text"), nil }
func (nullStore) WriteFile(string, []byte) error       { return nil }

func TestLayoutPrefixSum(t *testing.T) {
	reg := New(nullStore{}, nil, nil, Options{})
	for _, p := range []string{"/p/a.c", "/p/main.go", "/p/日本.txt"} {
		_, err := reg.SelectOrOpen(p)
		require.NoError(t, err)
	}

	rects := reg.Layout()
	require.Len(t, rects, 3)

	// label width + " x"
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 5, Height: 1}, rects[0])
	assert.Equal(t, Rect{X: 5, Y: 0, Width: 9, Height: 1}, rects[1])
	// wide runes take two cells each
	assert.Equal(t, Rect{X: 14, Y: 0, Width: 10, Height: 1}, rects[2])

	for i, tab := range reg.Visible() {
		assert.Equal(t, rects[i], tab.Rect())
	}
}

func TestLayoutScaleAndMarker(t *testing.T) {
	rec := &events.Recorder{}
	reg := New(nullStore{}, rec, nil, Options{Metrics: Metrics{
		BaseHeight:       10,
		CloseButtonWidth: 4,
		MinWidth:         12,
		EditedMarker:     " *",
	}})
	tab, err := reg.SelectOrOpen("/p/a.c")
	require.NoError(t, err)

	assert.Equal(t, 12, reg.Layout()[0].Width, "minimum width applies")

	tab.Buffer().SetText("changed")
	assert.Equal(t, "a.c *", tab.DisplayName())

	rec.Reset()
	reg.SetScale(2)
	assert.Equal(t, 1, rec.Count(events.TabsChanged))
	assert.Equal(t, 2.0, reg.Scale())
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 24, Height: 20}, reg.Layout()[0])

	reg.SetScale(2)
	reg.SetScale(-1)
	assert.Equal(t, 1, rec.Count(events.TabsChanged), "no-op scale changes are ignored")
}

func TestTabAt(t *testing.T) {
	reg := New(nullStore{}, nil, nil, Options{})
	a, _ := reg.SelectOrOpen("/p/a.c")
	b, _ := reg.SelectOrOpen("/p/b.c")

	tab, onClose := reg.TabAt(1, 0)
	assert.Same(t, a, tab)
	assert.False(t, onClose)

	tab, onClose = reg.TabAt(4, 0)
	assert.Same(t, a, tab)
	assert.True(t, onClose)

	tab, _ = reg.TabAt(6, 0)
	assert.Same(t, b, tab)

	tab, _ = reg.TabAt(40, 0)
	assert.Nil(t, tab)
	tab, _ = reg.TabAt(1, 3)
	assert.Nil(t, tab)
}

func TestEncodingOf(t *testing.T) {
	assert.Equal(t, "UTF-8", encodingOf("text/plain; charset=utf-8"))
	assert.Equal(t, "UTF-16LE", encodingOf("text/plain; charset=utf-16le"))
	assert.Equal(t, "UTF-8", encodingOf("text/plain"))
}

func TestScratchBuffersShareOptions(t *testing.T) {
	reg := New(nullStore{}, nil, nil, Options{Buffer: buffer.Options{Zoom: 200}})
	first := reg.NewScratch()
	second := reg.NewScratch()
	assert.NotEqual(t, first.Key(), second.Key())
	assert.Equal(t, 200, second.Buffer().Zoom())
	assert.Same(t, second, reg.Selected())
}
