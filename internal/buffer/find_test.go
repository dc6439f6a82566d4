package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	b := New(newMemStore(), Options{})
	b.SetText("Foo bar foo baz FOO")

	t.Run("forward case-insensitive", func(t *testing.T) {
		b.SetCursor(0)
		assert.True(t, b.Find("foo", FindOptions{}))
		start, end := b.Selection()
		assert.Equal(t, 0, start)
		assert.Equal(t, 3, end)

		assert.True(t, b.Find("foo", FindOptions{}))
		start, _ = b.Selection()
		assert.Equal(t, 8, start)

		assert.True(t, b.Find("foo", FindOptions{}))
		start, _ = b.Selection()
		assert.Equal(t, 16, start)

		assert.False(t, b.Find("foo", FindOptions{}))
		start, _ = b.Selection()
		assert.Equal(t, 16, start, "selection kept on miss")
	})

	t.Run("forward case-sensitive", func(t *testing.T) {
		b.SetCursor(0)
		assert.True(t, b.Find("foo", FindOptions{CaseSensitive: true}))
		start, _ := b.Selection()
		assert.Equal(t, 8, start)
		assert.False(t, b.Find("foo", FindOptions{CaseSensitive: true}))
	})

	t.Run("backward", func(t *testing.T) {
		b.SetCursor(b.Len())
		assert.True(t, b.Find("foo", FindOptions{Backward: true}))
		start, _ := b.Selection()
		assert.Equal(t, 16, start)

		assert.True(t, b.Find("foo", FindOptions{Backward: true}))
		start, _ = b.Selection()
		assert.Equal(t, 8, start)
	})

	t.Run("backward finds overlapping matches", func(t *testing.T) {
		b.SetText("aaa")
		b.SetCursor(b.Len())
		assert.True(t, b.Find("aa", FindOptions{Backward: true}))
		start, end := b.Selection()
		assert.Equal(t, 1, start)
		assert.Equal(t, 3, end)

		assert.False(t, b.Find("aa", FindOptions{Backward: true}))
	})

	t.Run("backward skips partial runes", func(t *testing.T) {
		b.SetText("héhé")
		b.SetCursor(b.Len())
		assert.True(t, b.Find("É", FindOptions{Backward: true}))
		start, end := b.Selection()
		assert.Equal(t, 4, start)
		assert.Equal(t, 6, end)
	})

	t.Run("special characters are literal", func(t *testing.T) {
		b.SetText("a.b a*b")
		b.SetCursor(0)
		assert.True(t, b.Find("a*b", FindOptions{}))
		start, _ := b.Selection()
		assert.Equal(t, 4, start)
	})

	t.Run("empty target", func(t *testing.T) {
		assert.False(t, b.Find("", FindOptions{}))
	})
}

func TestReplace(t *testing.T) {
	b := New(newMemStore(), Options{})
	b.SetText("one two")
	b.MarkSaved()

	assert.False(t, b.Replace("x"), "no selection")
	assert.False(t, b.HasPendingEdits())

	b.SetCursor(0)
	assert.True(t, b.Find("two", FindOptions{}))
	assert.True(t, b.Replace("three"))
	assert.Equal(t, "one three", b.Text())
	assert.True(t, b.HasPendingEdits())
}

func TestReplaceAll(t *testing.T) {
	b := New(newMemStore(), Options{})
	b.SetText("cat Cat cat")

	assert.Equal(t, 3, b.ReplaceAll("cat", "dog", FindOptions{}))
	assert.Equal(t, "dog dog dog", b.Text())
	assert.Equal(t, 0, b.Cursor())

	// Replacement containing the target does not loop
	b.SetText("aa")
	assert.Equal(t, 2, b.ReplaceAll("a", "aa", FindOptions{CaseSensitive: true}))
	assert.Equal(t, "aaaa", b.Text())
}
