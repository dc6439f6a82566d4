package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPrefix(t *testing.T) {
	p := filepath.FromSlash
	tests := []struct {
		name   string
		path   string
		prefix string
		want   bool
	}{
		{"same path", p("/proj"), p("/proj"), true},
		{"child", p("/proj/a.c"), p("/proj"), true},
		{"grandchild", p("/proj/src/main.c"), p("/proj"), true},
		{"sibling with common prefix", p("/proj2/a.c"), p("/proj"), false},
		{"trailing separator on prefix", p("/proj/a.c"), p("/proj/"), true},
		{"unrelated", p("/other/a.c"), p("/proj"), false},
		{"root prefix", p("/proj/a.c"), p("/"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPrefix(tt.path, tt.prefix))
		})
	}
}

func TestReplacePrefix(t *testing.T) {
	p := filepath.FromSlash

	got, ok := ReplacePrefix(p("/proj/src/a.c"), p("/proj"), p("/proj2"))
	assert.True(t, ok)
	assert.Equal(t, p("/proj2/src/a.c"), got)

	got, ok = ReplacePrefix(p("/proj/a.c"), p("/proj/a.c"), p("/proj/b.c"))
	assert.True(t, ok)
	assert.Equal(t, p("/proj/b.c"), got)

	got, ok = ReplacePrefix(p("/proj2/a.c"), p("/proj"), p("/x"))
	assert.False(t, ok)
	assert.Equal(t, p("/proj2/a.c"), got)
}

func TestSplitQuoted(t *testing.T) {
	assert.Equal(t, "/my proj", SplitQuoted(`"/my proj"`))
	assert.Equal(t, "/proj", SplitQuoted("/proj"))
	assert.Equal(t, `"`, SplitQuoted(`"`))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".git"))
	assert.False(t, IsHidden("main.go"))
}
