package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jumanpp/internal/port"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "犬\n")
	writeFile(t, filepath.Join(root, "a.txt"), "猫\n")
	writeFile(t, filepath.Join(root, "notes.md"), "# skip\n")
	writeFile(t, filepath.Join(root, "sub", "c.txt"), "鳥\n")
	writeFile(t, filepath.Join(root, "drafts", "d.txt"), "魚\n")

	w := NewWalker(nil, []string{"drafts/**"})
	files, err := w.Walk(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "sub/c.txt"}, rel)
}

func TestWalker_WalkSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.md")
	writeFile(t, path, "犬\n")

	files, err := NewWalker(nil, nil).Walk(path)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0].Path)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestWalker_WalkMissingRoot(t *testing.T) {
	_, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWalker_ReadSentences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	writeFile(t, path, "\ufeffすもももももももものうち\r\n\n   \n私の犬が走った\n")

	sentences, err := NewWalker(nil, nil).ReadSentences(path)
	require.NoError(t, err)
	assert.Equal(t, []port.Sentence{
		{Line: 1, Text: "すもももももももものうち"},
		{Line: 4, Text: "私の犬が走った"},
	}, sentences)
}
