package datasets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs,
		"/imgs/b.PNG",
		"/imgs/a.png",
		"/imgs/.hidden.png",
		"/imgs/notes.txt",
		"/imgs/sub/c.png",
	)

	all, err := GetFiles(fs, "/imgs", nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/imgs/a.png", "/imgs/b.PNG", "/imgs/notes.txt"}, all)

	pngs, err := GetFiles(fs, "/imgs", []string{"png"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/imgs/a.png", "/imgs/b.PNG"}, pngs)

	deep, err := GetFiles(fs, "/imgs", []string{".png"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"/imgs/a.png", "/imgs/b.PNG", "/imgs/sub/c.png"}, deep)

	_, err = GetFiles(fs, "/missing", nil, false)
	require.Error(t, err)
}

func TestFromFolder(t *testing.T) {
	fs := folderFixture(t)
	il, err := FromFolder(fs, "/data", []string{".png"}, true)
	require.NoError(t, err)
	assert.Equal(t, 3, il.Len())
	assert.Equal(t, "/data", il.Path())
	assert.Same(t, fs, il.Fs())

	shallow, err := FromFolder(fs, "/data/train/cat", nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/train/cat/1.png"}, shallow.Items())
}

func TestFirstSegment(t *testing.T) {
	n, err := firstSegment("/data", "/data/train/cat/1.png")
	require.NoError(t, err)
	assert.Equal(t, "train", n)

	n, err = firstSegment("/data", "/data/1.png")
	require.NoError(t, err)
	assert.Equal(t, "1.png", n)

	_, err = firstSegment("/data", "/other/1.png")
	require.ErrorIs(t, err, ErrNotInPath)
}
