package fontload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Go Regular", f.Fontname)
	assert.Equal(t, path, f.Filepath)
	assert.Equal(t, goregular.TTF, f.Binary)
}

func TestParseInvalidFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh")
	defer teardown()
	//
	f := ParseFont([]byte("no font"))
	assert.Empty(t, f.Fontname)
	assert.Equal(t, []byte("no font"), f.Binary)
}

func TestFontNotFound(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh")
	defer teardown()
	//
	_, err := Load("no-such-font-3f9a7c.ttf")
	assert.True(t, errors.Is(err, ErrFontNotFound))
}
