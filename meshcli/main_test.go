package main

import (
	"testing"

	"github.com/npillmayer/fontmesh"
	"github.com/npillmayer/fontmesh/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	intp := &Intp{}
	cmd, err := intp.parseCommand("rune:U+00C4 glyph::tris  stats")
	require.NoError(t, err)
	assert.Equal(t, 3, cmd.count)
	assert.Equal(t, Op{code: RUNE, arg: "U+00C4"}, cmd.op[0])
	assert.Equal(t, Op{code: GLYPH, format: "tris"}, cmd.op[1])
	assert.Equal(t, Op{code: STATS}, cmd.op[2])
	assert.Equal(t, NOOP, cmd.op[3].code)
	//
	cmd, err = intp.parseCommand("frobnicate quit")
	require.NoError(t, err)
	assert.Equal(t, HELP, cmd.op[0].code)
	assert.Equal(t, QUIT, cmd.op[1].code)
}

func TestParseRune(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	tests := []struct {
		arg  string
		r    rune
		fail bool
	}{
		{"A", 'A', false},
		{"Ä", 'Ä', false},
		{"U+00C4", 'Ä', false},
		{"u+20ac", '€', false},
		{"0x41", 'A', false},
		{"65", 'A', false},
		{"U+110000", 0, true},
		{"xyz", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			r, err := parseRune(tt.arg)
			if tt.fail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.r, r)
		})
	}
}

func TestExecute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontmesh.cli")
	defer teardown()
	//
	otf, err := ot.Parse(goregular.TTF)
	require.NoError(t, err)
	mf, err := fontmesh.CompileFont(otf)
	require.NoError(t, err)
	intp := &Intp{name: "Go Regular", font: otf, mesh: mf}
	//
	cmd, _ := intp.parseCommand("glyph")
	err, stop := intp.execute(cmd)
	assert.ErrorIs(t, err, ErrNoGlyph)
	assert.False(t, stop)
	//
	cmd, _ = intp.parseCommand("rune:o glyph::tris tables:head stats errors")
	err, stop = intp.execute(cmd)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.True(t, intp.seen)
	assert.Equal(t, mf.GlyphIndex('o'), intp.glyph)
	//
	cmd, _ = intp.parseCommand("glyph:65535")
	err, _ = intp.execute(cmd)
	assert.Error(t, err)
	//
	cmd, _ = intp.parseCommand("quit")
	_, stop = intp.execute(cmd)
	assert.True(t, stop)
}
