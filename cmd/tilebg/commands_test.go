package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoLevel = "testdata/demo.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	err := app.Run(append([]string{"tilebg"}, args...))
	return out.String(), err
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", demoLevel)
	require.NoError(t, err)

	assert.Contains(t, out, "Level: demo")
	assert.Contains(t, out, "Register: 0x04000008 = 0x2880")
	assert.Contains(t, out, "Tile data: 16 bytes at 0x06000000")
	assert.Contains(t, out, "Map: 1024 entries at 0x06004000")
	assert.Contains(t, out, "Collidable: [1]")
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no motion", []string{"--delta=0,0"}, "blocked=none"},
		{"toward solid tile", []string{"--box=30,40,37,47", "--delta=4,0"}, "blocked=x x=true y=false"},
		{"away from solid tile", []string{"--box=30,40,37,47", "--delta=-4,0"}, "blocked=none"},
		{"into top wall", []string{"--box=16,8,23,15", "--delta=0,-2"}, "blocked=y x=false y=true"},
		{"scroll shifts the map", []string{"--box=22,32,29,39", "--delta=4,0", "--scroll=8,8"}, "blocked=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"query"}, tt.args...)
			out, err := run(t, append(args, demoLevel)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.expected)
		})
	}
}

func TestQueryBadFlags(t *testing.T) {
	_, err := run(t, "query", "--delta=1", demoLevel)
	assert.Error(t, err)

	_, err = run(t, "query", "--box=a,b,c,d", "--delta=1,0", demoLevel)
	assert.Error(t, err)
}

func TestMissingLevel(t *testing.T) {
	_, err := run(t, "inspect")
	assert.Error(t, err)

	_, err = run(t, "inspect", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	png := filepath.Join(t.TempDir(), "demo.png")
	out, err := run(t, "dump", "--png="+png, "--scale=2", demoLevel)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 33)
	assert.Contains(t, lines[0], "BG0")
	assert.Equal(t, strings.Repeat("#", 32), lines[1])
	assert.Equal(t, "#....#.........2222............#", lines[6])

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestDumpClear(t *testing.T) {
	out, err := run(t, "dump", "--clear", demoLevel)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, strings.Repeat(" ", 32), lines[1])
}

func TestParseInts(t *testing.T) {
	v, err := parseInts(" 1, -2,3 ", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, v)

	_, err = parseInts("1,2", 3)
	assert.Error(t, err)

	_, err = parseInts("1,x", 2)
	assert.Error(t, err)
}
