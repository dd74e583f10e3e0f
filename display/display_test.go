package display

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLookup(t *testing.T) {
	drv, err := New("null")
	assert.NoError(t, err)
	assert.Equal(t, "null", drv.Name())

	// Lookup is case-insensitive, as driver names come from a CLI flag.
	drv, err = New("NULL")
	assert.NoError(t, err)
	assert.NotNil(t, drv)
}

func TestRegistryUnknownDriver(t *testing.T) {
	_, err := New("bogus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestNamesIncludesBuiltins(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "null")
	assert.Contains(t, names, "sdl")
	assert.Contains(t, names, "term")
}

func TestNullDriverRecordsFrames(t *testing.T) {
	d := &nullDriver{}
	assert.NoError(t, d.Init())

	fb := make([]uint8, 64*32)
	fb[5] = 1
	assert.NoError(t, d.Render(fb))

	// The recorded frame is a copy, later mutation does not leak in.
	fb[5] = 0
	assert.Len(t, d.frames, 1)
	assert.Equal(t, uint8(1), d.frames[0][5])
}

func TestNullDriverEventInjection(t *testing.T) {
	d := &nullDriver{}
	d.Inject(KeyEvent{Key: 0xA, Pressed: true}, QuitEvent{})

	evs := d.PollEvents()
	assert.Len(t, evs, 2)
	assert.Equal(t, KeyEvent{Key: 0xA, Pressed: true}, evs[0])
	assert.IsType(t, QuitEvent{}, evs[1])

	assert.Empty(t, d.PollEvents())
}

func TestDefaultKeymap(t *testing.T) {
	km := DefaultKeymap()
	assert.Len(t, km, 16)
	assert.Equal(t, uint8(0x1), km['1'])
	assert.Equal(t, uint8(0xC), km['4'])
	assert.Equal(t, uint8(0x0), km['x'])
	assert.Equal(t, uint8(0xF), km['v'])
}

func TestLoadKeymap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	assert.NoError(t, os.WriteFile(path, []byte(`{"J": "a", "k": "0"}`), 0o644))

	km, err := LoadKeymap(path)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xA), km['j'])
	assert.Equal(t, uint8(0x0), km['k'])
}

func TestLoadKeymapRejectsBadBindings(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"multi-char host key": `{"jk": "1"}`,
		"non-hex keypad key":  `{"j": "g"}`,
		"out of range":        `{"j": "10"}`,
		"not json":            `hello`,
	}
	for name, content := range cases {
		path := filepath.Join(dir, name+".json")
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadKeymap(path)
		assert.Error(t, err, name)
	}
}
