package sprite

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/pokedex/internal/pokeapi/pokeapitest"
)

type fakeSource map[string][]byte

func (f fakeSource) Fetch(_ context.Context, url string) ([]byte, error) {
	b, ok := f[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return b, nil
}

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

func TestRender_HalfBlocks(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(pokeapitest.SpritePNG()))
	require.NoError(t, err)

	// top row red|clear, bottom row blue|green
	assert.Equal(t, "▀▄", Render(img, 40))
}

func TestRender_CropsTransparentMargin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(4, 4, color.NRGBA{R: 255, A: 255})
	img.Set(5, 5, color.NRGBA{R: 255, A: 255})

	out := Render(img, 40)
	assert.Equal(t, "▀▄", out)
}

func TestRender_ScalesToWidth(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	lines := strings.Split(Render(img, 16), "\n")
	assert.Len(t, lines, 4, "16 cols x 8 px rows = 4 text rows")
	for _, ln := range lines {
		assert.Equal(t, 16, len([]rune(ln)))
	}
}

func TestRender_FullyTransparent(t *testing.T) {
	assert.Empty(t, Render(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 8))
}

func TestRenderer_Art(t *testing.T) {
	r := New(fakeSource{"ok": pokeapitest.SpritePNG(), "junk": []byte("nope")}, 8)

	art, err := r.Art(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "▀▄", art)

	_, err = r.Art(context.Background(), "junk")
	assert.ErrorContains(t, err, "decode sprite")

	_, err = r.Art(context.Background(), "missing")
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(12)
	assert.Contains(t, p, "?")
	for _, ln := range strings.Split(p, "\n") {
		assert.Equal(t, 12, len([]rune(ln)))
	}
}
