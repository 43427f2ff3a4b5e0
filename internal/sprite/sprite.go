// Package sprite turns sprite images into half-block terminal art.
package sprite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Source yields raw image bytes for a URL. *assetcache.Cache satisfies it.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Renderer fetches and draws sprites at a fixed column width.
type Renderer struct {
	src   Source
	width int
}

func New(src Source, width int) *Renderer {
	if width < 2 {
		width = 2
	}
	return &Renderer{src: src, width: width}
}

// Width is the maximum number of columns Art produces.
func (r *Renderer) Width() int { return r.width }

// Art fetches url and renders it.
func (r *Renderer) Art(ctx context.Context, url string) (string, error) {
	b, err := r.src.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("decode sprite: %w", err)
	}
	return Render(img, r.width), nil
}

// alphaCutoff below which a pixel counts as background.
const alphaCutoff = 0x4000

// Render draws img cropped to its opaque pixels, scaled down to at most
// width columns. Each text row covers two pixel rows.
func Render(img image.Image, width int) string {
	box := opaqueBounds(img)
	if box.Empty() {
		return ""
	}
	cols := min(width, box.Dx())
	rows := box.Dy() * cols / box.Dx()
	if rows < 1 {
		rows = 1
	}
	if rows%2 == 1 {
		rows++
	}

	at := func(x, y int) color.Color {
		sx := box.Min.X + x*box.Dx()/cols
		sy := box.Min.Y + y*box.Dy()/rows
		if sy >= box.Max.Y {
			return color.Transparent
		}
		return img.At(sx, sy)
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			sb.WriteString(cell(at(x, y), at(x, y+1)))
		}
	}
	return sb.String()
}

func cell(top, bottom color.Color) string {
	t, tok := hex(top)
	b, bok := hex(bottom)
	switch {
	case tok && bok:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t)).Background(lipgloss.Color(b)).Render("▀")
	case tok:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t)).Render("▀")
	case bok:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(b)).Render("▄")
	}
	return " "
}

func hex(c color.Color) (string, bool) {
	r, g, b, a := c.RGBA()
	if a < alphaCutoff {
		return "", false
	}
	// un-premultiply
	r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8), true
}

func opaqueBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	out := image.Rectangle{Min: b.Max, Max: b.Min}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a < alphaCutoff {
				continue
			}
			out.Min.X = min(out.Min.X, x)
			out.Min.Y = min(out.Min.Y, y)
			out.Max.X = max(out.Max.X, x+1)
			out.Max.Y = max(out.Max.Y, y+1)
		}
	}
	if out.Min.X >= out.Max.X {
		return image.Rectangle{}
	}
	return out
}

// Placeholder is drawn when a record has no image or it failed to load.
func Placeholder(width int) string {
	if width < 3 {
		width = 3
	}
	rows := max(1, width/6)
	line := strings.Repeat("░", width)
	lines := make([]string, 0, rows*2+1)
	for i := 0; i < rows; i++ {
		lines = append(lines, line)
	}
	mid := strings.Repeat("░", (width-1)/2) + "?" + strings.Repeat("░", width-1-(width-1)/2)
	lines = append(lines, mid)
	for i := 0; i < rows; i++ {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
