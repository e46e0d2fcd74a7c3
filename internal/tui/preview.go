package tui

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	// Decoders for the image formats the service accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Preview geometry. Each text row shows two pixel rows via the upper
// half-block, so the sampled grid is previewCols x (2 * rows).
const (
	previewCols    = 36
	previewMaxRows = 12
)

// renderImagePreview decodes the image at path and renders a downsampled
// ANSI half-block thumbnail. Runs inside a tea.Cmd; never on the update loop.
func renderImagePreview(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("empty image")
	}

	cols := previewCols
	if w < cols {
		cols = w
	}
	// A terminal cell is roughly twice as tall as wide; half blocks give two
	// pixels per row, so rows = cols * (h/w) / 2 keeps the aspect ratio.
	rows := cols * h / w / 2
	if rows < 1 {
		rows = 1
	}
	if rows > previewMaxRows {
		rows = previewMaxRows
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := sampleAvg(img, bounds, col, row*2, cols, rows*2)
			bottom := sampleAvg(img, bounds, col, row*2+1, cols, rows*2)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			sb.WriteString(cell.Render("▀"))
		}
		if row < rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// sampleAvg averages the source pixels covered by grid cell (gx, gy) and
// returns the result as a hex color string.
func sampleAvg(img image.Image, bounds image.Rectangle, gx, gy, gridW, gridH int) string {
	x0 := bounds.Min.X + gx*bounds.Dx()/gridW
	x1 := bounds.Min.X + (gx+1)*bounds.Dx()/gridW
	y0 := bounds.Min.Y + gy*bounds.Dy()/gridH
	y1 := bounds.Min.Y + (gy+1)*bounds.Dy()/gridH
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	var r, g, b, n uint64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r += uint64(pr >> 8)
			g += uint64(pg >> 8)
			b += uint64(pb >> 8)
			n++
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", uint8(r/n), uint8(g/n), uint8(b/n))
}
