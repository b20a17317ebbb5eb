// Package render paints a layout tree into a pixel canvas.
package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/chrisuehlinger/boxrender/css"
	"github.com/chrisuehlinger/boxrender/layout"
)

// Canvas represents the rendering surface.
type Canvas struct {
	Pixels []color.RGBA
	Width  int
	Height int
}

// NewCanvas creates a new canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	pixels := make([]color.RGBA, width*height)
	white := color.RGBA{255, 255, 255, 255}
	for i := range pixels {
		pixels[i] = white
	}
	return &Canvas{
		Pixels: pixels,
		Width:  width,
		Height: height,
	}
}

// Paint builds the display list for a layout tree and executes it on a new
// canvas the size of bounds.
func Paint(root *layout.LayoutBox, bounds layout.Rect) *Canvas {
	c := NewCanvas(int(bounds.Width), int(bounds.Height))
	for _, cmd := range BuildDisplayList(root) {
		cmd.Execute(c)
	}
	return c
}

// DisplayCommand represents a single painting operation.
type DisplayCommand interface {
	Execute(c *Canvas)
}

// SolidColorCommand paints a solid color rectangle.
type SolidColorCommand struct {
	Color color.RGBA
	Rect  layout.Rect
}

// Execute paints the solid color rectangle.
func (cmd *SolidColorCommand) Execute(c *Canvas) {
	c.FillRect(cmd.Rect, cmd.Color)
}

// BuildDisplayList walks the layout tree in pre-order, painting each box's
// background and then its borders before its children.
func BuildDisplayList(root *layout.LayoutBox) []DisplayCommand {
	var list []DisplayCommand
	if root != nil {
		renderLayoutBox(&list, root)
	}
	return list
}

func renderLayoutBox(list *[]DisplayCommand, box *layout.LayoutBox) {
	renderBackground(list, box)
	renderBorders(list, box)
	for _, child := range box.Children {
		renderLayoutBox(list, child)
	}
}

func renderBackground(list *[]DisplayCommand, box *layout.LayoutBox) {
	if col, ok := getColor(box, "background"); ok {
		*list = append(*list, &SolidColorCommand{Color: col, Rect: box.Dimensions.BorderBox()})
	}
}

func renderBorders(list *[]DisplayCommand, box *layout.LayoutBox) {
	col, ok := getColor(box, "border-color")
	if !ok {
		return
	}

	d := &box.Dimensions
	bb := d.BorderBox()
	*list = append(*list,
		// Left
		&SolidColorCommand{Color: col, Rect: layout.Rect{X: bb.X, Y: bb.Y, Width: d.Border.Left, Height: bb.Height}},
		// Right
		&SolidColorCommand{Color: col, Rect: layout.Rect{X: bb.X + bb.Width - d.Border.Right, Y: bb.Y, Width: d.Border.Right, Height: bb.Height}},
		// Top
		&SolidColorCommand{Color: col, Rect: layout.Rect{X: bb.X, Y: bb.Y, Width: bb.Width, Height: d.Border.Top}},
		// Bottom
		&SolidColorCommand{Color: col, Rect: layout.Rect{X: bb.X, Y: bb.Y + bb.Height - d.Border.Bottom, Width: bb.Width, Height: d.Border.Bottom}},
	)
}

// getColor returns the color value of a property. Anonymous boxes and
// non-color values paint nothing.
func getColor(box *layout.LayoutBox, name string) (color.RGBA, bool) {
	style, err := box.Style()
	if err != nil {
		return color.RGBA{}, false
	}
	v, ok := style.Value(name)
	if !ok || v.Type != css.ColorValue {
		return color.RGBA{}, false
	}
	return color.RGBA{R: v.Color.R, G: v.Color.G, B: v.Color.B, A: v.Color.A}, true
}

// SetPixel sets a single pixel on the canvas.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	if x >= 0 && x < c.Width && y >= 0 && y < c.Height {
		c.Pixels[y*c.Width+x] = col
	}
}

// At returns the pixel at (x, y), or transparent black outside the canvas.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return color.RGBA{}
	}
	return c.Pixels[y*c.Width+x]
}

// FillRect overwrites a rectangle with the given color. The rectangle is
// clamped to the canvas before its edges are truncated to pixels.
func (c *Canvas) FillRect(rect layout.Rect, col color.RGBA) {
	x0 := int(clamp(rect.X, 0, float64(c.Width)))
	y0 := int(clamp(rect.Y, 0, float64(c.Height)))
	x1 := int(clamp(rect.X+rect.Width, 0, float64(c.Width)))
	y1 := int(clamp(rect.Y+rect.Height, 0, float64(c.Height)))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.SetPixel(x, y, col)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Image converts the canvas to a Go image.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.SetRGBA(x, y, c.Pixels[y*c.Width+x])
		}
	}
	return img
}

// WritePNG encodes the canvas as PNG to w.
func (c *Canvas) WritePNG(w io.Writer) error {
	return gg.NewContextForRGBA(c.Image()).EncodePNG(w)
}

// SavePNG writes the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	return gg.SavePNG(path, c.Image())
}
