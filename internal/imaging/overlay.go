package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"
)

// OverlayResult contains a source image with a detection overlay drawn on
// top, encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws a detection result over its source image: the
// region mask as a translucent tint and the polygon as a solid outline.
//
// The mask arrives at working resolution (maskW x maskH flat row-major
// bools) and is upscaled to the image size with nearest-neighbor
// resampling; interpolating a binary mask would smear its edge into
// half-tinted pixels. Vertices are (x, y) pairs in original-image pixel
// units. colorHex selects the overlay color ("#RRGGBB"); invalid or empty
// values fall back to cyan.
func RenderOverlay(img image.Image, mask []bool, maskW, maskH int, vertices [][2]float64, colorHex string) (*OverlayResult, error) {
	if maskW <= 0 || maskH <= 0 || len(mask) != maskW*maskH {
		return nil, fmt.Errorf("mask is %d elements, want %dx%d", len(mask), maskW, maskH)
	}

	overlayColor, err := colorful.Hex(colorHex)
	if err != nil {
		overlayColor, _ = colorful.Hex("#00ffff")
	}

	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	tintMask(out, mask, maskW, maskH, overlayColor)
	for i := range vertices {
		next := vertices[(i+1)%len(vertices)]
		drawLine(out, vertices[i][0], vertices[i][1], next[0], next[1], overlayColor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// tintMask blends the overlay color into every member pixel of the mask,
// upscaled to the output size.
func tintMask(out *image.RGBA, mask []bool, maskW, maskH int, c colorful.Color) {
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()

	maskImg := image.NewGray(image.Rect(0, 0, maskW, maskH))
	for i, member := range mask {
		if member {
			maskImg.Pix[i] = 255
		}
	}
	scaled := image.Image(maskImg)
	if maskW != w || maskH != h {
		scaled = transform.Resize(maskImg, w, h, transform.NearestNeighbor)
	}

	const tint = 0.35
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if member, _, _, _ := scaled.At(x, y).RGBA(); member == 0 {
				continue
			}
			base := out.RGBAAt(x, y)
			baseColor := colorful.Color{
				R: float64(base.R) / 255,
				G: float64(base.G) / 255,
				B: float64(base.B) / 255,
			}
			blended := baseColor.BlendRgb(c, tint)
			r, g, b := blended.RGB255()
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: base.A})
		}
	}
}

// drawLine rasterizes a line segment with integer DDA stepping. Polygon
// edges are short relative to the image, so a plain unantialiased line is
// enough for an inspection overlay.
func drawLine(out *image.RGBA, x1, y1, x2, y2 float64, c colorful.Color) {
	r, g, b := c.RGB255()
	rgba := color.RGBA{R: r, G: g, B: b, A: 255}

	steps := int(math.Max(math.Abs(x2-x1), math.Abs(y2-y1)))
	if steps == 0 {
		steps = 1
	}
	bounds := out.Bounds()
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(x1 + t*(x2-x1)))
		y := int(math.Round(y1 + t*(y2-y1)))
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			out.SetRGBA(x, y, rgba)
		}
	}
}
