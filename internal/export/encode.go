package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// PageSize is a page size in PDF points.
type PageSize struct {
	Width  float64
	Height float64
}

// Encoder turns a raster image into document bytes.
type Encoder interface {
	Encode(img image.Image, size PageSize) ([]byte, error)
}

// PDFEncoder writes a single-page PDF holding one full-page image.
type PDFEncoder struct{}

// Encode implements Encoder. The image is stretched to exactly cover the
// page; callers pass a page size with the image's aspect ratio.
func (PDFEncoder) Encode(img image.Image, size PageSize) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image")
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errors.New("empty image")
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %gx%g", size.Width, size.Height)
	}

	var buf bytes.Buffer
	box := &pdf.Rectangle{URx: size.Width, URy: size.Height}
	pg, err := document.WriteSinglePage(&buf, box, pdf.V1_7, nil)
	if err != nil {
		return nil, err
	}

	pg.PushGraphicsState()
	pg.Transform(matrix.Scale(size.Width, size.Height))
	pg.DrawXObject(pdfimage.FromImage(flatten(img), pdfcolor.SpaceDeviceRGB, 8))
	pg.PopGraphicsState()

	if err := pg.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites img over white so the page has no transparency.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
