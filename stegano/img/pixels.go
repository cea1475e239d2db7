package img
import (
	"fmt"
	"image"
	"image/draw"

	"pixhide/stegano/util"
)

// raw RGBA8888 samples, non-premultiplied, row by row.
type PixelBuffer struct {
	Width	int
	Height	int
	Pix	[]byte
}

func NewPixelBuffer( width, height int ) *PixelBuffer {
	return &PixelBuffer{
		Width: width,
		Height: height,
		Pix: make( []byte, width * height * 4 ),
	}
}

func(p *PixelBuffer) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: no pixel buffer", util.ErrInvalidParameter)
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", util.ErrInvalidParameter, p.Width, p.Height)
	}
	if len(p.Pix) != p.Width * p.Height * 4 {
		return fmt.Errorf("%w: %dx%d image needs %d bytes, got %d",
			util.ErrInvalidParameter, p.Width, p.Height, p.Width * p.Height * 4, len(p.Pix))
	}
	return nil
}

func(p *PixelBuffer) Clone() *PixelBuffer {
	pix := make( []byte, len(p.Pix) )
	copy( pix, p.Pix )
	return &PixelBuffer{
		Width: p.Width,
		Height: p.Height,
		Pix: pix,
	}
}

/*
 * FromImage copies any image into a PixelBuffer. NRGBA is copied as is,
 * everything else is drawn into an NRGBA first. Premultiplied RGBA would
 * destroy the low bits of translucent pixels, so we never keep it.
 */
func FromImage( src image.Image ) *PixelBuffer {
	bounds := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA( bounds )
		draw.Draw( nrgba, bounds, src, bounds.Min, draw.Src )
	}

	width, height := bounds.Dx(), bounds.Dy()
	pb := NewPixelBuffer( width, height )
	rowSize := width * 4
	for y := 0; y < height; y++ {
		off := nrgba.PixOffset( bounds.Min.X, bounds.Min.Y + y )
		copy( pb.Pix[ y * rowSize : (y + 1) * rowSize ], nrgba.Pix[ off : off + rowSize ] )
	}
	return pb
}

func(p *PixelBuffer) Image() *image.NRGBA {
	out := image.NewNRGBA( image.Rect( 0, 0, p.Width, p.Height ) )
	copy( out.Pix, p.Pix )
	return out
}
