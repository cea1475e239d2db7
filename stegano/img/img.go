package img
import (
	"fmt"
	"bytes"

	"pixhide/stegano/util"
)

type Format uint8

const (
	UnknownFormat = Format(0)
	PNGFormat = Format(1)
	BMPFormat = Format(2)
	GIFFormat = Format(3)
	JPEGFormat = Format(4)
)

func(f Format) String() string {
	switch f {
	case PNGFormat:
		return "png"
	case BMPFormat:
		return "bmp"
	case GIFFormat:
		return "gif"
	case JPEGFormat:
		return "jpeg"
	}
	return "unknown"
}

var (
	ErrAlphaDropped = fmt.Errorf("%w: carrier format drops the alpha channel", util.ErrInvalidParameter)
)

var (
	pngMagic = []byte{ 0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a }
	bmpMagic = []byte{ 0x42, 0x4d }
	gifMagic = []byte{ 0x47, 0x49, 0x46 }
	jpegMagic = []byte{ 0xff, 0xd8, 0xff }
)

func DetectFormat( data []byte ) Format {
	switch {
	case bytes.HasPrefix( data, pngMagic ):
		return PNGFormat
	case bytes.HasPrefix( data, bmpMagic ):
		return BMPFormat
	case bytes.HasPrefix( data, gifMagic ):
		return GIFFormat
	case bytes.HasPrefix( data, jpegMagic ):
		return JPEGFormat
	}
	return UnknownFormat
}

/*
 * DecodeCarrier turns an image file into raw pixels. Only lossless RGBA
 * capable formats are accepted: a palette (gif) or a lossy encoder (jpeg)
 * would not give us back the samples we wrote.
 */
func DecodeCarrier( data []byte ) (*PixelBuffer, Format, error) {
	format := DetectFormat( data )
	var pixels *PixelBuffer
	var err error

	switch format {
	case PNGFormat:
		pixels, err = decodePNG( data )
	case BMPFormat:
		pixels, err = decodeBMP( data )
	default:
		return nil, format, fmt.Errorf("Unsupported image format: %v", format)
	}
	if err != nil {
		return nil, format, err
	}
	return pixels, format, nil
}

func EncodeCarrier( pixels *PixelBuffer, format Format ) ([]byte, error) {
	switch format {
	case PNGFormat:
		return encodePNG( pixels )
	case BMPFormat:
		return encodeBMP( pixels )
	}
	return nil, fmt.Errorf("Unsupported image format: %v", format)
}

/*
 * CarrierOptions pins opts for a decoded carrier. x/image/bmp writes BMP
 * files its own decoder reads back as opaque, so alpha bits never survive a
 * BMP: there Auto means never and Always is refused.
 */
func CarrierOptions( pixels *PixelBuffer, format Format, opts Options ) (Options, error) {
	if format != BMPFormat {
		return ResolveOptions( pixels, opts ), nil
	}
	switch opts.Alpha {
	case AlphaAlways:
		return opts, fmt.Errorf("%w (%v)", ErrAlphaDropped, format)
	case AlphaAuto:
		opts.Alpha = AlphaNever
	}
	return opts, nil
}

/*
 * Hide hides data in the decoy image file and returns the new file in the
 * same format, along with the options actually used: an Auto alpha policy
 * comes back pinned to what it resolved to on the decoy.
 */
func Hide( decoy, data []byte, opts Options ) ([]byte, Options, error) {
	pixels, format, err := DecodeCarrier( decoy )
	if err != nil {
		return nil, opts, err
	}
	if opts, err = CarrierOptions( pixels, format, opts ); err != nil {
		return nil, opts, err
	}
	encoded, err := Encode( pixels, data, opts )
	if err != nil {
		return nil, opts, err
	}
	res, err := EncodeCarrier( encoded, format )
	return res, opts, err
}

func Reveal( decoy []byte, opts Options ) ([]byte, error) {
	pixels, format, err := DecodeCarrier( decoy )
	if err != nil {
		return nil, err
	}
	if format == BMPFormat {
		// same view of the alpha channel as Hide had
		if opts, err = CarrierOptions( pixels, format, opts ); err != nil {
			return nil, err
		}
	}
	return Decode( pixels, opts )
}
