package img
import (
	"bytes"
	"image/png"
)

func decodePNG( data []byte ) (*PixelBuffer, error) {
	img, err := png.Decode( bytes.NewReader( data ) )
	if err != nil {
		return nil, err
	}
	return FromImage( img ), nil
}

func encodePNG( pixels *PixelBuffer ) ([]byte, error) {
	buf := new(bytes.Buffer)
	// NRGBA is written as is, no premultiplication on the way out
	if err := png.Encode( buf, pixels.Image() ); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
